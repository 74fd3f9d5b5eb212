package cfapi

import (
	"strings"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
	"github.com/ivanehh/go-cfapi/pkg/endpoints"
	"github.com/ivanehh/go-cfapi/pkg/platform/logging"
	"github.com/samber/lo"
)

// Build turns an endpoint table into a tree rooted at an unnamed branch.
// Specs must list parents before children: every component but the last has
// to exist already. c is shared by every node and may be nil for a tree that
// is only inspected; calls on such a tree return ErrNoClient.
func Build(specs []endpoints.Spec, c *Client) (*Node, error) {
	root := newNode(c, "", endpoints.Spec{Policy: endpoints.None})
	for _, s := range specs {
		if err := root.insert(s); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// parentOf resolves every component of s but the last.
func (n *Node) parentOf(s endpoints.Spec) (*Node, string, error) {
	comps := s.Components()
	if len(comps) == 0 {
		return nil, "", &cferr.MissingPathSegmentError{Path: s.String()}
	}
	parent := n
	for _, comp := range comps[:len(comps)-1] {
		child, ok := parent.Child(endpoints.Name(comp))
		if !ok {
			return nil, "", &cferr.MissingPathSegmentError{Segment: comp, Path: s.String()}
		}
		parent = child
	}
	return parent, endpoints.Name(comps[len(comps)-1]), nil
}

func (n *Node) insert(s endpoints.Spec) error {
	parent, name, err := n.parentOf(s)
	if err != nil {
		return err
	}
	if err := parent.children.Add(name, newNode(n.client, name, s)); err != nil {
		return &cferr.DuplicateEndpointError{Parent: parent.String(), Name: name}
	}
	return nil
}

// addExtras attaches extra endpoints. Paths the tree already has are left
// alone.
func (n *Node) addExtras(specs []endpoints.Spec, log *logging.Logger) error {
	for _, s := range specs {
		parent, name, err := n.parentOf(s)
		if err != nil {
			return err
		}
		if _, ok := parent.Child(name); ok {
			log.Debug("extra endpoint already present", "path", s.String())
			continue
		}
		if err := n.insert(s); err != nil {
			return err
		}
	}
	return nil
}

// walkPath follows a path such as "/zones/:id/dns_records" or
// "zones/dns_records"; identifier placeholders are ignored.
func (n *Node) walkPath(path string) (*Node, error) {
	elems := lo.Filter(strings.Split(strings.Trim(path, "/"), "/"), func(e string, _ int) bool {
		return e != "" && !strings.HasPrefix(e, ":") && !(strings.HasPrefix(e, "{") && strings.HasSuffix(e, "}"))
	})
	return n.Walk(lo.Map(elems, func(e string, _ int) string { return endpoints.Name(e) })...)
}

// flatten lists every callable node below n, depth first in declaration order.
func (n *Node) flatten() []*Node {
	var out []*Node
	for _, child := range n.Children() {
		if child.kind == KindEndpoint {
			out = append(out, child)
		}
		out = append(out, child.flatten()...)
	}
	return out
}
