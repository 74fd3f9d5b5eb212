package cfapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
	"github.com/ivanehh/go-cfapi/pkg/endpoints"
	dm "github.com/ivanehh/go-cfapi/pkg/platform/datamanagement"
	"github.com/ivanehh/go-cfapi/pkg/platform/netcom"
)

// MaxIdentifiers is the most identifiers a path can take.
const MaxIdentifiers = endpoints.MaxParts - 1

var (
	ErrNoSuchEndpoint     = errors.New("no such endpoint")
	ErrTooManyIdentifiers = errors.New("too many identifiers")
	ErrNoClient           = errors.New("endpoint tree has no client")
)

type Kind int

const (
	// KindBranch nodes only hold children.
	KindBranch Kind = iota
	KindEndpoint
)

func (k Kind) String() string {
	if k == KindEndpoint {
		return "endpoint"
	}
	return "branch"
}

// Node is one position in the endpoint tree. Nodes are built once by Build
// and never change afterwards, so they may be shared between goroutines.
type Node struct {
	name     string
	kind     Kind
	spec     endpoints.Spec
	client   *Client
	children *dm.OrderedStore[string, *Node]
}

func newNode(c *Client, name string, spec endpoints.Spec) *Node {
	kind := KindEndpoint
	if spec.Policy == endpoints.None {
		kind = KindBranch
	}
	return &Node{
		name:     name,
		kind:     kind,
		spec:     spec,
		client:   c,
		children: dm.NewOrderedStore[string, *Node](),
	}
}

// Name is the sanitized name the node is registered under; empty for the root.
func (n *Node) Name() string { return n.name }

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) Policy() endpoints.Policy { return n.spec.Policy }

func (n *Node) Spec() endpoints.Spec { return n.spec }

// String renders the templated path, e.g. /zones/:id/dns_records.
func (n *Node) String() string {
	if n.spec.Parts[0] == "" {
		return "/"
	}
	return n.spec.String()
}

// Child returns the direct child registered under name.
func (n *Node) Child(name string) (*Node, bool) {
	child, err := n.children.Get(name)
	return child, err == nil
}

// Children returns the direct children in declaration order.
func (n *Node) Children() []*Node {
	return n.children.Values()
}

// Walk descends through names, e.g. Walk("zones", "dns_records").
func (n *Node) Walk(names ...string) (*Node, error) {
	cur := n
	for i, name := range names {
		next, ok := cur.Child(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchEndpoint, strings.Join(names[:i+1], "/"))
		}
		cur = next
	}
	return cur, nil
}

// MustWalk is Walk for paths known to exist; it panics otherwise.
func (n *Node) MustWalk(names ...string) *Node {
	node, err := n.Walk(names...)
	if err != nil {
		panic(err)
	}
	return node
}

type callArgs struct {
	ids    []string
	params map[string]any
	body   any
	files  []netcom.FormFile
}

type CallOption func(*callArgs)

// WithIdentifiers sets the path identifiers in order; an empty string leaves
// a position unset.
func WithIdentifiers(ids ...string) CallOption {
	return func(a *callArgs) {
		a.ids = ids
	}
}

// WithParams sets query parameters. Slice values are sent as repeated keys.
func WithParams(params map[string]any) CallOption {
	return func(a *callArgs) {
		a.params = params
	}
}

// WithBody sets the request body. Strings are sent verbatim as JavaScript,
// everything else as JSON.
func WithBody(body any) CallOption {
	return func(a *callArgs) {
		a.body = body
	}
}

// WithFile adds a multipart file part. May be given more than once.
func WithFile(field, filename string, content io.Reader) CallOption {
	return func(a *callArgs) {
		a.files = append(a.files, netcom.FormFile{Field: field, Filename: filename, Content: content})
	}
}

func (n *Node) Get(ctx context.Context, opts ...CallOption) (any, error) {
	return n.Do(ctx, http.MethodGet, opts...)
}

// Call is Get.
func (n *Node) Call(ctx context.Context, opts ...CallOption) (any, error) {
	return n.Do(ctx, http.MethodGet, opts...)
}

func (n *Node) Post(ctx context.Context, opts ...CallOption) (any, error) {
	return n.Do(ctx, http.MethodPost, opts...)
}

func (n *Node) Put(ctx context.Context, opts ...CallOption) (any, error) {
	return n.Do(ctx, http.MethodPut, opts...)
}

func (n *Node) Patch(ctx context.Context, opts ...CallOption) (any, error) {
	return n.Do(ctx, http.MethodPatch, opts...)
}

func (n *Node) Delete(ctx context.Context, opts ...CallOption) (any, error) {
	return n.Do(ctx, http.MethodDelete, opts...)
}

// Do calls the endpoint with an explicit HTTP method.
// Trees built without a client return ErrNoClient.
func (n *Node) Do(ctx context.Context, method string, opts ...CallOption) (any, error) {
	if n.client == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoClient, n)
	}
	args := new(callArgs)
	for _, opt := range opts {
		opt(args)
	}
	return n.client.call(ctx, n, strings.ToUpper(method), args)
}

// URLPath builds the request path for ids. The identifier following a part
// that has a successor is mandatory, except after the third part.
func (n *Node) URLPath(ids ...string) (string, error) {
	if len(ids) > MaxIdentifiers {
		return "", fmt.Errorf("%w: %s takes at most %d, got %d", ErrTooManyIdentifiers, n, MaxIdentifiers, len(ids))
	}
	var id [MaxIdentifiers]string
	copy(id[:], ids)
	p := n.spec.Parts

	missing := func(pos int) error {
		return &cferr.MissingIdentifierError{Position: pos, Path: n.String()}
	}

	var b strings.Builder
	b.WriteString(p[0])
	if id[0] != "" {
		b.WriteString("/" + id[0])
	}
	if p[1] != "" {
		if id[0] == "" {
			return "", missing(1)
		}
		b.WriteString("/" + p[1])
		if id[1] != "" {
			b.WriteString("/" + id[1])
		}
	}
	if p[2] != "" {
		b.WriteString("/" + p[2])
		if id[2] != "" {
			b.WriteString("/" + id[2])
		}
	}
	if p[3] != "" {
		if id[2] == "" {
			return "", missing(3)
		}
		b.WriteString("/" + p[3])
		if id[3] != "" {
			b.WriteString("/" + id[3])
		}
	}
	if p[4] != "" {
		b.WriteString("/" + p[4])
	}
	return b.String(), nil
}
