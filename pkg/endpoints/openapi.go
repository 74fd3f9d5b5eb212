package endpoints

import (
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-multierror"
)

// FromOpenAPI builds an endpoint table from an OpenAPI 3 document. Parent
// paths the document never declares are added with policy None so the result
// can be handed straight to the tree builder.
//
// Paths that cannot be represented (identifier first, more than MaxParts
// parts) are skipped. When any are skipped the returned error is a
// *multierror.Error naming each of them, and the specs are still usable. A
// document that fails to load returns no specs.
func FromOpenAPI(data []byte) ([]Spec, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	if doc.Paths == nil {
		return nil, nil
	}

	var skipped *multierror.Error
	var parsed []Spec
	items := doc.Paths.Map()
	paths := make([]string, 0, len(items))
	for p := range items {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		s, err := FromPath(policyFor(items[p]), p)
		if err != nil {
			skipped = multierror.Append(skipped, err)
			continue
		}
		parsed = append(parsed, s)
	}

	// parents sort before children once ordered by component list
	sort.SliceStable(parsed, func(i, j int) bool {
		return slices.Compare(parsed[i].Components(), parsed[j].Components()) < 0
	})

	seen := make(map[string]bool)
	var out []Spec
	for _, s := range parsed {
		comps := s.Components()
		for n := 1; n < len(comps); n++ {
			key := strings.Join(comps[:n], "/")
			if !seen[key] {
				seen[key] = true
				out = append(out, prefix(s, n))
			}
		}
		key := strings.Join(comps, "/")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}

	return out, skipped.ErrorOrNil()
}

// policyFor maps a path item to a policy: GET-only items whose operations
// explicitly drop security are read-only, everything else is authenticated.
func policyFor(item *openapi3.PathItem) Policy {
	if item == nil {
		return None
	}
	ops := item.Operations()
	if len(ops) == 0 {
		return None
	}
	for method, op := range ops {
		if method != http.MethodGet || op.Security == nil || len(*op.Security) != 0 {
			return Authenticated
		}
	}
	return ReadOnly
}

// prefix returns a None spec covering the first n components of s, keeping
// the part grouping of s.
func prefix(s Spec, n int) Spec {
	out := Spec{Policy: None}
	for i, p := range s.Parts {
		if p == "" || n == 0 {
			break
		}
		comps := strings.Split(strings.Trim(p, "/"), "/")
		if len(comps) > n {
			comps = comps[:n]
		}
		out.Parts[i] = strings.Join(comps, "/")
		n -= len(comps)
	}
	return out
}
