// Package endpoints declares the REST resource paths the client tree is built from.
package endpoints

import (
	"fmt"
	"go/token"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// MaxParts is the number of literal path templates a Spec can hold; there is
// one identifier slot between each pair, so at most four identifiers.
const MaxParts = 5

// Policy says which verbs an endpoint allows and how it authenticates.
type Policy int

const (
	// None marks a path that only exists to hold children.
	None Policy = iota
	// ReadOnly allows GET without credentials.
	ReadOnly
	Authenticated
	// AuthenticatedRaw returns the decoded payload without unwrapping or
	// raising upstream errors.
	AuthenticatedRaw
	// CertAuth authenticates with the origin-CA certificate token.
	CertAuth
)

var policyNames = map[Policy]string{
	None:             "VOID",
	ReadOnly:         "OPEN",
	Authenticated:    "AUTH",
	AuthenticatedRaw: "AUTH_UNWRAPPED",
	CertAuth:         "CERT",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the table names (VOID, OPEN, AUTH, AUTH_UNWRAPPED, CERT).
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return None, fmt.Errorf("unknown endpoint policy %q", s)
}

// Allows reports whether method may be called on an endpoint with this policy.
func (p Policy) Allows(method string) bool {
	switch p {
	case ReadOnly:
		return method == http.MethodGet
	case Authenticated, AuthenticatedRaw, CertAuth:
		switch method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			return true
		}
	}
	return false
}

// Spec is one row of the endpoint table. Parts are literal path templates
// (which may contain '/'); an identifier goes between consecutive parts.
type Spec struct {
	Policy Policy
	Parts  [MaxParts]string
}

// New builds a Spec; it panics when given more than MaxParts parts, which
// only happens with a broken static table.
func New(policy Policy, parts ...string) Spec {
	if len(parts) == 0 || len(parts) > MaxParts {
		panic(fmt.Sprintf("endpoints: %d parts given, want 1..%d", len(parts), MaxParts))
	}
	s := Spec{Policy: policy}
	copy(s.Parts[:], parts)
	return s
}

// Components splits the parts into the names the tree is navigated by.
func (s Spec) Components() []string {
	var out []string
	for _, p := range s.Parts {
		if p == "" {
			continue
		}
		out = append(out, strings.Split(strings.Trim(p, "/"), "/")...)
	}
	return out
}

// String renders the path with ":id" placeholders, e.g. /zones/:id/dns_records.
func (s Spec) String() string {
	return Path(s.Parts)
}

// Path renders parts with ":id" between them.
func Path(parts [MaxParts]string) string {
	return "/" + strings.Join(lo.Compact(parts[:]), "/:id/")
}

// Name maps a path component to the name it is registered under in the tree:
// dashes become underscores and Go keywords get a trailing underscore.
func Name(component string) string {
	name := strings.ReplaceAll(component, "-", "_")
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}
