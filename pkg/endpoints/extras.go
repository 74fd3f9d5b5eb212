package endpoints

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrBadExtra = errors.New("bad extra endpoint")

var apiPrefix = regexp.MustCompile(`^.*/v4/`)

// isPlaceholder reports whether a path element stands for an identifier, in
// either ":zone_id" or "{zone_id}" form.
func isPlaceholder(elem string) bool {
	return strings.HasPrefix(elem, ":") ||
		(strings.HasPrefix(elem, "{") && strings.HasSuffix(elem, "}"))
}

// FromPath turns a templated path such as "/zones/:id/dns_records/:id" or
// "/zones/{zone_id}/dns_records" into a Spec with the given policy. A full URL
// up to and including "/v4/" is stripped first.
func FromPath(policy Policy, path string) (Spec, error) {
	path = apiPrefix.ReplaceAllString(strings.TrimSpace(path), "/")
	path = strings.Trim(path, "/")
	if path == "" {
		return Spec{}, fmt.Errorf("%w: empty path", ErrBadExtra)
	}

	var parts []string
	var literal []string
	for _, elem := range strings.Split(path, "/") {
		switch {
		case elem == "":
			return Spec{}, fmt.Errorf("%w: %q has an empty element", ErrBadExtra, path)
		case isPlaceholder(elem):
			if len(literal) == 0 {
				return Spec{}, fmt.Errorf("%w: %q has an identifier with no resource before it", ErrBadExtra, path)
			}
			parts = append(parts, strings.Join(literal, "/"))
			literal = literal[:0]
		default:
			literal = append(literal, elem)
		}
	}
	if len(literal) > 0 {
		parts = append(parts, strings.Join(literal, "/"))
	}
	if len(parts) > MaxParts {
		return Spec{}, fmt.Errorf("%w: %q has %d parts, at most %d are supported", ErrBadExtra, path, len(parts), MaxParts)
	}
	return New(policy, parts...), nil
}

// Extras parses the "extras" configuration list. Extras are always authenticated.
func Extras(paths []string) ([]Spec, error) {
	out := make([]Spec, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		s, err := FromPath(Authenticated, p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
