// Package auth decides which credential scheme applies to a call and
// produces the matching request headers.
package auth

import (
	"net/http"
	"strings"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderEmail         = "X-Auth-Email"
	HeaderKey           = "X-Auth-Key"
	HeaderCertToken     = "X-Auth-User-Service-Key"
)

// Field names, also used as the prefix of per-method override keys.
const (
	FieldEmail     = "email"
	FieldKey       = "key"
	FieldToken     = "token"
	FieldCertToken = "certtoken"
)

// Credentials holds the generic credential values. An empty string means the
// value is not set. Overrides maps "<field>.<method>" (method lower-cased, e.g.
// "token.patch") to a value that replaces the generic one for that method.
type Credentials struct {
	Email     string
	Key       string
	Token     string
	CertToken string
	Overrides map[string]string
}

// Lookup returns the value of field for method, preferring a per-method override.
func (c Credentials) Lookup(field, method string) string {
	if v, ok := c.Overrides[field+"."+strings.ToLower(method)]; ok {
		return v
	}
	switch field {
	case FieldEmail:
		return c.Email
	case FieldKey:
		return c.Key
	case FieldToken:
		return c.Token
	case FieldCertToken:
		return c.CertToken
	}
	return ""
}

// Resolve returns the headers for the email/key/token scheme. Conflicting or
// incomplete combinations are rejected rather than resolved by preference.
func Resolve(c Credentials, method string) (http.Header, error) {
	email := c.Lookup(FieldEmail, method)
	key := c.Lookup(FieldKey, method)
	token := c.Lookup(FieldToken, method)

	switch {
	case email == "" && key == "" && token == "":
		return nil, &cferr.AuthConfigError{Method: method, Reason: "no credential defined: neither email/key nor token set"}
	case key != "" && token != "":
		return nil, &cferr.AuthConfigError{Method: method, Reason: "ambiguous credential: both key and token set"}
	case email != "" && key == "" && token == "":
		return nil, &cferr.AuthConfigError{Method: method, Reason: "incomplete credential: email set without key or token"}
	}

	h := make(http.Header)
	switch {
	case email == "" && token != "":
		h.Set(HeaderAuthorization, "Bearer "+token)
	case email == "":
		// legacy: a bare key is sent as a bearer token
		h.Set(HeaderAuthorization, "Bearer "+key)
	case key != "":
		h.Set(HeaderEmail, email)
		h.Set(HeaderKey, key)
	default:
		h.Set(HeaderEmail, email)
		h.Set(HeaderKey, token)
	}
	return h, nil
}

// ResolveCert returns the header for the origin-CA certificate token scheme,
// which is independent of the other credentials.
func ResolveCert(c Credentials, method string) (http.Header, error) {
	certToken := c.Lookup(FieldCertToken, method)
	if certToken == "" {
		return nil, &cferr.AuthConfigError{Method: method, Reason: "no cert token defined"}
	}
	h := make(http.Header)
	h.Set(HeaderCertToken, certToken)
	return h, nil
}
