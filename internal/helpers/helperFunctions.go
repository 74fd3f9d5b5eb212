package helpers

import (
	"net/http"
	"strings"
)

const Redacted = "REDACTED"

// secretHeaders are never written to logs in clear text.
var secretHeaders = []string{
	"Authorization",
	"X-Auth-Key",
	"X-Auth-User-Service-Key",
}

// RedactHeaders returns a copy of h with every credential value replaced.
func RedactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, k := range secretHeaders {
		if out.Get(k) == "" {
			continue
		}
		if k == "Authorization" && strings.HasPrefix(out.Get(k), "Bearer ") {
			out.Set(k, "Bearer "+Redacted)
			continue
		}
		out.Set(k, Redacted)
	}
	return out
}

// ShellQuote wraps s in single quotes for a POSIX shell.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
