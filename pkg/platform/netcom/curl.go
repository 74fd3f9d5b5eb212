package netcom

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	h "github.com/ivanehh/go-cfapi/internal/helpers"
)

// Curl renders an equivalent curl command line for debug logs. Credential
// headers are redacted.
func Curl(method, target string, header http.Header, body any, files []FormFile) string {
	var b strings.Builder
	b.WriteString("curl -X ")
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(h.ShellQuote(target))

	redacted := h.RedactHeaders(header)
	keys := make([]string, 0, len(redacted))
	for k := range redacted {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(files) > 0 && k == "Content-Type" {
			continue
		}
		for _, v := range redacted[k] {
			b.WriteString(" -H ")
			b.WriteString(h.ShellQuote(k + ": " + v))
		}
	}

	if len(files) > 0 {
		if fields, err := bodyFields(body); err == nil {
			names := make([]string, 0, len(fields))
			for k := range fields {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				b.WriteString(" --form ")
				b.WriteString(h.ShellQuote(k + "=" + formValue(fields[k])))
			}
		}
		for _, f := range files {
			b.WriteString(" --form ")
			b.WriteString(h.ShellQuote(f.Field + "=@" + f.Filename))
		}
		return b.String()
	}

	switch t := body.(type) {
	case nil:
	case string:
		b.WriteString(" --data ")
		b.WriteString(h.ShellQuote(t))
	case []byte:
		b.WriteString(" --data-binary @-")
	default:
		if data, err := json.Marshal(t); err == nil {
			b.WriteString(" --data ")
			b.WriteString(h.ShellQuote(string(data)))
		}
	}
	return b.String()
}
