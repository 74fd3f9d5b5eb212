// Package normalize turns raw upstream answers into one envelope shape.
//
// The upstream is not consistent: most endpoints answer with
// {"success":..,"result":..,"errors":[..]} but some stream NDJSON, some
// mislabel JSON as text, some return scripts or HTML, and a couple omit the
// success field entirely. Decode handles the content types, Sanitize repairs
// the success field, and Normalize does both. Nothing here performs I/O.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
)

const (
	TypeJSON        = "application/json"
	TypeOctetStream = "application/octet-stream"
	TypeText        = "text/plain"
	TypeHTML        = "text/html"
	TypeJavaScript  = "application/javascript"
	TypeTextScript  = "text/javascript"
)

var ErrNotJSON = errors.New("body is neither JSON nor NDJSON")

// MediaType lower-cases a Content-Type header value and strips its parameters.
// An absent type is treated as application/octet-stream.
func MediaType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return TypeOctetStream
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// Decode converts a body into the payload object the rest of the pipeline
// works on, without judging success beyond what the status code implies.
func Decode(contentType string, status int, body []byte) (map[string]any, error) {
	mt := MediaType(contentType)
	switch mt {
	case TypeJSON:
		return decodeJSON(status, body)
	case TypeText:
		// JSON objects sent as text are used as-is and left for Sanitize
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return wrap(status, string(body)), nil
		}
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return wrap(status, v), nil
	case TypeOctetStream:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return wrap(status, string(body)), nil
		}
		if m, ok := v.(map[string]any); ok {
			if _, ok := m["success"]; ok {
				return m, nil
			}
		}
		return wrap(status, v), nil
	default:
		// scripts, html and anything unknown are never parsed
		return wrap(status, string(body)), nil
	}
}

func decodeJSON(status int, body []byte) (map[string]any, error) {
	var v any
	err := json.Unmarshal(body, &v)
	if err == nil {
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return map[string]any{"success": true, "result": v}, nil
	}
	if len(body) == 0 {
		return wrap(status, nil), nil
	}

	items, ndErr := decodeNDJSON(body)
	if ndErr != nil {
		return nil, &cferr.InvalidPayloadError{
			ContentType: TypeJSON,
			StatusCode:  status,
			Err:         fmt.Errorf("%w: %v", ErrNotJSON, ndErr),
		}
	}
	return map[string]any{"success": true, "result": items}, nil
}

// decodeNDJSON parses one JSON value per line. Blank lines are skipped; any
// other line that fails to parse fails the whole body.
func decodeNDJSON(body []byte) ([]any, error) {
	var items []any
	for n, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		items = append(items, v)
	}
	if len(items) == 0 {
		return nil, errors.New("no JSON values found")
	}
	return items, nil
}

func wrap(status int, result any) map[string]any {
	if status == http.StatusOK {
		return map[string]any{"success": true, "result": result}
	}
	return map[string]any{"success": false, "code": status, "result": result}
}

// Normalize is Decode followed by Sanitize.
func Normalize(contentType string, status int, body []byte) (*Envelope, error) {
	p, err := Decode(contentType, status, body)
	if err != nil {
		return nil, err
	}
	return Sanitize(p), nil
}
