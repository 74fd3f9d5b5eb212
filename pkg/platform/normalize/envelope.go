package normalize

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
)

// Repair names the rule Sanitize applied to a payload without a usable
// boolean success field.
type Repair string

const (
	RepairNone Repair = ""
	// RepairGraphQLNullErrors: {"errors": null} means success. Only the
	// graphql endpoint answers like this.
	RepairGraphQLNullErrors Repair = "graphql-null-errors"
	// RepairComposedErrors: a bare "errors" list means failure; the first
	// entry's message, location and path are collapsed into one message.
	RepairComposedErrors Repair = "composed-errors"
	// RepairBodyAsError: no errors and no result, so the body itself is the
	// error (seen on /certificates).
	RepairBodyAsError Repair = "body-as-error"
	// RepairImplicitSuccess: a result without success or errors.
	RepairImplicitSuccess Repair = "implicit-success"
)

// Envelope is the canonical response. Success == false always comes with at
// least one entry in Errors.
type Envelope struct {
	Success    bool
	Result     any
	HasResult  bool
	ResultInfo map[string]any
	Errors     []cferr.ErrorDetail
	// Code is the HTTP status recorded by Decode for non-200 wrapped bodies.
	Code    int
	Repair  Repair
	Payload map[string]any
}

// Sanitize repairs the success field and builds the envelope. The input map is
// not modified.
func Sanitize(payload map[string]any) *Envelope {
	p := maps.Clone(payload)
	if p == nil {
		p = map[string]any{}
	}
	env := &Envelope{}

	success, ok := p["success"].(bool)
	if !ok {
		delete(p, "success")
		success, env.Repair = repairSuccess(p)
		p["success"] = success
	}
	env.Success = success
	env.Payload = p

	env.Result, env.HasResult = p["result"]
	if ri, ok := p["result_info"].(map[string]any); ok {
		env.ResultInfo = ri
	}
	if code, ok := toInt(p["code"]); ok {
		env.Code = code
	}

	env.Errors = errorList(p["errors"])
	if !env.Success && len(env.Errors) == 0 {
		env.Errors = []cferr.ErrorDetail{{}}
	}
	return env
}

func repairSuccess(p map[string]any) (bool, Repair) {
	errs, hasErrors := p["errors"]
	switch {
	case hasErrors && errs == nil:
		return true, RepairGraphQLNullErrors
	case hasErrors:
		p["errors"] = []any{map[string]any{
			"code":    cferr.CodeComposed,
			"message": composeMessage(errs),
		}}
		return false, RepairComposedErrors
	default:
		if _, ok := p["result"]; ok {
			return true, RepairImplicitSuccess
		}
		p["errors"] = []any{maps.Clone(p)}
		return false, RepairBodyAsError
	}
}

// composeMessage builds "message - location - path" from the first error,
// using empty strings for whatever is missing.
func composeMessage(errs any) string {
	var message, location, path string
	if list, ok := errs.([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			if v, ok := first["message"]; ok && v != nil {
				message = stringify(v)
			}
			if v, ok := first["location"]; ok && v != nil {
				location = stringify(v)
			}
			if parts, ok := first["path"].([]any); ok {
				s := make([]string, len(parts))
				for i, part := range parts {
					s[i] = stringify(part)
				}
				path = strings.Join(s, ">")
			}
		}
	}
	return message + " - " + location + " - " + path
}

func errorList(v any) []cferr.ErrorDetail {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]cferr.ErrorDetail, 0, len(list))
	for _, item := range list {
		out = append(out, errorDetail(item))
	}
	return out
}

func errorDetail(v any) cferr.ErrorDetail {
	m, ok := v.(map[string]any)
	if !ok {
		return cferr.ErrorDetail{Message: stringify(v)}
	}
	var d cferr.ErrorDetail
	d.Code, d.HasCode = toInt(m["code"])
	if msg, ok := m["message"]; ok {
		d.Message = stringify(msg)
	} else if msg, ok := m["error"]; ok {
		d.Message = stringify(msg)
	}
	if chain, ok := m["error_chain"].([]any); ok {
		for _, c := range chain {
			d.Chain = append(d.Chain, errorDetail(c))
		}
	}
	return d
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case map[string]any, []any:
		b, err := json.Marshal(s)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// Value is what a default-mode call returns: the result, or the whole payload
// when the upstream sent no result key.
func (e *Envelope) Value() any {
	if e.HasResult {
		return e.Result
	}
	return e.Payload
}

// Raw is what a raw-mode call returns: the value plus result_info when present.
func (e *Envelope) Raw() map[string]any {
	out := map[string]any{"result": e.Value()}
	if e.ResultInfo != nil {
		out["result_info"] = e.ResultInfo
	}
	return out
}

// FirstError returns the error a failed envelope is reported with.
func (e *Envelope) FirstError() *cferr.APIError {
	if e.Success {
		return nil
	}
	return cferr.NewAPIError(e.Errors[0])
}
