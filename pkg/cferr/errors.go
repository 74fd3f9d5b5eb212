// Package cferr holds the error taxonomy shared by every layer of the client.
//
// Request-building errors (AuthConfigError, UnsupportedOperationError,
// MissingIdentifierError) are returned before any network activity.
// TransportError covers connection failures and 5xx answers, InvalidPayloadError
// a body no decoder could make sense of, and APIError an upstream success:false.
package cferr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gookit/goutil/structs"
)

// CodeMissing is the APIError code used when the upstream error carries no code.
const CodeMissing = 99998

// CodeComposed is the code given to errors collapsed from a bare "errors" list.
const CodeComposed = 99999

// ErrServerStatus marks a TransportError caused by a 5xx answer.
var ErrServerStatus = errors.New("server responded with 5xx status")

// ErrorDetail is one entry of an upstream "errors" list.
type ErrorDetail struct {
	Code    int           `json:"code"`
	HasCode bool          `json:"-"`
	Message string        `json:"message"`
	Chain   []ErrorDetail `json:"error_chain,omitempty"`
}

type AuthConfigError struct {
	Method string
	Reason string
}

func (e *AuthConfigError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("auth config: %s", e.Reason)
	}
	return fmt.Sprintf("auth config (%s): %s", e.Method, e.Reason)
}

func (e *AuthConfigError) AsMap() map[string]any {
	return structs.ToMap(e)
}

type UnsupportedOperationError struct {
	Verb string
	Path string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s() call not available for endpoint %s", strings.ToLower(e.Verb), e.Path)
}

func (e *UnsupportedOperationError) AsMap() map[string]any {
	return structs.ToMap(e)
}

// MissingIdentifierError reports a mandatory path identifier left empty.
// Position is 1-based.
type MissingIdentifierError struct {
	Position int
	Path     string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("endpoint %s requires identifier %d", e.Path, e.Position)
}

func (e *MissingIdentifierError) AsMap() map[string]any {
	return structs.ToMap(e)
}

// TransportError wraps a failed round trip. StatusCode is zero when no
// response was received at all.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) AsMap() map[string]any {
	return map[string]any{
		"method": e.Method,
		"url":    e.URL,
		"status": e.StatusCode,
		"error":  fmt.Sprint(e.Err),
	}
}

type InvalidPayloadError struct {
	ContentType string
	StatusCode  int
	Err         error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid %s payload (status %d): %v", e.ContentType, e.StatusCode, e.Err)
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}

func (e *InvalidPayloadError) AsMap() map[string]any {
	return map[string]any{
		"content_type": e.ContentType,
		"status":       e.StatusCode,
		"error":        fmt.Sprint(e.Err),
	}
}

// APIError is returned when the upstream reports success:false.
type APIError struct {
	Code    int
	Message string
	Chain   []ErrorDetail
}

// NewAPIError builds an APIError from the first entry of an errors list.
func NewAPIError(d ErrorDetail) *APIError {
	code := d.Code
	if !d.HasCode {
		code = CodeMissing
	}
	return &APIError{Code: code, Message: d.Message, Chain: d.Chain}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cloudflare api error %d: %s", e.Code, e.Message)
}

func (e *APIError) AsMap() map[string]any {
	return structs.ToMap(e)
}

type DuplicateEndpointError struct {
	Parent string
	Name   string
}

func (e *DuplicateEndpointError) Error() string {
	return fmt.Sprintf("api load: duplicate name found: %s/**%s**", e.Parent, e.Name)
}

func (e *DuplicateEndpointError) AsMap() map[string]any {
	return structs.ToMap(e)
}

// MissingPathSegmentError means an endpoint was declared before its parent.
type MissingPathSegmentError struct {
	Segment string
	Path    string
}

func (e *MissingPathSegmentError) Error() string {
	return fmt.Sprintf("api load: element **%s** missing when adding path %s", e.Segment, e.Path)
}

func (e *MissingPathSegmentError) AsMap() map[string]any {
	return structs.ToMap(e)
}
