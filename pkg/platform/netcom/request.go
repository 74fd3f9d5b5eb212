package netcom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"sort"
)

// ErrBadParameters is returned when a request cannot be encoded.
var ErrBadParameters = errors.New("bad parameters provided")

// ErrJSONMarshalFailed indicates an error marshalling data to JSON.
var ErrJSONMarshalFailed = errors.New("failed to marshal JSON")

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Request describes one call. Path is joined onto the client's base URL.
//
// Body is sent as is when it is a string or []byte and as JSON otherwise.
// When Files are present the request becomes multipart/form-data and the
// fields of a map Body are added as form values next to the files.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Params map[string]any
	Body   any
	Files  []FormFile
}

type Response struct {
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
	// URL is the final request URL, query included.
	URL string
}

// query renders Params; slices become repeated keys.
func (r *Request) query() url.Values {
	q := make(url.Values, len(r.Params))
	for k, v := range r.Params {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				q.Add(k, formValue(rv.Index(i).Interface()))
			}
			continue
		}
		q.Set(k, formValue(v))
	}
	return q
}

// formValue renders scalars with fmt and composite values as JSON.
func formValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// encode returns the wire body and, for multipart, the content type to send.
func (r *Request) encode() ([]byte, string, error) {
	if len(r.Files) > 0 {
		return r.encodeMultipart()
	}
	switch b := r.Body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), "", nil
	case []byte:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrJSONMarshalFailed, err)
		}
		return data, "", nil
	}
}

func (r *Request) encodeMultipart() ([]byte, string, error) {
	fields, err := bodyFields(r.Body)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, formValue(fields[k])); err != nil {
			return nil, "", err
		}
	}
	for _, f := range r.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", fmt.Errorf("reading file %s: %w", f.Filename, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// bodyFields turns a body into multipart form fields. Only maps with string
// keys can be merged next to files.
func bodyFields(body any) (map[string]any, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return b, nil
	case map[string]string:
		out := make(map[string]any, len(b))
		for k, v := range b {
			out[k] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: body of type %T cannot be sent alongside files", ErrBadParameters, body)
}
