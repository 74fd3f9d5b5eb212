package cfapi

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
	"github.com/ivanehh/go-cfapi/pkg/endpoints"
	"github.com/ivanehh/go-cfapi/pkg/platform/auth"
	"github.com/ivanehh/go-cfapi/pkg/platform/logging"
	"github.com/ivanehh/go-cfapi/pkg/platform/netcom"
	"github.com/ivanehh/go-cfapi/pkg/platform/normalize"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeJavaScript = "application/javascript"
)

// headers builds the per-call headers for policy. Credential problems are
// reported here, before anything is sent.
func (c *Client) headers(policy endpoints.Policy, method string, body any) (http.Header, error) {
	h := make(http.Header)
	h.Set("Content-Type", contentTypeJSON)
	if _, ok := body.(string); ok {
		h.Set("Content-Type", contentTypeJavaScript)
	}

	var creds http.Header
	var err error
	switch policy {
	case endpoints.ReadOnly:
		return h, nil
	case endpoints.CertAuth:
		creds, err = auth.ResolveCert(c.creds, method)
	default:
		creds, err = auth.Resolve(c.creds, method)
	}
	if err != nil {
		return nil, err
	}
	maps.Copy(h, creds)
	return h, nil
}

// call runs one request through the pipeline: policy check, URL, headers,
// transport, status check, normalization.
func (c *Client) call(ctx context.Context, n *Node, method string, args *callArgs) (any, error) {
	policy := n.Policy()
	if !policy.Allows(method) {
		return nil, &cferr.UnsupportedOperationError{Verb: method, Path: n.String()}
	}
	path, err := n.URLPath(args.ids...)
	if err != nil {
		return nil, err
	}
	header, err := c.headers(policy, method, args.body)
	if err != nil {
		return nil, err
	}

	req := &netcom.Request{
		Method: method,
		Path:   path,
		Header: header,
		Params: args.params,
		Body:   args.body,
		Files:  args.files,
	}
	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		c.logger.Call(logging.NewCallLog(
			logging.WithRequest(n.String(), method, path),
			logging.WithError(err),
		))
		return nil, err
	}
	took := time.Since(start)

	value, err := c.unwrap(n, method, resp)
	c.logger.Call(logging.NewCallLog(
		logging.WithRequest(n.String(), method, resp.URL),
		logging.WithResponse(resp.StatusCode, resp.ContentType, took),
		logging.WithError(err),
	))
	return value, err
}

// unwrap turns a response into the value handed back to the caller.
func (c *Client) unwrap(n *Node, method string, resp *netcom.Response) (any, error) {
	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return nil, &cferr.TransportError{
			Method:     method,
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Err:        cferr.ErrServerStatus,
		}
	}

	if n.Policy() == endpoints.AuthenticatedRaw {
		payload, err := normalize.Decode(resp.ContentType, resp.StatusCode, resp.Body)
		if err != nil {
			return nil, err
		}
		return payload, nil
	}

	env, err := normalize.Normalize(resp.ContentType, resp.StatusCode, resp.Body)
	if err != nil {
		return nil, err
	}
	if env.Repair != normalize.RepairNone {
		c.logger.Debug("response repaired", "endpoint", n.String(), "rule", string(env.Repair))
	}
	if !env.Success {
		return nil, env.FirstError()
	}
	if c.raw {
		return env.Raw(), nil
	}
	return env.Value(), nil
}

// ParseMethod upper-cases s and checks it is one of the five verbs.
func ParseMethod(s string) (string, error) {
	m := strings.ToUpper(s)
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return m, nil
	}
	return "", fmt.Errorf("unsupported method %q", s)
}
