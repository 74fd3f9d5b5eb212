// Package netcom is the HTTP transport: one request per call, with client-wide
// headers, timeout, connection reuse, connect retries and optional metrics
// and tracing.
package netcom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ivanehh/go-cfapi/pkg/cferr"
	"github.com/ivanehh/go-cfapi/pkg/platform/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 5
)

// ClientOption defines a function type for configuring the netcom Client.
// Options that can fail during configuration should return an error.
type ClientOption func(*Client) error

// Client represents a configurable HTTP client.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	// Headers set on the client level are applied to every request.
	// Request headers override them.
	Headers http.Header

	maxRetries uint64
	reuse      bool
	tracing    bool
	traceOpts  []otelhttp.Option
	registerer prometheus.Registerer
	logger     *logging.Logger
}

// ErrBadOptionConfiguration indicates an error during client configuration.
var ErrBadOptionConfiguration = errors.New("bad option configuration")

// ErrRequestCreationFailed indicates an error during http.Request creation.
var ErrRequestCreationFailed = errors.New("failed to create request")

// ErrURLResolutionFailed indicates an error resolving a path against the base URL.
var ErrURLResolutionFailed = errors.New("failed to resolve URL")

// ErrRequestFailed indicates an error executing the HTTP request.
var ErrRequestFailed = errors.New("request failed")

// ErrReadResponseFailed indicates an error reading the response body.
var ErrReadResponseFailed = errors.New("failed to read response body")

// NewClient creates a new HTTP client with the given options.
func NewClient(options ...ClientOption) (*Client, error) {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		Headers:    make(http.Header),
		maxRetries: DefaultMaxRetries,
		reuse:      true,
		logger:     logging.Discard(),
	}

	for _, option := range options {
		if err := option(client); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadOptionConfiguration, err)
		}
	}

	if err := client.wrapTransport(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOptionConfiguration, err)
	}
	return client, nil
}

// wrapTransport applies the connection reuse setting and layers tracing and
// metrics over the round tripper once all options are known.
func (c *Client) wrapTransport() error {
	rt := c.httpClient.Transport
	if rt == nil {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}
	if t, ok := rt.(*http.Transport); ok && !c.reuse {
		t = t.Clone()
		t.DisableKeepAlives = true
		rt = t
	}
	if c.tracing {
		rt = otelhttp.NewTransport(rt, c.traceOpts...)
	}
	if c.registerer != nil {
		m, err := newMetrics(c.registerer)
		if err != nil {
			return err
		}
		rt = m.instrument(rt)
	}

	hc := *c.httpClient
	hc.Transport = rt
	c.httpClient = &hc
	return nil
}

// --- Client Options ---

// WithBaseURL sets the base URL for the client.
// The baseURL string must be a valid absolute URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("parsing base URL failed: %w", err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("base URL must be absolute: %s", baseURL)
		}
		c.baseURL = u
		return nil
	}
}

// WithTimeout sets the timeout for the client's underlying http.Client.
// Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout < 0 {
			return fmt.Errorf("negative timeout %s", timeout)
		}
		c.httpClient.Timeout = timeout
		return nil
	}
}

// WithHTTPClient sets a custom http.Client. Its Timeout is kept as given.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("provided http client cannot be nil")
		}
		hc := *httpClient
		c.httpClient = &hc
		return nil
	}
}

// WithClientHeader adds a default header to be sent with every request
// made by this client instance.
func WithClientHeader(key, value string) ClientOption {
	return func(c *Client) error {
		c.Headers.Add(key, value)
		return nil
	}
}

// WithMaxRetries sets how many times a request is retried when the
// connection cannot be established. Nothing else is retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("negative retry count %d", n)
		}
		c.maxRetries = uint64(n)
		return nil
	}
}

// WithConnectionReuse turns keep-alive connection reuse on or off.
func WithConnectionReuse(reuse bool) ClientOption {
	return func(c *Client) error {
		c.reuse = reuse
		return nil
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *Client) error {
		c.registerer = reg
		return nil
	}
}

// WithTracing wraps the transport with OpenTelemetry client spans. Without
// opts the global tracer provider is used.
func WithTracing(opts ...otelhttp.Option) ClientOption {
	return func(c *Client) error {
		c.tracing = true
		c.traceOpts = append(c.traceOpts, opts...)
		return nil
	}
}

func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) error {
		if l == nil {
			return errors.New("provided logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// --- Core Logic ---

// resolveURL joins path onto the base URL. An absolute path is used as is.
func (c *Client) resolveURL(path string) (*url.URL, error) {
	u, err := url.Parse(path)
	if err == nil && u.IsAbs() {
		return u, nil
	}
	if c.baseURL == nil {
		return nil, fmt.Errorf(
			"%w: path '%s' is not absolute and no base URL is set",
			ErrURLResolutionFailed,
			path,
		)
	}
	return c.baseURL.JoinPath(strings.Split(strings.Trim(path, "/"), "/")...), nil
}

// newRequest creates a new http.Request with client defaults and the request
// headers applied.
func (c *Client) newRequest(ctx context.Context, method, target string, body []byte, header http.Header) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestCreationFailed, err)
	}

	for key, values := range c.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	for key, values := range header {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return req, nil
}

// Do sends an HTTP request using the configured underlying client.
// It wraps errors related to the HTTP execution itself.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		errCtx := fmt.Sprintf("method=%s url=%s", req.Method, req.URL.String())
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: context error: %w (%s)", ErrRequestFailed, ctxErr, errCtx)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("%w: network error: %w (%s)", ErrRequestFailed, urlErr, errCtx)
		}
		return nil, fmt.Errorf("%w: %w (%s)", ErrRequestFailed, err, errCtx)
	}
	return resp, nil
}

// isDialError reports whether err happened before a connection was made.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// Send performs r and reads the whole response. Any status is returned as a
// Response; only failures to complete the round trip are errors, and those
// are *cferr.TransportError. Encoding problems with r itself are returned
// before anything is sent.
func (c *Client) Send(ctx context.Context, r *Request) (*Response, error) {
	u, err := c.resolveURL(r.Path)
	if err != nil {
		return nil, err
	}
	if q := r.query(); len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	target := u.String()

	body, contentType, err := r.encode()
	if err != nil {
		return nil, err
	}
	header := r.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	if c.logger.DebugEnabled() {
		merged := c.Headers.Clone()
		for k, v := range header {
			merged[k] = v
		}
		c.logger.Debug("request", "curl", Curl(r.Method, target, merged, r.Body, r.Files))
	}

	var resp *http.Response
	attempt := func() error {
		req, err := c.newRequest(ctx, r.Method, target, body, header)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err = c.Do(req)
		if err != nil && !isDialError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, c.maxRetries), ctx)
	notify := func(err error, _ time.Duration) {
		c.logger.Debug("connect failed, retrying", "url", target, "err", err)
	}
	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		return nil, &cferr.TransportError{Method: r.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &cferr.TransportError{
			Method:     r.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %w", ErrReadResponseFailed, err),
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header,
		Body:        data,
		URL:         target,
	}, nil
}
