// Package cfapi is a client for the Cloudflare v4 API. Endpoints are reached
// through a tree that mirrors the REST hierarchy:
//
//	cf, err := cfapi.New(cfapi.WithToken(token))
//	records, err := cf.API().MustWalk("zones", "dns_records").Get(ctx,
//		cfapi.WithIdentifiers(zoneID),
//		cfapi.WithParams(map[string]any{"type": "A"}))
//
// Every call becomes one authenticated HTTP request and every answer is
// normalized into either a value or a typed error from package cferr.
package cfapi

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/ivanehh/go-cfapi/pkg/config"
	"github.com/ivanehh/go-cfapi/pkg/endpoints"
	"github.com/ivanehh/go-cfapi/pkg/platform/auth"
	"github.com/ivanehh/go-cfapi/pkg/platform/logging"
	"github.com/ivanehh/go-cfapi/pkg/platform/netcom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

const (
	Version        = "1.0.0"
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"
)

var ErrBadConfig = errors.New("bad client configuration")

// UserAgent is sent with every request.
func UserAgent() string {
	return fmt.Sprintf("go-cfapi/%s %s", Version, runtime.Version())
}

// settings collects options before New merges them over the profile and
// environment. Nil pointers mean "not given".
type settings struct {
	email, key, token, certToken *string
	overrides                    map[string]string
	raw, reuse, debug            *bool
	baseURL                      *string
	timeout                      *time.Duration
	retries                      *int

	profile    string
	configFile string
	logger     *logging.Logger
	specs      []endpoints.Spec
	extras     []string
	httpClient *http.Client
	registerer prometheus.Registerer
	tracing    bool
}

type Option func(*settings)

func WithEmail(email string) Option { return func(s *settings) { s.email = &email } }

func WithKey(key string) Option { return func(s *settings) { s.key = &key } }

func WithToken(token string) Option { return func(s *settings) { s.token = &token } }

// WithCertToken sets the origin-CA key used by certificate endpoints.
func WithCertToken(token string) Option { return func(s *settings) { s.certToken = &token } }

// WithMethodCredential overrides field ("email", "key", "token" or
// "certtoken") for one HTTP method only.
func WithMethodCredential(field, method, value string) Option {
	return func(s *settings) {
		if s.overrides == nil {
			s.overrides = make(map[string]string)
		}
		s.overrides[field+"."+strings.ToLower(method)] = value
	}
}

// WithRaw makes calls return {"result": ..., "result_info": ...} instead of
// the bare result.
func WithRaw(raw bool) Option { return func(s *settings) { s.raw = &raw } }

func WithConnectionReuse(reuse bool) Option { return func(s *settings) { s.reuse = &reuse } }

func WithBaseURL(u string) Option { return func(s *settings) { s.baseURL = &u } }

func WithTimeout(d time.Duration) Option { return func(s *settings) { s.timeout = &d } }

// WithMaxRetries sets how often a failed connection attempt is retried.
func WithMaxRetries(n int) Option { return func(s *settings) { s.retries = &n } }

// WithProfile selects a profile in the configuration file; it must exist.
func WithProfile(name string) Option { return func(s *settings) { s.profile = name } }

// WithConfigFile reads profiles from path instead of the search paths.
func WithConfigFile(path string) Option { return func(s *settings) { s.configFile = path } }

// WithDebug logs every request as a curl command plus the answer's status.
func WithDebug(debug bool) Option { return func(s *settings) { s.debug = &debug } }

func WithLogger(l *logging.Logger) Option { return func(s *settings) { s.logger = l } }

// WithEndpoints replaces the built-in v4 table.
func WithEndpoints(specs []endpoints.Spec) Option {
	return func(s *settings) { s.specs = specs }
}

// WithExtras adds endpoints by path, e.g. "/zones/:id/new_thing". They are
// authenticated and added after the table.
func WithExtras(paths ...string) Option {
	return func(s *settings) { s.extras = append(s.extras, paths...) }
}

func WithHTTPClient(hc *http.Client) Option { return func(s *settings) { s.httpClient = hc } }

// WithMetrics registers request metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option { return func(s *settings) { s.registerer = reg } }

// WithTracing adds OpenTelemetry client spans to every request.
func WithTracing() Option { return func(s *settings) { s.tracing = true } }

// Client owns the credentials, transport and endpoint tree. It is safe for
// concurrent use once New returns.
type Client struct {
	creds     auth.Credentials
	raw       bool
	baseURL   string
	profile   string
	logger    *logging.Logger
	transport *netcom.Client
	root      *Node
}

// New builds a client. Values come from options first, then the
// environment, then the selected profile of the configuration file.
func New(opts ...Option) (*Client, error) {
	s := new(settings)
	for _, opt := range opts {
		opt(s)
	}

	prof, err := config.Load(s.configFile, s.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	prof.ApplyEnv()
	if s.baseURL != nil {
		prof.BaseURL = *s.baseURL
	}
	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	c := &Client{
		creds: auth.Credentials{
			Email:     lo.FromPtrOr(s.email, prof.Email),
			Key:       lo.FromPtrOr(s.key, prof.Key),
			Token:     lo.FromPtrOr(s.token, prof.Token),
			CertToken: lo.FromPtrOr(s.certToken, prof.CertToken),
			Overrides: lo.Assign(prof.Overrides, s.overrides),
		},
		raw:     lo.FromPtrOr(s.raw, lo.FromPtrOr(prof.Raw, false)),
		baseURL: lo.Ternary(prof.BaseURL != "", prof.BaseURL, DefaultBaseURL),
		profile: lo.Ternary(s.profile != "", s.profile, config.DefaultProfile),
	}

	debug := lo.FromPtrOr(s.debug, lo.FromPtrOr(prof.Debug, false))
	c.logger = s.logger
	if c.logger == nil {
		lc := logging.DefaultConfig()
		if debug {
			lc.Level = logging.DebugLevel
		}
		c.logger = logging.New(lc)
	}

	timeout := netcom.DefaultTimeout
	if prof.Timeout != nil {
		timeout = time.Duration(*prof.Timeout) * time.Second
	}
	copts := []netcom.ClientOption{
		netcom.WithBaseURL(c.baseURL),
		netcom.WithClientHeader("User-Agent", UserAgent()),
		netcom.WithLogger(c.logger),
	}
	// the given http.Client keeps its own timeout unless one is set explicitly
	if s.httpClient != nil {
		copts = append(copts, netcom.WithHTTPClient(s.httpClient))
	}
	if s.httpClient == nil || s.timeout != nil {
		copts = append(copts, netcom.WithTimeout(lo.FromPtrOr(s.timeout, timeout)))
	}
	copts = append(copts,
		netcom.WithMaxRetries(lo.FromPtrOr(s.retries, lo.FromPtrOr(prof.MaxRetries, netcom.DefaultMaxRetries))),
		netcom.WithConnectionReuse(lo.FromPtrOr(s.reuse, lo.FromPtrOr(prof.UseSessions, true))),
	)
	if s.registerer != nil {
		copts = append(copts, netcom.WithMetrics(s.registerer))
	}
	if s.tracing {
		copts = append(copts, netcom.WithTracing())
	}
	if c.transport, err = netcom.NewClient(copts...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	specs := s.specs
	if specs == nil {
		specs = endpoints.V4()
	}
	if c.root, err = Build(specs, c); err != nil {
		return nil, err
	}
	extras, err := endpoints.Extras(append(slices.Clone(prof.Extras), s.extras...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	if err := c.root.addExtras(extras, c.logger); err != nil {
		return nil, err
	}
	return c, nil
}

// API returns the root of the endpoint tree.
func (c *Client) API() *Node { return c.root }

// Endpoint is shorthand for API().Walk(names...).
func (c *Client) Endpoint(names ...string) (*Node, error) {
	return c.root.Walk(names...)
}

// Lookup resolves a CLI-style path such as "/zones/:id/dns_records".
func (c *Client) Lookup(path string) (*Node, error) {
	return c.root.walkPath(path)
}

// Endpoints lists every callable path as "<POLICY> /path/:id/...", sorted.
func (c *Client) Endpoints() []string {
	out := lo.Map(c.root.flatten(), func(n *Node, _ int) string {
		return n.Policy().String() + " " + n.String()
	})
	slices.Sort(out)
	return out
}

func (c *Client) Logger() *logging.Logger { return c.logger }

// String describes the client without revealing credentials.
func (c *Client) String() string {
	mask := func(v string) string {
		if v == "" {
			return "<unset>"
		}
		return "<redacted>"
	}
	return fmt.Sprintf("cfapi.Client{profile=%s base_url=%s raw=%t email=%s key=%s token=%s certtoken=%s}",
		c.profile, c.baseURL, c.raw,
		mask(c.creds.Email), mask(c.creds.Key), mask(c.creds.Token), mask(c.creds.CertToken))
}
