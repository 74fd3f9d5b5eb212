package netcom_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ivanehh/go-cfapi/pkg/cferr"
	"github.com/ivanehh/go-cfapi/pkg/platform/netcom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNewClientOptions(t *testing.T) {
	_, err := netcom.NewClient(netcom.WithBaseURL("/relative"))
	assert.ErrorIs(t, err, netcom.ErrBadOptionConfiguration)

	_, err = netcom.NewClient(netcom.WithTimeout(-1))
	assert.ErrorIs(t, err, netcom.ErrBadOptionConfiguration)

	_, err = netcom.NewClient(netcom.WithMaxRetries(-1))
	assert.ErrorIs(t, err, netcom.ErrBadOptionConfiguration)

	_, err = netcom.NewClient(netcom.WithHTTPClient(nil))
	assert.ErrorIs(t, err, netcom.ErrBadOptionConfiguration)

	_, err = netcom.NewClient(netcom.WithConnectionReuse(false), netcom.WithTracing())
	assert.NoError(t, err)
}

func TestConnectionReuse(t *testing.T) {
	tests := []struct {
		name  string
		reuse bool
		conns int32
	}{
		{name: "keep-alive", reuse: true, conns: 1},
		{name: "one connection per request", reuse: false, conns: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var conns atomic.Int32
			srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "ok")
			}))
			srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
				if state == http.StateNew {
					conns.Add(1)
				}
			}
			srv.Start()
			t.Cleanup(srv.Close)

			c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL), netcom.WithConnectionReuse(tt.reuse))
			require.NoError(t, err)
			for range 3 {
				_, err := c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "/ips"})
				require.NoError(t, err)
			}
			assert.Equal(t, tt.conns, conns.Load())
		})
	}
}

func TestTracingRecordsClientSpan(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c, err := netcom.NewClient(
		netcom.WithBaseURL(srv.URL),
		netcom.WithTracing(otelhttp.WithTracerProvider(tp)),
	)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "/ips"})
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
}

func TestSendGet(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/client/v4/zones/abc/dns_records", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("name"))
		assert.Equal(t, []string{"A", "AAAA"}, r.URL.Query()["type"])
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		assert.Equal(t, "go-cfapi-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"result":[]}`)
	})

	c, err := netcom.NewClient(
		netcom.WithBaseURL(srv.URL+"/client/v4"),
		netcom.WithClientHeader("User-Agent", "go-cfapi-test"),
	)
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), &netcom.Request{
		Method: http.MethodGet,
		Path:   "/zones/abc/dns_records",
		Header: http.Header{"Authorization": {"Bearer tok"}},
		Params: map[string]any{"name": "example.com", "type": []string{"A", "AAAA"}, "per_page": 50, "skip": nil},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.JSONEq(t, `{"success":true,"result":[]}`, string(resp.Body))
}

func TestSendRequestHeaderOverridesClientHeader(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"application/javascript"}, r.Header.Values("Content-Type"))
	})
	c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL), netcom.WithClientHeader("Content-Type", "application/json"))
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{
		Method: http.MethodPut,
		Path:   "accounts/a/workers/scripts/s",
		Header: http.Header{"Content-Type": {"application/javascript"}},
		Body:   "addEventListener('fetch', e => {})",
	})
	require.NoError(t, err)
}

func TestSendBodies(t *testing.T) {
	var got []byte
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
	})
	c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodPost, Path: "zones", Body: map[string]any{"name": "example.com"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"example.com"}`, string(got))

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodPut, Path: "zones", Body: "raw text"})
	require.NoError(t, err)
	assert.Equal(t, "raw text", string(got))

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodPost, Path: "zones", Body: func() {}})
	assert.ErrorIs(t, err, netcom.ErrJSONMarshalFailed)
}

func TestSendMultipart(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "worker", r.FormValue("name"))
		assert.Equal(t, `{"main_module":"index.js"}`, r.FormValue("metadata"))
		f, hdr, err := r.FormFile("script")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "index.js", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "export default {}", string(data))
	})
	c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{
		Method: http.MethodPut,
		Path:   "accounts/a/workers/scripts/s",
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   map[string]any{"name": "worker", "metadata": map[string]string{"main_module": "index.js"}},
		Files:  []netcom.FormFile{{Field: "script", Filename: "index.js", Content: strings.NewReader("export default {}")}},
	})
	require.NoError(t, err)
}

func TestSendMultipartRejectsNonMapBody(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{
		Method: http.MethodPost,
		Path:   "zones",
		Body:   []int{1, 2},
		Files:  []netcom.FormFile{{Field: "file", Filename: "a.txt", Content: strings.NewReader("a")}},
	})
	assert.ErrorIs(t, err, netcom.ErrBadParameters)
	assert.Zero(t, hits.Load())
}

func TestSendServerErrorIsAResponseAndNotRetried(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL), netcom.WithMaxRetries(3))
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "zones"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSendRetriesDialErrors(t *testing.T) {
	var calls atomic.Int32
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})
	c, err := netcom.NewClient(
		netcom.WithBaseURL("https://api.example.test/client/v4"),
		netcom.WithHTTPClient(&http.Client{Transport: rt}),
		netcom.WithMaxRetries(2),
	)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "zones"})
	var te *cferr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.Equal(t, "https://api.example.test/client/v4/zones", te.URL)
	var opErr *net.OpError
	assert.ErrorAs(t, err, &opErr)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendDoesNotRetryOtherFailures(t *testing.T) {
	var calls atomic.Int32
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("connection reset after write")
	})
	c, err := netcom.NewClient(
		netcom.WithBaseURL("https://api.example.test"),
		netcom.WithHTTPClient(&http.Client{Transport: rt}),
		netcom.WithMaxRetries(5),
	)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodPost, Path: "zones"})
	var te *cferr.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, netcom.ErrRequestFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendAbsolutePathWithoutBaseURL(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c, err := netcom.NewClient()
	require.NoError(t, err)

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: srv.URL + "/ips"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "ips"})
	assert.ErrorIs(t, err, netcom.ErrURLResolutionFailed)
}

func TestMetrics(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	reg := prometheus.NewRegistry()

	for range 2 {
		c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL), netcom.WithMetrics(reg))
		require.NoError(t, err)
		_, err = c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "ips"})
		require.NoError(t, err)
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != "cfapi_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), total)
}

func TestCurlRedactsCredentials(t *testing.T) {
	header := http.Header{
		"Authorization": {"Bearer secret-token"},
		"X-Auth-Key":    {"secret-key"},
		"X-Auth-Email":  {"user@example.com"},
	}
	cmd := netcom.Curl(http.MethodPost, "https://api.example.test/zones", header, map[string]any{"name": "x"}, nil)

	assert.NotContains(t, cmd, "secret")
	assert.Contains(t, cmd, "curl -X POST 'https://api.example.test/zones'")
	assert.Contains(t, cmd, "'Authorization: Bearer REDACTED'")
	assert.Contains(t, cmd, "'X-Auth-Email: user@example.com'")
	assert.Contains(t, cmd, `--data '{"name":"x"}'`)
}

func TestCurlFiles(t *testing.T) {
	cmd := netcom.Curl(http.MethodPut, "https://api.example.test/s", http.Header{"Content-Type": {"application/json"}},
		map[string]any{"name": "w"}, []netcom.FormFile{{Field: "script", Filename: "index.js"}})

	assert.NotContains(t, cmd, "Content-Type")
	assert.Contains(t, cmd, "--form 'name=w'")
	assert.Contains(t, cmd, "--form 'script=@index.js'")
}

func TestResponseBodyIsReadFully(t *testing.T) {
	payload := map[string]any{"success": true, "result": strings.Repeat("x", 64<<10)}
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
	c, err := netcom.NewClient(netcom.WithBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), &netcom.Request{Method: http.MethodGet, Path: "big"})
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &got))
	assert.Equal(t, payload, got)
}
