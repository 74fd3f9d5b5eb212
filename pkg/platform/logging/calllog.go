package logging

import (
	"time"

	h "github.com/ivanehh/go-cfapi/internal/helpers"
)

// CallLog is the structured record written once per API call.
type CallLog struct {
	Endpoint    string         `json:"endpoint"`
	Method      string         `json:"method"`
	URL         string         `json:"url"`
	Status      int            `json:"status"`
	ContentType string         `json:"content_type"`
	Duration    time.Duration  `json:"duration"`
	Error       map[string]any `json:"err"`
}

type CLOpt func(*CallLog)

func WithRequest(endpoint, method, url string) CLOpt {
	return func(cl *CallLog) {
		cl.Endpoint = endpoint
		cl.Method = method
		cl.URL = url
	}
}

func WithResponse(status int, contentType string, took time.Duration) CLOpt {
	return func(cl *CallLog) {
		cl.Status = status
		cl.ContentType = contentType
		cl.Duration = took
	}
}

// WithError attaches err; errors from the cferr taxonomy keep their fields.
func WithError(err error) CLOpt {
	return func(cl *CallLog) {
		if err == nil {
			return
		}
		if me, ok := err.(h.MapableError); ok {
			cl.Error = me.AsMap()
			return
		}
		cl.Error = map[string]any{"error": err.Error()}
	}
}

func NewCallLog(opts ...CLOpt) CallLog {
	cl := new(CallLog)
	for _, opt := range opts {
		opt(cl)
	}
	return *cl
}

func (cl CallLog) attrs() []any {
	attrs := []any{
		"endpoint", cl.Endpoint,
		"method", cl.Method,
		"url", cl.URL,
	}
	if cl.Status != 0 {
		attrs = append(attrs, "status", cl.Status, "content_type", cl.ContentType, "duration", cl.Duration)
	}
	if cl.Error != nil {
		attrs = append(attrs, "err", cl.Error)
	}
	return attrs
}

// Call writes cl at debug level. Failures are returned to the caller, so they
// are not promoted to a louder level here.
func (l *Logger) Call(cl CallLog) {
	l.Debug("api call", cl.attrs()...)
}
