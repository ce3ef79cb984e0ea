package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/formdata"
)

// ProgressFunc receives upload progress in bytes. total is the full body
// size and stays constant for one request.
type ProgressFunc func(loaded, total int64)

// Request is one form submission.
type Request struct {
	// Method defaults to POST.
	Method string
	// URL is the destination; relative URLs are resolved by the transport.
	URL      string
	Payload  *formdata.Payload
	Encoding formdata.Encoding
	Header   http.Header
	// Progress is optional.
	Progress ProgressFunc
}

// HTTPMethod returns the upper-cased method, POST when unset.
func (r *Request) HTTPMethod() string {
	m := strings.ToUpper(strings.TrimSpace(r.Method))
	if m == "" {
		return http.MethodPost
	}
	return m
}

// Response is what the destination answered. Transports return a
// Response for every answer, including non-2xx ones; errors are reserved
// for requests that produced no answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v. An empty body decodes as an empty object.
func (r *Response) JSON() (map[string]any, error) {
	out := map[string]any{}
	if len(strings.TrimSpace(string(r.Body))) == 0 {
		return out, nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	out["data"] = v
	return out, nil
}

// Transport delivers a submission.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req *Request) (*Response, error)

func (f Func) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Mux dispatches requests by URL scheme. URLs without a scheme, and schemes
// without a registered transport, go to the fallback.
type Mux struct {
	mu       sync.RWMutex
	fallback Transport
	schemes  map[string]Transport
}

// NewMux creates a mux delivering to fallback by default.
func NewMux(fallback Transport) *Mux {
	return &Mux{fallback: fallback, schemes: make(map[string]Transport)}
}

// Handle registers t for scheme.
func (m *Mux) Handle(scheme string, t Transport) *Mux {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemes[strings.ToLower(scheme)] = t
	return m
}

func (m *Mux) Do(ctx context.Context, req *Request) (*Response, error) {
	t := m.route(req.URL)
	if t == nil {
		return nil, ErrNoTransport
	}
	return t.Do(ctx, req)
}

func (m *Mux) route(raw string) Transport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		if t, ok := m.schemes[strings.ToLower(u.Scheme)]; ok {
			return t
		}
	}
	return m.fallback
}
