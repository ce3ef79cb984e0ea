package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/formkit/pkg/formdata"
)

// HTTP delivers submissions over HTTP.
// Zero value is not usable; use NewHTTP.
type HTTP struct {
	client    *http.Client
	baseURL   *url.URL
	header    http.Header
	userAgent string
	maxBody   int64
	secret    string
}

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithClient sets the HTTP client. Nil is ignored.
func WithClient(c *http.Client) HTTPOption {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// WithBaseURL resolves relative submission URLs against base.
// An unparsable base is ignored.
func WithBaseURL(base string) HTTPOption {
	return func(t *HTTP) {
		if u, err := url.Parse(base); err == nil && u.IsAbs() {
			t.baseURL = u
		}
	}
}

// WithTimeout sets the client timeout for a whole request. By default no
// timeout is set and only the request context bounds a submission.
func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTP) {
		t.client.Timeout = d
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) HTTPOption {
	return func(t *HTTP) {
		t.header.Add(key, value)
	}
}

func WithUserAgent(ua string) HTTPOption {
	return func(t *HTTP) {
		t.userAgent = ua
	}
}

// WithMaxResponseSize caps the bytes read from a response body. Larger
// bodies fail with ErrResponseTooLarge. By default bodies are read in full.
func WithMaxResponseSize(n int64) HTTPOption {
	return func(t *HTTP) {
		if n > 0 {
			t.maxBody = n
		}
	}
}

// WithSigningSecret signs every request body with HMAC-SHA256.
func WithSigningSecret(secret string) HTTPOption {
	return func(t *HTTP) {
		t.secret = secret
	}
}

// NewHTTP creates an HTTP transport with a pooled client.
func NewHTTP(opts ...HTTPOption) *HTTP {
	t := &HTTP{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		header:    make(http.Header),
		userAgent: "formkit/1.0",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Timeout returns the client timeout. Zero means none.
func (t *HTTP) Timeout() time.Duration {
	return t.client.Timeout
}

// Do sends the payload and returns whatever the server answered.
// GET and HEAD requests carry the payload in the query string; other
// methods send it as the body in the request encoding.
func (t *HTTP) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Payload == nil {
		return nil, ErrNilPayload
	}
	target, err := t.resolve(req.URL)
	if err != nil {
		return nil, err
	}

	method := req.HTTPMethod()
	var (
		body        []byte
		contentType string
	)
	if method == http.MethodGet || method == http.MethodHead {
		q := target.Query()
		for _, part := range req.Payload.Parts() {
			if part.IsFile() {
				q.Add(part.Name, part.File.Name)
				continue
			}
			q.Add(part.Name, part.Value)
		}
		target.RawQuery = q.Encode()
	} else {
		enc := req.Encoding
		if enc == "" {
			enc = formdata.EncodingMultipart
		}
		body, contentType, err = req.Payload.Encode(enc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = newProgressReader(bytes.NewReader(body), int64(len(body)), req.Progress)
	}
	hreq, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if body != nil {
		hreq.ContentLength = int64(len(body))
		hreq.Header.Set("Content-Type", contentType)
	}
	hreq.Header.Set("User-Agent", t.userAgent)
	hreq.Header.Set("Accept", "application/json")
	copyHeader(hreq.Header, t.header)
	copyHeader(hreq.Header, req.Header)

	if t.secret != "" {
		sig, err := Sign(t.secret, hreq.Header.Get(HeaderID), body)
		if err != nil {
			return nil, err
		}
		sig.Apply(hreq.Header)
	}

	resp, err := t.client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var src io.Reader = resp.Body
	if t.maxBody > 0 {
		src = io.LimitReader(resp.Body, t.maxBody+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrReadResponse, err)
	}
	if t.maxBody > 0 && int64(len(data)) > t.maxBody {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, t.maxBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// resolve validates the target URL. Only http and https with a host are
// accepted.
func (t *HTTP) resolve(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() && t.baseURL != nil {
		u = t.baseURL.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported: %q", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

func copyHeader(dst, src http.Header) {
	for k, vs := range src {
		dst.Del(k)
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}
