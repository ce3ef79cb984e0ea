// Package sink is a development endpoint for formkit submissions: it
// accepts multipart and urlencoded posts and echoes what it received as
// JSON.
package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Echo is the body answered to a submission.
type Echo struct {
	ID     string              `json:"id"`
	Fields map[string][]string `json:"fields"`
	Files  []EchoFile          `json:"files"`
}

// EchoFile describes one received file.
type EchoFile struct {
	Field  string `json:"field"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Type   string `json:"type"`
	SHA256 string `json:"sha256"`
}

// Handler serves the sink routes.
type Handler struct {
	secret    string
	maxAge    time.Duration
	maxMemory int64
	log       *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithSecret requires valid request signatures made with secret.
func WithSecret(secret string, maxAge time.Duration) Option {
	return func(h *Handler) {
		h.secret = secret
		h.maxAge = maxAge
	}
}

// WithMaxMemory sets how much of a multipart body is kept in memory.
func WithMaxMemory(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxMemory = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// New returns a Handler with an 8MB multipart memory limit.
func New(opts ...Option) *Handler {
	h := &Handler{maxMemory: 8 << 20, log: logger.Discard()}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("sink"))
	return h
}

// Routes mounts:
//
//	GET  /healthz          liveness
//	POST /submit           echo the submission
//	*    /fail/{status}    answer with the given error status
//	POST /malformed        answer 200 with a non-JSON body
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(submissionID, logRequests(h.log))

	r.Get("/healthz", httpserver.HealthCheckHandler(h.log))
	r.Group(func(r chi.Router) {
		if h.secret != "" {
			r.Use(verifySignature(h.secret, h.maxAge, h.log))
		}
		r.Post("/submit", h.submit)
		r.Put("/submit", h.submit)
		r.HandleFunc("/fail/{status}", h.fail)
		r.Post("/malformed", h.malformed)
	})
	return r
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	echo, err := h.read(r)
	if err != nil {
		h.log.WarnContext(r.Context(), "submission rejected", logger.Error(err))
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.log.InfoContext(r.Context(), "submission received",
		slog.Int("fields", len(echo.Fields)),
		slog.Int("files", len(echo.Files)),
	)
	writeJSON(w, http.StatusOK, echo)
}

func (h *Handler) read(r *http.Request) (Echo, error) {
	id, _ := logger.SubmissionIDFromContext(r.Context())
	echo := Echo{ID: id, Fields: map[string][]string{}, Files: []EchoFile{}}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return echo, fmt.Errorf("%w: %v", ErrUnsupportedContentType, err)
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxMemory); err != nil {
			return echo, fmt.Errorf("%w: %v", ErrParseBody, err)
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		for name, values := range r.MultipartForm.Value {
			echo.Fields[name] = values
		}
		names := make([]string, 0, len(r.MultipartForm.File))
		for name := range r.MultipartForm.File {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			for _, fh := range r.MultipartForm.File[name] {
				f, err := file.FromHeader(fh)
				if err != nil {
					return echo, fmt.Errorf("%w: %v", ErrParseBody, err)
				}
				sum, err := file.Hash(f, nil)
				if err != nil {
					return echo, err
				}
				echo.Files = append(echo.Files, EchoFile{
					Field:  name,
					Name:   f.Name,
					Size:   f.Size,
					Type:   f.MIMEType,
					SHA256: sum,
				})
			}
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return echo, fmt.Errorf("%w: %v", ErrParseBody, err)
		}
		for name, values := range r.PostForm {
			echo.Fields[name] = values
		}
	default:
		return echo, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
	return echo, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request) {
	status, err := strconv.Atoi(chi.URLParam(r, "status"))
	if err != nil || status < 400 || status > 599 {
		writeError(w, http.StatusBadRequest, ErrInvalidStatus)
		return
	}
	writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
}

func (h *Handler) malformed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<html><body>ok</body></html>"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
