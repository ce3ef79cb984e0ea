package sink

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/transport"
)

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// submissionID puts the X-Formkit-Submission id, or a generated one when
// missing or malformed, into the request context and echoes it back.
func submissionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(transport.HeaderID)
		if len(id) == 0 || len(id) > maxIDLength || !validID.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(transport.HeaderID, id)
		next.ServeHTTP(w, r.WithContext(logger.WithSubmissionID(r.Context(), id)))
	})
}

// verifySignature rejects requests whose body does not match the
// X-Formkit-Signature header.
func verifySignature(secret string, maxAge time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			_ = r.Body.Close()

			sig, err := transport.SignatureFromHeader(r.Header)
			if err == nil {
				err = transport.Verify(secret, body, sig, maxAge)
			}
			if err != nil {
				log.WarnContext(r.Context(), "signature rejected", logger.Error(err))
				writeError(w, http.StatusUnauthorized, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				logger.StatusCode(rec.status),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
