package logger

import (
	"context"
	"log/slog"
)

type submissionIDKey struct{}

// WithSubmissionID stores the submission id in ctx so that every record
// logged with that context carries it.
func WithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDKey{}, id)
}

// SubmissionIDFromContext returns the id stored by WithSubmissionID.
func SubmissionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(submissionIDKey{}).(string)
	return id, ok && id != ""
}

func submissionIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := SubmissionIDFromContext(ctx); ok {
		return SubmissionID(id), true
	}
	return slog.Attr{}, false
}
