package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// FormID records the form element id under the key "form_id".
func FormID(id string) slog.Attr {
	return slog.String("form_id", id)
}

// InstanceID records the enhancer instance under the key "instance_id".
func InstanceID(id string) slog.Attr {
	return slog.String("instance_id", id)
}

func SubmissionID(id string) slog.Attr {
	return slog.String("submission_id", id)
}

// Field records a form field name under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// State records a lifecycle state under the key "state".
func State(s any) slog.Attr {
	return slog.Any("state", s)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
