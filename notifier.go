package formkit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Level of a notice.
type Level uint8

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notice is a user-facing message shown when no hook handled an outcome.
type Notice struct {
	Level   Level
	Message string
	FormID  string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

// LogNotifier writes notices to a logger. It is the default.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, notice Notice) {
	level := slog.LevelInfo
	if notice.Level == LevelError {
		level = slog.LevelError
	}
	n.Logger.Log(ctx, level, notice.Message,
		logger.Component("notice"),
		logger.FormID(notice.FormID),
	)
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices in order.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
