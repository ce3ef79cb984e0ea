package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the HTTP server.
type Option func(*config)

// WithAddr sets the listen address. Port 0 picks a free port; see Addr.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithTimeouts sets the read, write and idle timeouts. Zero keeps the
// current value.
func WithTimeouts(read, write, idle time.Duration) Option {
	if read < 0 || write < 0 || idle < 0 {
		panic("WithTimeouts: durations must be >= 0")
	}
	return func(c *config) {
		if read > 0 {
			c.readTimeout = read
		}
		if write > 0 {
			c.writeTimeout = write
		}
		if idle > 0 {
			c.idleTimeout = idle
		}
	}
}

// WithShutdownTimeout sets the time allowed for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithMaxBodySize limits every request body to n bytes.
func WithMaxBodySize(n int64) Option {
	if n <= 0 {
		panic("WithMaxBodySize: size must be > 0")
	}
	return func(c *config) { c.maxBodySize = n }
}

// WithLogger sets the logger for lifecycle and request logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook registers a callback run once the listener is bound.
func WithStartHook(h func(addr string, log *slog.Logger)) Option {
	if h == nil {
		panic("WithStartHook: nil hook")
	}
	return func(c *config) { c.startHooks = append(c.startHooks, h) }
}

// WithStopHook registers a callback run after the server shut down.
func WithStopHook(h func(log *slog.Logger)) Option {
	if h == nil {
		panic("WithStopHook: nil hook")
	}
	return func(c *config) { c.stopHooks = append(c.stopHooks, h) }
}
