package httpserver

import "time"

// Config is the environment form of the server options.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8088"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// MaxBodySize caps request bodies; uploads above it are answered 413.
	MaxBodySize int64 `env:"MAX_BODY_SIZE" envDefault:"33554432"`
}

// Options converts the non-zero values of cfg to options.
func (cfg Config) Options() []Option {
	opts := make([]Option, 0, 6)
	if cfg.Addr != "" {
		opts = append(opts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 || cfg.WriteTimeout > 0 || cfg.IdleTimeout > 0 {
		opts = append(opts, WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		opts = append(opts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, WithMaxBodySize(cfg.MaxBodySize))
	}
	return opts
}

// NewFromConfig creates a Server from cfg; opts are applied after it.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	return New(append(cfg.Options(), opts...)...)
}
