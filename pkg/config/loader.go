package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option tunes a single Load call.
type Option func(*options)

type options struct {
	prefix      string
	files       []string
	optional    bool
	environment map[string]string
}

// WithPrefix only reads variables starting with prefix; tags omit it.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles loads the dotenv files into the process environment before
// parsing. Variables already set are not overridden. Missing files are an
// error unless WithOptionalEnvFiles is also given.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.files = append(o.files, paths...) }
}

// WithOptionalEnvFiles makes missing dotenv files non-fatal.
func WithOptionalEnvFiles() Option {
	return func(o *options) { o.optional = true }
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environment = vars }
}

// Load parses environment variables into v based on its `env` struct tags.
//
// Example:
//
//	type Settings struct {
//		ErrorClass  string `env:"ERROR_CLASS" envDefault:"input-error"`
//		MaxFileSize int64  `env:"MAX_FILE_SIZE" envDefault:"10485760"`
//	}
//
//	var s Settings
//	if err := config.Load(&s, config.WithPrefix("FORMKIT_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	for _, path := range o.files {
		if err := godotenv.Load(path); err != nil {
			if o.optional && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", path, err))
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}
