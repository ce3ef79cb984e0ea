package sink

import (
	"time"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
)

// EnvPrefix is the prefix of the sink's environment variables.
const EnvPrefix = "FORMKIT_SINK_"

// Config is the sink configuration, read from FORMKIT_SINK_* variables.
type Config struct {
	HTTP httpserver.Config `envPrefix:"HTTP_"`

	// Secret enables signature checks on every submission.
	Secret    string        `env:"SECRET"`
	MaxAge    time.Duration `env:"SIGNATURE_MAX_AGE" envDefault:"5m"`
	MaxMemory int64         `env:"MAX_MEMORY" envDefault:"8388608"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig reads the configuration from the environment, after loading
// the optional dotenv files.
func LoadConfig(envFiles ...string) (Config, error) {
	var cfg Config
	opts := []config.Option{config.WithPrefix(EnvPrefix)}
	if len(envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(envFiles...), config.WithOptionalEnvFiles())
	}
	err := config.Load(&cfg, opts...)
	return cfg, err
}
