// Package config loads settings from environment variables into tagged
// structs using github.com/caarlos0/env, optionally reading dotenv files
// first with github.com/joho/godotenv.
//
//	type Settings struct {
//		ErrorClass string `env:"ERROR_CLASS" envDefault:"input-error"`
//		AJAX       bool   `env:"AJAX" envDefault:"true"`
//	}
//
//	var s Settings
//	err := config.Load(&s,
//		config.WithPrefix("FORMKIT_"),
//		config.WithEnvFiles(".env"),
//		config.WithOptionalEnvFiles(),
//	)
//
// Errors wrap ErrParsingConfig or ErrLoadingEnvFile.
package config
