package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/formkit/internal/sink"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

func main() {
	app := &cli.Command{
		Name:  "formkit-sink",
		Usage: "development endpoint that echoes form submissions as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "optional dotenv file with FORMKIT_SINK_* settings",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides FORMKIT_SINK_HTTP_ADDR",
			},
		},
		Action: run,
	}
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "formkit-sink:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := sink.LoadConfig(cmd.String("env-file"))
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}

	format := logger.FormatText
	if cfg.LogFormat == string(logger.FormatJSON) {
		format = logger.FormatJSON
	}
	log := logger.New(
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(format),
		logger.WithAttr(slog.String("service", "formkit-sink")),
	)

	h := sink.New(
		sink.WithSecret(cfg.Secret, cfg.MaxAge),
		sink.WithMaxMemory(cfg.MaxMemory),
		sink.WithLogger(log),
	)
	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, h.Routes())
}
