// Package command implements the formkit command: load a form from HTML, fill
// it, then validate or submit it.
package command

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Version is reported by --version.
var Version = "dev"

// New builds the root command. Reports go to stdout, logs to stderr.
func New(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "formkit",
		Usage:   "validate and submit HTML forms from the command line",
		Version: Version,
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
				Value: string(logger.FormatText),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file with FORMKIT_* settings",
			},
		},
		Commands: []*cli.Command{
			validateCommand(stdout, stderr),
			submitCommand(stdout, stderr),
		},
	}
}

// newLogger builds the logger from the root flags.
func newLogger(cmd *cli.Command, w io.Writer) (*slog.Logger, error) {
	root := cmd.Root()
	format := logger.Format(root.String("log-format"))
	if format != logger.FormatText && format != logger.FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, format)
	}
	return logger.New(
		logger.WithLevelName(root.String("log-level")),
		logger.WithFormat(format),
		logger.WithOutput(w),
		logger.WithAttr(logger.Component("cli")),
	), nil
}
