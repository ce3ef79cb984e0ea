package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	formkit "github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/transport"
)

func submitFlags() []cli.Flag {
	return append(formFlags(),
		&cli.StringFlag{
			Name:  "action",
			Usage: "override the form action; s3://bucket/prefix stores the submission in S3",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "base URL for relative form actions",
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "sign request bodies with this HMAC secret",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "overall submission timeout",
			Value: time.Minute,
		},
		&cli.BoolFlag{
			Name:  "native",
			Usage: "submit like a browser without scripting, using the form enctype",
		},
		&cli.StringFlag{
			Name:  "s3-bucket",
			Usage: "default bucket for s3:// actions",
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Value: "us-east-1",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "endpoint of an S3-compatible service",
		},
		&cli.StringFlag{
			Name: "s3-access-key",
		},
		&cli.StringFlag{
			Name: "s3-secret-key",
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "use path-style bucket addressing",
		},
	)
}

func submitCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "fill a form, validate it and send it to its action",
		Flags: submitFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			l, err := newLogger(cmd, stderr)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			tr, err := buildTransport(ctx, cmd)
			if err != nil {
				return err
			}

			opts := []formkit.Option{
				formkit.WithLogger(l),
				formkit.WithTransport(tr),
				formkit.WithNotifier(formkit.LogNotifier{Logger: l}),
				formkit.WithOnProgress(func(percent float64, f *form.Form) {
					l.Debug("upload progress", logger.FormID(f.ID), slog.Float64("percent", percent))
				}),
			}
			if cmd.Bool("native") {
				opts = append(opts, formkit.WithAJAX(false))
			}
			fk, err := prepare(ctx, cmd, opts...)
			if err != nil {
				return err
			}
			if action := cmd.String("action"); action != "" {
				fk.Form().Action = action
			}

			if err := fk.WaitThumbnails(ctx); err != nil {
				return err
			}
			res, err := fk.Submit(ctx)
			if werr := writeJSON(stdout, newSubmitReport(fk.Form().ID, res, err)); werr != nil {
				return werr
			}
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
			}
			return nil
		},
	}
}

// buildTransport routes http(s) actions to the HTTP transport and s3://
// actions to S3 when a region or bucket is configured.
func buildTransport(ctx context.Context, cmd *cli.Command) (transport.Transport, error) {
	httpOpts := []transport.HTTPOption{transport.WithTimeout(cmd.Duration("timeout"))}
	if base := cmd.String("base-url"); base != "" {
		httpOpts = append(httpOpts, transport.WithBaseURL(base))
	}
	if secret := cmd.String("secret"); secret != "" {
		httpOpts = append(httpOpts, transport.WithSigningSecret(secret))
	}
	mux := transport.NewMux(transport.NewHTTP(httpOpts...))

	if bucket := cmd.String("s3-bucket"); bucket != "" {
		s3, err := transport.NewS3(ctx, transport.S3Config{
			Bucket:         bucket,
			Region:         cmd.String("s3-region"),
			AccessKeyID:    cmd.String("s3-access-key"),
			SecretKey:      cmd.String("s3-secret-key"),
			Endpoint:       cmd.String("s3-endpoint"),
			ForcePathStyle: cmd.Bool("s3-path-style"),
		})
		if err != nil {
			return nil, err
		}
		mux.Handle("s3", s3)
	}
	return mux, nil
}
