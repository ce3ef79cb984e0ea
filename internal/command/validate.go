package command

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	formkit "github.com/dmitrymomot/formkit"
)

func validateCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "fill a form and print its validation report",
		Flags: formFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd, stderr)
			if err != nil {
				return err
			}
			fk, err := prepare(ctx, cmd, formkit.WithLogger(log))
			if err != nil {
				return err
			}

			valid := fk.Validate()
			report := validationReport{
				Form:   fk.Form().ID,
				Valid:  valid,
				Errors: errorMap(fk.Errors()),
			}
			if err := writeJSON(stdout, report); err != nil {
				return err
			}
			if !valid {
				return ErrInvalidForm
			}
			return nil
		},
	}
}
