package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	formkit "github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/form"
)

func formFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "html",
			Usage:    "HTML file containing the form",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "form",
			Usage: "form id (default: first form in the document)",
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "field value as name=value; for radios and checkboxes checks the control with that value",
		},
		&cli.StringSliceFlag{
			Name:  "file",
			Usage: "attach a file as input=path; repeat for several files",
		},
		&cli.StringFlag{
			Name:  "locale",
			Usage: "message locale, used with FORMKIT_MESSAGES_FILE",
		},
	}
}

// loadDocument parses the HTML file and picks the form.
func loadDocument(path, formID string) (*form.Document, *form.Form, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = fh.Close() }()

	doc, err := form.Parse(fh)
	if err != nil {
		return nil, nil, err
	}
	if formID == "" {
		forms := doc.Forms()
		if len(forms) == 0 {
			return nil, nil, ErrNoForm
		}
		return doc, forms[0], nil
	}
	f := doc.FormByID(formID)
	if f == nil {
		return nil, nil, fmt.Errorf("%w: %q", formkit.ErrFormNotFound, formID)
	}
	return doc, f, nil
}

// splitAssignment splits "name=value"; the value may be empty.
func splitAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidAssignment, s)
	}
	return name, value, nil
}

// assign applies one --set to the form model. Radio and checkbox groups
// check the member whose value matches; a radio unchecks its siblings.
func assign(f *form.Form, name, value string) error {
	var matches []*form.Control
	for _, c := range f.Fields() {
		if c.Name == name {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		if c := f.Control(name); c != nil {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	first := matches[0]
	if !first.Kind.IsGroup() {
		first.Value = value
		return nil
	}
	for _, c := range matches {
		if c.Value != value {
			continue
		}
		c.Checked = true
		if c.Kind == form.KindRadio {
			for _, other := range matches {
				if other != c {
					other.Checked = false
				}
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s=%q", ErrNoOption, name, value)
}

// prepare builds the instance for cmd and fills the form from its flags.
func prepare(ctx context.Context, cmd *cli.Command, opts ...formkit.Option) (*formkit.Instance, error) {
	doc, f, err := loadDocument(cmd.String("html"), cmd.String("form"))
	if err != nil {
		return nil, err
	}

	for _, s := range cmd.StringSlice("set") {
		name, value, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		if err := assign(f, name, value); err != nil {
			return nil, err
		}
	}

	var envOpts []config.Option
	if path := cmd.Root().String("env-file"); path != "" {
		envOpts = append(envOpts, config.WithEnvFiles(path))
	}
	base := []formkit.Option{formkit.FromEnv(envOpts...)}
	if locale := cmd.String("locale"); locale != "" {
		base = append(base, formkit.WithLocale(locale))
	}
	fk, err := formkit.New(doc, f.ID, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]file.File)
	var order []string
	for _, s := range cmd.StringSlice("file") {
		input, path, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		fl, err := file.Open(path)
		if err != nil {
			return nil, err
		}
		if _, ok := files[input]; !ok {
			order = append(order, input)
		}
		files[input] = append(files[input], fl)
	}
	for _, input := range order {
		if _, err := fk.ChooseFiles(ctx, input, files[input]...); err != nil {
			return nil, err
		}
	}
	return fk, nil
}
