package formkit

import (
	"log/slog"
	"slices"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/messages"
	"github.com/dmitrymomot/formkit/pkg/sanitizer"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Validate runs the full validation pass: every field, every radio and
// checkbox group, every file input. All failures are decorated at once.
// It never submits.
func (i *Instance) Validate() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.validateLocked().IsEmpty()
}

// Input handles an input or blur event on a field: the field alone is
// validated and decorated. Radios and checkboxes validate their group.
// File inputs are skipped.
func (i *Instance) Input(idOrName string) (validator.Result, error) {
	c, err := i.control(idOrName)
	if err != nil {
		return validator.Result{}, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.inputLocked(c), nil
}

// SetValue sets the value of a field and validates it like Input.
func (i *Instance) SetValue(idOrName, value string) (validator.Result, error) {
	c, err := i.control(idOrName)
	if err != nil {
		return validator.Result{}, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	c.Value = value
	return i.inputLocked(c), nil
}

// SetChecked checks or unchecks a radio or checkbox and validates its
// group. Checking a radio unchecks the other radios of its group.
func (i *Instance) SetChecked(idOrName string, checked bool) (validator.Result, error) {
	c, err := i.control(idOrName)
	if err != nil {
		return validator.Result{}, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if checked && c.Kind == form.KindRadio && c.Name != "" {
		for _, other := range validator.GroupOf(c, i.form.Fields()).Controls {
			other.Checked = false
		}
	}
	c.Checked = checked
	return i.inputLocked(c), nil
}

func (i *Instance) inputLocked(c *form.Control) validator.Result {
	switch {
	case c.Kind == form.KindFile:
		return validator.Valid()
	case c.Kind.IsGroup():
		g := validator.GroupOf(c, i.form.Fields())
		res := i.validator.Group(g)
		i.applyGroup(g, res)
		i.report = withField(i.report, fieldName(g.Controls[0]), res)
		return res
	}

	res := i.validator.Control(c)
	i.applyField(c, res)
	i.report = withField(i.report, fieldName(c), res)
	return res
}

// validateLocked runs the full pass and stores its report.
func (i *Instance) validateLocked() validator.ValidationErrors {
	var report validator.ValidationErrors
	fields := i.form.Fields()

	for _, c := range fields {
		if c.Kind == form.KindFile || c.Kind.IsGroup() || isButtonKind(c.Kind) {
			continue
		}
		res := i.validator.Control(c)
		i.applyField(c, res)
		if res.IsInvalid() {
			report.Add(res.ValidationError(fieldName(c)))
		}
	}

	for _, g := range validator.Groups(fields) {
		res := i.validator.Group(g)
		i.applyGroup(g, res)
		if res.IsInvalid() {
			report.Add(res.ValidationError(g.Name))
		}
	}

	for _, c := range fields {
		if c.Kind != form.KindFile {
			continue
		}
		sel := i.store.Get(c.Key())
		if c.Required && sel.Len() == 0 {
			res := validator.Result{
				Status:  validator.StatusInvalid,
				Message: i.catalog.Format(messages.Required),
				Key:     string(messages.Required),
			}
			i.applyField(c, res)
			report.Add(res.ValidationError(fieldName(c)))
			continue
		}
		c.Undecorate(i.settings.ErrorClass)
		// Rejected files are shown in their previews, not on the input.
		for _, e := range sel.Entries() {
			if !e.Valid() {
				report.Add(validator.ValidationError{
					Field:             fieldName(c),
					Message:           e.Error,
					TranslationValues: map[string]any{"file": e.File.Name, "index": e.Index},
				})
			}
		}
	}

	i.report = report
	i.log.Debug("form validated",
		logger.Event("validate"),
		slog.Bool("valid", report.IsEmpty()),
		slog.Int("errors", len(report)),
	)
	return report
}

// applyField decorates c when res failed and clears it otherwise. A
// deferred result leaves the decoration to the group.
func (i *Instance) applyField(c *form.Control, res validator.Result) {
	switch res.Status {
	case validator.StatusInvalid:
		c.Decorate(i.settings.ErrorClass, i.errorText(c, res.Message))
	case validator.StatusValid:
		c.Undecorate(i.settings.ErrorClass)
	}
}

// applyGroup decorates only the first member of the group. Group errors
// carry no field name prefix.
func (i *Instance) applyGroup(g validator.ControlGroup, res validator.Result) {
	if len(g.Controls) == 0 {
		return
	}
	first := g.Controls[0]
	if res.IsInvalid() {
		first.Decorate(i.settings.ErrorClass, res.Message)
		return
	}
	first.Undecorate(i.settings.ErrorClass)
}

// errorText prefixes msg with the field name when configured: the name,
// else the id, else "Field".
func (i *Instance) errorText(c *form.Control, msg string) string {
	if !i.settings.ShowNameError {
		return msg
	}
	name := c.Name
	if name == "" {
		name = c.ID
	}
	if name == "" {
		name = "Field"
	}
	if i.settings.HumanizeNames {
		name = sanitizer.HumanizeName(name)
	}
	return name + ": " + msg
}

func fieldName(c *form.Control) string {
	switch {
	case c.Name != "":
		return c.Name
	case c.ID != "":
		return c.ID
	}
	return c.Key()
}

func isButtonKind(k form.Kind) bool {
	return k == form.KindSubmit || k == form.KindButton || k == form.KindReset
}

// withField replaces the report entries of field with res.
func withField(report validator.ValidationErrors, field string, res validator.Result) validator.ValidationErrors {
	report = slices.DeleteFunc(slices.Clone(report), func(e validator.ValidationError) bool {
		return e.Field == field
	})
	if res.IsInvalid() {
		report.Add(res.ValidationError(field))
	}
	return report
}
