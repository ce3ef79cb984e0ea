package validator

import "github.com/dmitrymomot/formkit/pkg/form"

// Constraint is the validation-relevant view of one control. It is read from
// the control on every pass and never cached, so edits to the control's
// attributes apply on the next validation.
type Constraint struct {
	Name      string
	Kind      form.Kind
	Required  bool
	Checked   bool
	Min       string
	Max       string
	MinLength int // -1 when not declared
	MaxLength int // -1 when not declared
	Pattern   string
}

// ConstraintOf reads the constraint declared on c.
func ConstraintOf(c *form.Control) Constraint {
	if c == nil {
		return Constraint{MinLength: -1, MaxLength: -1}
	}
	return Constraint{
		Name:      c.Name,
		Kind:      c.Kind,
		Required:  c.Required,
		Checked:   c.Checked,
		Min:       c.Min,
		Max:       c.Max,
		MinLength: c.MinLength,
		MaxLength: c.MaxLength,
		Pattern:   c.Pattern,
	}
}
