package validator

import (
	"slices"

	"github.com/dmitrymomot/formkit/pkg/form"
)

// ControlGroup is a set of radio buttons or checkboxes sharing a name.
type ControlGroup struct {
	Name     string
	Kind     form.Kind
	Controls []*form.Control
}

// Required reports whether the group is required. The first member decides.
func (g ControlGroup) Required() bool {
	return len(g.Controls) > 0 && g.Controls[0].Required
}

// AnyChecked reports whether at least one member is checked.
func (g ControlGroup) AnyChecked() bool {
	return slices.ContainsFunc(g.Controls, func(c *form.Control) bool { return c.Checked })
}

// Groups collects radio and checkbox controls into named groups in order of
// first appearance. Unnamed controls are skipped.
func Groups(controls []*form.Control) []ControlGroup {
	var groups []ControlGroup
	index := make(map[string]int)

	for _, c := range controls {
		if c == nil || !c.Kind.IsGroup() || c.Name == "" {
			continue
		}
		key := string(c.Kind) + "\x00" + c.Name
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ControlGroup{Name: c.Name, Kind: c.Kind})
		}
		groups[i].Controls = append(groups[i].Controls, c)
	}
	return groups
}

// Group validates the group as a whole: a required group needs at least
// one checked member.
func (v *Validator) Group(g ControlGroup) Result {
	if g.Required() && !g.AnyChecked() {
		return resultFrom(v.required(g.Name))
	}
	return Valid()
}

// GroupOf returns the group c belongs to, looked up among controls.
func GroupOf(c *form.Control, controls []*form.Control) ControlGroup {
	g := ControlGroup{Name: c.Name, Kind: c.Kind}
	if c.Name == "" {
		g.Controls = []*form.Control{c}
		return g
	}
	for _, other := range controls {
		if other != nil && other.Kind == c.Kind && other.Name == c.Name {
			g.Controls = append(g.Controls, other)
		}
	}
	if len(g.Controls) == 0 {
		g.Controls = []*form.Control{c}
	}
	return g
}
