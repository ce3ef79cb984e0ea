package form

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Kind is the control type: the type attribute of an input, or the tag name
// for textarea and select.
type Kind string

const (
	KindText          Kind = "text"
	KindEmail         Kind = "email"
	KindURL           Kind = "url"
	KindTel           Kind = "tel"
	KindNumber        Kind = "number"
	KindRange         Kind = "range"
	KindDate          Kind = "date"
	KindTime          Kind = "time"
	KindDateTimeLocal Kind = "datetime-local"
	KindMonth         Kind = "month"
	KindWeek          Kind = "week"
	KindCheckbox      Kind = "checkbox"
	KindRadio         Kind = "radio"
	KindFile          Kind = "file"
	KindPassword      Kind = "password"
	KindSearch        Kind = "search"
	KindHidden        Kind = "hidden"
	KindSubmit        Kind = "submit"
	KindButton        Kind = "button"
	KindReset         Kind = "reset"
	KindTextarea      Kind = "textarea"
	KindSelect        Kind = "select"
)

// IsDateLike reports whether values of this kind are ISO-ordered strings
// compared lexicographically against min and max.
func (k Kind) IsDateLike() bool {
	switch k {
	case KindDate, KindTime, KindDateTimeLocal, KindMonth, KindWeek:
		return true
	}
	return false
}

// IsNumeric reports whether values of this kind are parsed as numbers.
func (k Kind) IsNumeric() bool {
	return k == KindNumber || k == KindRange
}

// IsGroup reports whether controls of this kind are validated as a group.
func (k Kind) IsGroup() bool {
	return k == KindRadio || k == KindCheckbox
}

// Tag names of form-associated elements.
const (
	TagInput    = "input"
	TagTextarea = "textarea"
	TagSelect   = "select"
	TagButton   = "button"
)

// Control is a single form-associated element.
type Control struct {
	ID   string
	Name string
	Tag  string
	Kind Kind

	Value          string
	DefaultValue   string
	Checked        bool
	DefaultChecked bool

	Required  bool
	Disabled  bool
	Multiple  bool
	Min       string
	Max       string
	MinLength int // -1 when not declared
	MaxLength int // -1 when not declared
	Pattern   string
	Accept    string

	// FormAttr is the value of the form attribute, associating a control
	// placed outside a form with that form's id.
	FormAttr string
	// FormID is the id of the enclosing form element, empty when the control
	// is not nested in a form.
	FormID string

	Classes []string
	Attrs   map[string]string
	// Label is the visible text of a button, or the value of an input button.
	Label string

	// ErrorText is the inline error rendered after the control, empty when
	// the control is not decorated.
	ErrorText string

	key string
	// enclosing is set for controls nested inside a form element.
	enclosing *Form
}

// NewInput creates an input control of the given kind with undeclared
// length bounds.
func NewInput(name string, kind Kind) *Control {
	return &Control{
		Name:      name,
		Tag:       TagInput,
		Kind:      kind,
		MinLength: -1,
		MaxLength: -1,
	}
}

// NewTextarea creates a textarea control.
func NewTextarea(name string) *Control {
	c := NewInput(name, KindTextarea)
	c.Tag = TagTextarea
	return c
}

// NewSelect creates a select control.
func NewSelect(name string) *Control {
	c := NewInput(name, KindSelect)
	c.Tag = TagSelect
	return c
}

// NewButton creates a button element of the given kind with a label.
func NewButton(kind Kind, label string) *Control {
	c := NewInput("", kind)
	c.Tag = TagButton
	c.Label = label
	return c
}

// Key returns a stable identifier for the control: its id when declared,
// otherwise a generated one assigned when the control joins a document.
func (c *Control) Key() string {
	if c.ID != "" {
		return c.ID
	}
	if c.key == "" {
		c.key = uuid.NewString()
	}
	return c.key
}

// IsField reports whether the control is one of input, textarea or select.
func (c *Control) IsField() bool {
	switch c.Tag {
	case TagInput, TagTextarea, TagSelect:
		return true
	}
	return false
}

// IsSubmit reports whether the control is a native submit control.
func (c *Control) IsSubmit() bool {
	return (c.Tag == TagButton || c.Tag == TagInput) && c.Kind == KindSubmit
}

// IsButton reports whether the control is a button or a button-like input.
func (c *Control) IsButton() bool {
	if c.Tag == TagButton {
		return true
	}
	switch c.Kind {
	case KindSubmit, KindButton, KindReset:
		return true
	}
	return false
}

// HasClass reports whether the control carries class.
func (c *Control) HasClass(class string) bool {
	return slices.Contains(c.Classes, class)
}

// AddClass adds class unless already present.
func (c *Control) AddClass(class string) {
	class = strings.TrimSpace(class)
	if class == "" || c.HasClass(class) {
		return
	}
	c.Classes = append(c.Classes, class)
}

// RemoveClass removes every occurrence of class.
func (c *Control) RemoveClass(class string) {
	c.Classes = slices.DeleteFunc(c.Classes, func(v string) bool { return v == class })
}

// Attr returns an attribute value. Well-known attributes are served from the
// typed fields so selectors can match them.
func (c *Control) Attr(name string) (string, bool) {
	switch name {
	case "id":
		return c.ID, c.ID != ""
	case "name":
		return c.Name, c.Name != ""
	case "type":
		return string(c.Kind), c.Kind != "" && c.Tag != TagTextarea && c.Tag != TagSelect
	case "value":
		return c.Value, true
	case "form":
		return c.FormAttr, c.FormAttr != ""
	case "class":
		return strings.Join(c.Classes, " "), len(c.Classes) > 0
	case "required":
		return "", c.Required
	case "disabled":
		return "", c.Disabled
	case "checked":
		return "", c.Checked
	}
	v, ok := c.Attrs[name]
	return v, ok
}

// SetAttr stores an arbitrary attribute.
func (c *Control) SetAttr(name, value string) {
	if c.Attrs == nil {
		c.Attrs = make(map[string]string)
	}
	c.Attrs[name] = value
}

// Decorate marks the control as invalid with the given error text.
func (c *Control) Decorate(class, text string) {
	c.AddClass(class)
	c.ErrorText = text
}

// Undecorate removes the error class and the error text.
func (c *Control) Undecorate(class string) {
	c.RemoveClass(class)
	c.ErrorText = ""
}

// Decorated reports whether the control currently shows an error.
func (c *Control) Decorated() bool {
	return c.ErrorText != ""
}

// Reset restores the initial value and checkedness. Buttons keep their
// value, which is their label.
func (c *Control) Reset() {
	if c.IsButton() {
		return
	}
	c.Value = c.DefaultValue
	c.Checked = c.DefaultChecked
}
