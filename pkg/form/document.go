package form

import (
	"net/http"
	"strings"
	"sync"
)

// Encoding types accepted by the enctype attribute.
const (
	EncodingURL       = "application/x-www-form-urlencoded"
	EncodingMultipart = "multipart/form-data"
)

// Form is a form element and the controls nested inside it.
type Form struct {
	ID         string
	Action     string
	Method     string
	Enctype    string
	NoValidate bool
	Classes    []string

	doc      *Document
	controls []*Control
}

// NewForm creates a detached form. Add it to a Document to resolve controls
// associated through the form attribute.
func NewForm(id, action, method string) *Form {
	return &Form{ID: id, Action: action, Method: method}
}

// Add nests controls inside the form, in document order.
func (f *Form) Add(controls ...*Control) *Form {
	for _, c := range controls {
		if c == nil {
			continue
		}
		c.FormID = f.ID
		c.enclosing = f
		c.Key()
		f.controls = append(f.controls, c)
		if f.doc != nil {
			f.doc.controls = append(f.doc.controls, c)
		}
	}
	return f
}

// Document returns the document the form belongs to, or nil.
func (f *Form) Document() *Document {
	return f.doc
}

// HTTPMethod returns the upper-cased method, POST when unset.
func (f *Form) HTTPMethod() string {
	m := strings.ToUpper(strings.TrimSpace(f.Method))
	if m == "" {
		return http.MethodPost
	}
	return m
}

// Owns reports whether c belongs to this form: a control nested in a form
// belongs to that form only; a control outside any form belongs to the form
// its form attribute names.
func (f *Form) Owns(c *Control) bool {
	if c == nil {
		return false
	}
	if c.enclosing != nil {
		return c.enclosing == f
	}
	return c.FormAttr != "" && f.ID != "" && c.FormAttr == f.ID
}

// Controls returns the controls nested in the form, in document order.
func (f *Form) Controls() []*Control {
	out := make([]*Control, len(f.controls))
	copy(out, f.controls)
	return out
}

// Fields returns nested input, textarea and select controls.
func (f *Form) Fields() []*Control {
	out := make([]*Control, 0, len(f.controls))
	for _, c := range f.controls {
		if c.IsField() {
			out = append(out, c)
		}
	}
	return out
}

// FieldsOfKind returns nested fields of the given kind.
func (f *Form) FieldsOfKind(kind Kind) []*Control {
	var out []*Control
	for _, c := range f.controls {
		if c.IsField() && c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Control finds a nested control by id, then by name.
func (f *Form) Control(idOrName string) *Control {
	for _, c := range f.controls {
		if c.ID != "" && c.ID == idOrName {
			return c
		}
	}
	for _, c := range f.controls {
		if c.Name != "" && c.Name == idOrName {
			return c
		}
	}
	return nil
}

// Query returns nested controls matching selector.
func (f *Form) Query(selector string) ([]*Control, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.Filter(f.controls), nil
}

// Reset restores every nested control to its initial state.
func (f *Form) Reset() {
	for _, c := range f.controls {
		c.Reset()
	}
}

// Document is the set of forms and controls of one page.
type Document struct {
	mu       sync.Mutex
	forms    []*Form
	controls []*Control
	styles   []string
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddForm attaches forms and their controls to the document.
func (d *Document) AddForm(forms ...*Form) *Document {
	for _, f := range forms {
		if f == nil {
			continue
		}
		f.doc = d
		d.forms = append(d.forms, f)
		d.controls = append(d.controls, f.controls...)
	}
	return d
}

// AddControl attaches controls that are not nested in any form.
func (d *Document) AddControl(controls ...*Control) *Document {
	for _, c := range controls {
		if c == nil {
			continue
		}
		c.Key()
		d.controls = append(d.controls, c)
	}
	return d
}

// Forms returns the forms in document order.
func (d *Document) Forms() []*Form {
	out := make([]*Form, len(d.forms))
	copy(out, d.forms)
	return out
}

// Controls returns every control in document order.
func (d *Document) Controls() []*Control {
	out := make([]*Control, len(d.controls))
	copy(out, d.controls)
	return out
}

// FormByID returns the form with the given id, or nil.
func (d *Document) FormByID(id string) *Form {
	for _, f := range d.forms {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// ControlByID returns the control with the given id, or nil.
func (d *Document) ControlByID(id string) *Control {
	for _, c := range d.controls {
		if c.ID != "" && c.ID == id {
			return c
		}
	}
	return nil
}

// Query returns every control in the document matching selector.
func (d *Document) Query(selector string) ([]*Control, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.Filter(d.controls), nil
}

// EnsureStyle records a stylesheet id and reports whether it was newly added.
// Stylesheets are injected once per document no matter how many form
// instances request them.
func (d *Document) EnsureStyle(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.styles {
		if s == id {
			return false
		}
	}
	d.styles = append(d.styles, id)
	return true
}

// Styles returns the injected stylesheet ids.
func (d *Document) Styles() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.styles))
	copy(out, d.styles)
	return out
}
