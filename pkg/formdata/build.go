package formdata

import (
	"strings"

	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/form"
)

// FileFieldName returns the entry name used for files of a file input:
// the input name with a "[]" suffix, unless it already has one.
func FileFieldName(name string) string {
	if strings.HasSuffix(name, "[]") {
		return name
	}
	return name + "[]"
}

// FromForm builds the payload of f in document order:
//
//   - unnamed controls and button-like inputs are skipped;
//   - checkboxes and radios contribute their value only when checked;
//   - file inputs contribute the selected files from store that passed
//     validation, under FileFieldName;
//   - every other input, textarea and select contributes its value.
func FromForm(f *form.Form, store *file.Store) (*Payload, error) {
	if f == nil {
		return nil, ErrNilForm
	}

	p := New()
	for _, c := range f.Fields() {
		if c.Name == "" {
			continue
		}

		switch c.Kind {
		case form.KindSubmit, form.KindButton, form.KindReset:
			continue
		case form.KindFile:
			if store == nil {
				continue
			}
			name := FileFieldName(c.Name)
			for _, fl := range store.Get(c.Key()).ValidFiles() {
				p.AddFile(name, fl)
			}
		case form.KindCheckbox, form.KindRadio:
			if c.Checked {
				p.Add(c.Name, c.Value)
			}
		default:
			p.Add(c.Name, c.Value)
		}
	}
	return p, nil
}
