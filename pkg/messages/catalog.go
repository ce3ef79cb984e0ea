package messages

import (
	"fmt"
	"strings"
)

// Key identifies a message template.
type Key string

const (
	Required  Key = "required"
	Email     Key = "email"
	URL       Key = "url"
	Number    Key = "number"
	MinLength Key = "minLength"
	MaxLength Key = "maxLength"
	Min       Key = "min"
	Max       Key = "max"
	Pattern   Key = "pattern"
	FileSize  Key = "fileSize"
	FileType  Key = "fileType"
	Phone     Key = "phone"
)

// Keys lists every built-in key in a stable order.
func Keys() []Key {
	return []Key{Required, Email, URL, Number, MinLength, MaxLength, Min, Max, Pattern, FileSize, FileType, Phone}
}

// Catalog maps message keys to templates.
type Catalog map[Key]string

// Defaults returns a fresh copy of the built-in English catalog.
func Defaults() Catalog {
	return Catalog{
		Required:  "This field is required",
		Email:     "Please enter a valid email address",
		URL:       "Please enter a valid URL",
		Number:    "Please enter a valid number",
		MinLength: "Minimum {min} characters required",
		MaxLength: "Maximum {max} characters allowed",
		Min:       "Value must be at least {min}",
		Max:       "Value must be no more than {max}",
		Pattern:   "Invalid format",
		FileSize:  "File size exceeds {size}MB limit",
		FileType:  "Invalid file type",
		Phone:     "Please enter a valid phone number",
	}
}

// Merge returns a new catalog holding c with overrides applied key by key.
// Neither input is modified.
func (c Catalog) Merge(overrides Catalog) Catalog {
	out := make(Catalog, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of the catalog.
func (c Catalog) Clone() Catalog {
	return c.Merge(nil)
}

// Get returns the template for key. Keys missing from c fall back to the
// built-in default, and unknown keys resolve to the key itself.
func (c Catalog) Get(key Key) string {
	if tmpl, ok := c[key]; ok {
		return tmpl
	}
	if tmpl, ok := Defaults()[key]; ok {
		return tmpl
	}
	return string(key)
}

// Placeholder is a single {name} substitution.
type Placeholder struct {
	Name  string
	Value string
}

// Arg builds a placeholder, formatting value with fmt.Sprint.
func Arg(name string, value any) Placeholder {
	return Placeholder{Name: name, Value: fmt.Sprint(value)}
}

// Format resolves key and substitutes the first occurrence of every
// placeholder, mirroring how templates are written: one slot per value.
func (c Catalog) Format(key Key, args ...Placeholder) string {
	return Substitute(c.Get(key), args...)
}

// Substitute replaces the first {name} occurrence for each placeholder.
func Substitute(tmpl string, args ...Placeholder) string {
	for _, arg := range args {
		if arg.Name == "" {
			continue
		}
		tmpl = strings.Replace(tmpl, "{"+arg.Name+"}", arg.Value, 1)
	}
	return tmpl
}
