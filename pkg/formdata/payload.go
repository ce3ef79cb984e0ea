package formdata

import (
	"slices"

	"github.com/dmitrymomot/formkit/pkg/file"
)

// Part is one entry of a payload: a scalar value or a file.
type Part struct {
	Name  string
	Value string
	File  *file.File
}

// IsFile reports whether the part carries a file.
func (p Part) IsFile() bool {
	return p.File != nil
}

// Payload is an ordered multi-map of form entries, the equivalent of a
// browser FormData. Repeated names are kept in insertion order.
type Payload struct {
	parts []Part
}

// New creates an empty payload.
func New() *Payload {
	return &Payload{}
}

// Add appends a scalar entry.
func (p *Payload) Add(name, value string) *Payload {
	p.parts = append(p.parts, Part{Name: name, Value: value})
	return p
}

// AddFile appends a file entry.
func (p *Payload) AddFile(name string, f file.File) *Payload {
	p.parts = append(p.parts, Part{Name: name, File: &f})
	return p
}

// Set replaces every entry named name with a single scalar value.
func (p *Payload) Set(name, value string) *Payload {
	return p.Delete(name).Add(name, value)
}

// Delete removes every entry named name.
func (p *Payload) Delete(name string) *Payload {
	p.parts = slices.DeleteFunc(p.parts, func(part Part) bool { return part.Name == name })
	return p
}

// Parts returns a copy of the entries in order.
func (p *Payload) Parts() []Part {
	return slices.Clone(p.parts)
}

// Len returns the number of entries.
func (p *Payload) Len() int {
	return len(p.parts)
}

// Has reports whether an entry named name exists.
func (p *Payload) Has(name string) bool {
	return slices.ContainsFunc(p.parts, func(part Part) bool { return part.Name == name })
}

// Get returns the first scalar value named name.
func (p *Payload) Get(name string) string {
	for _, part := range p.parts {
		if part.Name == name && !part.IsFile() {
			return part.Value
		}
	}
	return ""
}

// Values returns every scalar value named name.
func (p *Payload) Values(name string) []string {
	var out []string
	for _, part := range p.parts {
		if part.Name == name && !part.IsFile() {
			out = append(out, part.Value)
		}
	}
	return out
}

// Files returns every file named name.
func (p *Payload) Files(name string) []file.File {
	var out []file.File
	for _, part := range p.parts {
		if part.Name == name && part.IsFile() {
			out = append(out, *part.File)
		}
	}
	return out
}

// Fields returns the scalar entries grouped by name.
func (p *Payload) Fields() map[string][]string {
	out := make(map[string][]string)
	for _, part := range p.parts {
		if !part.IsFile() {
			out[part.Name] = append(out[part.Name], part.Value)
		}
	}
	return out
}

// HasFiles reports whether any entry is a file.
func (p *Payload) HasFiles() bool {
	return slices.ContainsFunc(p.parts, Part.IsFile)
}
