package file

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/formkit/pkg/messages"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// DefaultMaxSize is the default per-file size limit, 10 MiB.
const DefaultMaxSize int64 = 10 << 20

// Validator checks a single file against a size limit and a type allow-list.
type Validator struct {
	// MaxSize in bytes; zero disables the check.
	MaxSize int64
	// Allowed holds exact MIME types or family wildcards such as "image/*".
	// Empty allows every type.
	Allowed  []string
	Messages messages.Catalog
}

// NewValidator creates a file validator.
func NewValidator(c messages.Catalog, maxSize int64, allowed ...string) *Validator {
	if c == nil {
		c = messages.Defaults()
	}
	return &Validator{MaxSize: maxSize, Allowed: allowed, Messages: c}
}

// Validate checks size first, then type.
func (v *Validator) Validate(f File) validator.Result {
	if err := v.Check(f); err != nil {
		return v.result(err)
	}
	return validator.Valid()
}

// Check is Validate in error form, wrapping ErrFileTooLarge or
// ErrMIMETypeNotAllowed.
func (v *Validator) Check(f File) error {
	if v.MaxSize > 0 && f.Size > v.MaxSize {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", f.Size, v.MaxSize, ErrFileTooLarge)
	}
	if len(v.Allowed) > 0 && !TypeAllowed(f.MIMEType, v.Allowed...) {
		return fmt.Errorf("MIME type %q not in allowed types %v: %w", f.MIMEType, v.Allowed, ErrMIMETypeNotAllowed)
	}
	return nil
}

// SizeLabel renders the limit in megabytes with one decimal, as used in
// the fileSize message.
func (v *Validator) SizeLabel() string {
	return fmt.Sprintf("%.1f", float64(v.MaxSize)/1048576)
}

func (v *Validator) result(err error) validator.Result {
	if errors.Is(err, ErrFileTooLarge) {
		size := v.SizeLabel()
		return validator.Result{
			Status:  validator.StatusInvalid,
			Message: v.Messages.Format(messages.FileSize, messages.Arg("size", size)),
			Key:     string(messages.FileSize),
			Values:  map[string]any{"size": size},
		}
	}
	return validator.Result{
		Status:  validator.StatusInvalid,
		Message: v.Messages.Format(messages.FileType),
		Key:     string(messages.FileType),
	}
}

// TypeAllowed reports whether mimeType matches one of the patterns. A
// pattern ending in "/*" matches the whole family.
func TypeAllowed(mimeType string, patterns ...string) bool {
	for _, p := range patterns {
		if family, ok := strings.CutSuffix(p, "/*"); ok {
			if strings.HasPrefix(mimeType, family+"/") {
				return true
			}
			continue
		}
		if mimeType == p {
			return true
		}
	}
	return false
}
