package preview

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// StyleID is the id of the injected stylesheet; it is written once per
// document.
const StyleID = "formkit-css"

// Classes names the CSS classes the components use.
type Classes struct {
	Error       string
	ErrorSpan   string
	ProgressBar string
	Preview     string
}

// DefaultClasses returns the built-in class names.
func DefaultClasses() Classes {
	return Classes{
		Error:       "input-error",
		ErrorSpan:   "error-text",
		ProgressBar: "file-progress",
		Preview:     "file-preview",
	}
}

// Item is the preview state of one chosen file.
type Item struct {
	Index     int
	Name      string
	Error     string
	Thumbnail string
	// Progress in percent, 0..100.
	Progress float64
}

// ErrorSpan renders the inline error placed after a decorated control.
func ErrorSpan(class, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<span class="%s">%s</span>`,
			templ.EscapeString(class), templ.EscapeString(text))
		return err
	})
}

// FilePreviews renders the container holding one preview per file.
func FilePreviews(c Classes, items []Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="file-previews-container">`); err != nil {
			return err
		}
		for _, item := range items {
			if err := FilePreview(c, item).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// FilePreview renders a single file: thumbnail for valid images, the name
// (or "X name - error" for rejected files), a remove button and a progress
// bar.
func FilePreview(c Classes, item Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		idx := strconv.Itoa(item.Index)

		var b strings.Builder
		b.WriteString(`<div class="` + templ.EscapeString(c.Preview) + `" data-file-index="` + idx + `"`)
		if item.Error != "" {
			b.WriteString(` style="border-color:#ffb7af"`)
		}
		b.WriteString(`>`)

		if item.Error == "" && item.Thumbnail != "" {
			b.WriteString(`<img src="` + templ.EscapeString(item.Thumbnail) + `" alt="">`)
		}

		if item.Error != "" {
			b.WriteString(`<div class="file-name" style="color:#e74c3c">X ` +
				templ.EscapeString(item.Name) + ` - ` + templ.EscapeString(item.Error) + `</div>`)
		} else {
			b.WriteString(`<div class="file-name">` + templ.EscapeString(item.Name) + `</div>`)
		}

		b.WriteString(`<button type="button" class="remove-file" data-file-index="` + idx + `">&times;</button>`)
		b.WriteString(`<div class="` + templ.EscapeString(c.ProgressBar) + `" data-file-index="` + idx + `">`)
		b.WriteString(`<div style="width:` + FormatPercent(item.Progress) + `"></div></div>`)
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FormatPercent renders p clamped to 0..100 as a CSS percentage.
func FormatPercent(p float64) string {
	switch {
	case p < 0 || math.IsNaN(p):
		p = 0
	case p > 100:
		p = 100
	}
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// Render renders c to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
