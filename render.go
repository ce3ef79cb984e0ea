package formkit

import (
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/formkit/pkg/preview"
)

// Stylesheet returns the recommended stylesheet. Only the first instance
// created for a document renders it; the others render nothing.
func (i *Instance) Stylesheet() templ.Component {
	if !i.ownsStyle {
		return templ.NopComponent
	}
	return preview.Stylesheet(i.settings.Classes())
}

// ErrorSpan renders the inline error of a control, or nothing when the
// control is not decorated.
func (i *Instance) ErrorSpan(idOrName string) templ.Component {
	c, err := i.control(idOrName)
	if err != nil {
		return templ.NopComponent
	}

	i.mu.Lock()
	text := c.ErrorText
	i.mu.Unlock()
	if text == "" {
		return templ.NopComponent
	}
	return preview.ErrorSpan(i.settings.ErrorSpanClass, text)
}

// Previews returns the preview state of a file input's selection. Every
// item carries the current upload progress.
func (i *Instance) Previews(idOrName string) ([]preview.Item, error) {
	c, err := i.fileInput(idOrName)
	if err != nil {
		return nil, err
	}

	progress := i.Progress()
	entries := i.store.Snapshot(c.Key())
	items := make([]preview.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, preview.Item{
			Index:     e.Index,
			Name:      e.File.Name,
			Error:     e.Error,
			Thumbnail: e.Thumbnail,
			Progress:  progress,
		})
	}
	return items, nil
}

// Preview renders the previews container of a file input.
func (i *Instance) Preview(idOrName string) templ.Component {
	items, err := i.Previews(idOrName)
	if err != nil {
		return templ.NopComponent
	}
	return preview.FilePreviews(i.settings.Classes(), items)
}

// RenderPreview renders the previews container of a file input to HTML.
func (i *Instance) RenderPreview(ctx context.Context, idOrName string) (string, error) {
	if _, err := i.fileInput(idOrName); err != nil {
		return "", err
	}
	return preview.Render(ctx, i.Preview(idOrName))
}
