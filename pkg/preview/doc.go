// Package preview renders the visual side of form enhancement as templ
// components: inline error spans, per-file previews with remove buttons and
// progress bars, and the recommended stylesheet.
//
//	html, err := preview.Render(ctx, preview.FilePreviews(preview.DefaultClasses(), []preview.Item{
//		{Index: 0, Name: "cv.pdf", Progress: 40},
//		{Index: 1, Name: "huge.zip", Error: "File size exceeds 10.0MB limit"},
//	}))
//
// All text and attribute values are HTML-escaped.
package preview
