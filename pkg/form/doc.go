// Package form models an HTML document as far as form enhancement needs it:
// forms, their controls, and controls that live outside a form but are tied to
// it through the form attribute.
//
// A Document can be assembled in code or parsed from markup:
//
//	doc, err := form.Parse(strings.NewReader(html))
//	signup := doc.FormByID("signup")
//	buttons, err := doc.Query("#send, button.primary")
//
// Controls carry both their live state (value, checked) and their declared
// constraints (required, min, max, minlength, maxlength, pattern). Error
// decoration is kept on the control itself: a CSS class plus the error text
// that a renderer places right after the control.
//
// Query understands a small selector subset: tag names, #id, .class,
// [attr] and [attr=value], combined into compound selectors and separated by
// commas. Descendant and sibling combinators are not supported.
package form
