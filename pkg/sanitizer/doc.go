// Package sanitizer provides small string transforms used when presenting
// and storing form data: humanized field labels, kebab-case path segments
// and header-safe text.
//
// Transforms compose into pipelines with Apply and Compose:
//
//	label := sanitizer.HumanizeName("billing_postalCode") // "Billing Postal Code"
//
//	segment := sanitizer.Compose(sanitizer.ToASCII, sanitizer.ToKebabCase)
//	v := segment("Zdjęcie 1") // "zdjcie-1"
package sanitizer
