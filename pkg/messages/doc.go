// Package messages holds the error message catalog used by form validation.
//
// A Catalog maps a message Key to a template. Templates may reference the
// placeholders {min}, {max} and {size}; Format substitutes them. Catalogs are
// merged per key, so a partial override never erases the default entries it
// does not mention:
//
//	catalog := messages.Defaults().Merge(messages.Catalog{
//		messages.Required: "Please fill in this field",
//	})
//	catalog.Format(messages.MinLength, messages.Arg("min", 3))
//	// "Minimum 3 characters required"
//
// A Bundle keeps per-locale overrides and resolves the best match for a
// requested language tag with golang.org/x/text/language. Bundles can be
// loaded from YAML or JSON documents shaped as {locale: {key: template}}.
package messages
