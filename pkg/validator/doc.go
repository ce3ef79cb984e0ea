// Package validator checks form control values against their declared
// constraints and reports catalog-driven, placeholder-substituted messages.
//
// Field validation runs an ordered list of checks and stops at the first
// failure:
//
//  1. radio and checkbox controls: a required but unchecked control defers to
//     its group, an unchecked optional one is valid;
//  2. required: an empty trimmed value fails;
//  3. an empty optional value is valid and skips every later check;
//  4. minlength, then maxlength;
//  5. kind format: email, url, tel, number/range (with numeric min/max) and
//     date-like kinds (lexicographic min/max, correct for ISO formats only);
//  6. pattern;
//  7. the custom rule registered for the field name.
//
// The outcome is a tagged Result: Valid, Invalid(message) or DeferToGroup.
// Radio and checkbox groups are validated collectively with Group.
//
// # Rules and reports
//
// Each check is a Rule: a Check func paired with a ValidationError carrying
// the message and its translation key and values. First returns the first
// failing rule, Apply collects every failure into ValidationErrors, which
// implements error:
//
//	err := validator.Apply(rules...)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		for _, field := range verrs.Fields() { ... }
//	}
package validator
