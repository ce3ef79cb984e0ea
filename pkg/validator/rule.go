package validator

// Rule represents a single validation check.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes every rule and returns all failures, or nil.
func Apply(rules ...Rule) error {
	var errs ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	if errs.IsEmpty() {
		return nil
	}

	return errs
}

// First executes rules in order and returns the first failing one.
func First(rules ...Rule) (ValidationError, bool) {
	for _, rule := range rules {
		if !rule.Check() {
			return rule.Error, true
		}
	}
	return ValidationError{}, false
}
