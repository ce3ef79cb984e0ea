package validator

// Status is the tag of a Result.
type Status uint8

const (
	StatusValid Status = iota
	StatusInvalid
	// StatusDeferToGroup means a single radio or checkbox cannot decide
	// required-ness on its own; the group decides.
	StatusDeferToGroup
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusDeferToGroup:
		return "defer_to_group"
	}
	return "unknown"
}

// Result is the outcome of validating one control, group or file.
type Result struct {
	Status  Status
	Message string
	// Key is the catalog key the message was built from, empty for custom
	// rule messages.
	Key string
	// Values holds the placeholder values used in Message.
	Values map[string]any
}

// Valid returns a passing result.
func Valid() Result {
	return Result{Status: StatusValid}
}

// Invalid returns a failing result carrying message.
func Invalid(message string) Result {
	return Result{Status: StatusInvalid, Message: message}
}

// DeferToGroup returns the result for an unchecked required radio or checkbox.
func DeferToGroup() Result {
	return Result{Status: StatusDeferToGroup}
}

func resultFrom(err ValidationError) Result {
	return Result{
		Status:  StatusInvalid,
		Message: err.Message,
		Key:     err.TranslationKey,
		Values:  err.TranslationValues,
	}
}

func (r Result) IsValid() bool    { return r.Status == StatusValid }
func (r Result) IsInvalid() bool  { return r.Status == StatusInvalid }
func (r Result) IsDeferred() bool { return r.Status == StatusDeferToGroup }

// ValidationError converts a failing result into a report entry for field.
func (r Result) ValidationError(field string) ValidationError {
	return ValidationError{
		Field:             field,
		Message:           r.Message,
		TranslationKey:    r.Key,
		TranslationValues: r.Values,
	}
}
