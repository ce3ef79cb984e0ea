package command

import "errors"

var (
	ErrInvalidAssignment = errors.New("expected name=value")
	ErrUnknownField      = errors.New("no such field in form")
	ErrNoOption          = errors.New("no control with that value")
	ErrNoForm            = errors.New("document has no form")
	ErrInvalidForm       = errors.New("form is invalid")
	ErrSubmitFailed      = errors.New("submission failed")
	ErrInvalidLogFormat  = errors.New("log format must be text or json")
)
