package form

import "errors"

var (
	ErrEmptySelector       = errors.New("empty selector")
	ErrUnsupportedSelector = errors.New("unsupported selector")
	ErrFailedToParseHTML   = errors.New("failed to parse html")
	ErrFormNotFound        = errors.New("form not found")
	ErrControlNotFound     = errors.New("control not found")
)
