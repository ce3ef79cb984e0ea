package messages

import "errors"

var (
	ErrEmptyDocument     = errors.New("messages document is empty")
	ErrInvalidLocale     = errors.New("invalid locale")
	ErrUnsupportedFormat = errors.New("unsupported messages file format")
	ErrFailedToParse     = errors.New("failed to parse messages document")
	ErrFailedToReadFile  = errors.New("failed to read messages file")
)
