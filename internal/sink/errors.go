package sink

import "errors"

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrParseBody              = errors.New("failed to parse request body")
	ErrInvalidStatus          = errors.New("status must be between 400 and 599")
)
