package formdata

import "errors"

var (
	ErrEncodeFailed        = errors.New("failed to encode payload")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrNilForm             = errors.New("form is nil")
)
