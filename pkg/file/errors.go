package file

import "errors"

var (
	ErrNilFileHeader = errors.New("file header is nil")
	ErrEmptyPath     = errors.New("empty file path")

	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size")
	ErrMIMETypeNotAllowed = errors.New("MIME type is not allowed")

	// ErrIndexOutOfRange is returned when removing a selection entry that
	// does not exist.
	ErrIndexOutOfRange = errors.New("file index out of range")
	ErrUnknownInput    = errors.New("no selection for input")

	ErrFailedToOpenFile = errors.New("failed to open file")
	ErrFailedToReadFile = errors.New("failed to read file")
	ErrFailedToHashFile = errors.New("failed to hash file")
)
