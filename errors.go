package formkit

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/formkit/pkg/transport"
)

var (
	ErrNilDocument        = errors.New("document is nil")
	ErrFormNotFound       = errors.New("form not found")
	ErrControlNotFound    = errors.New("control not found")
	ErrNotFileInput       = errors.New("control is not a file input")
	ErrControlDisabled    = errors.New("control is disabled")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrNoTransport        = errors.New("no transport configured")

	ErrVetoed            = errors.New("submission vetoed")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
)

// Kind classifies a failed submission.
type Kind uint8

const (
	// KindVetoed: the beforeSubmit hook declined; nothing was sent.
	KindVetoed Kind = iota + 1
	// KindNetwork: no response was received.
	KindNetwork
	// KindStatus: the destination answered with a non-2xx status.
	KindStatus
	// KindMalformed: a 2xx answer whose body is not JSON.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindVetoed:
		return "vetoed"
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// SubmitError describes why a submission did not succeed.
type SubmitError struct {
	Kind       Kind
	StatusCode int
	// Body is the raw response body, when there was a response.
	Body []byte
	Err  error
}

func (e *SubmitError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submit %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("submit %s: %v", e.Kind, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Notice returns the default user-facing message for the failure.
func (e *SubmitError) Notice() string {
	switch e.Kind {
	case KindNetwork:
		return "Network error occurred!"
	case KindStatus:
		return fmt.Sprintf("Upload failed! Status: %d", e.StatusCode)
	case KindMalformed:
		return "Response received but invalid JSON format"
	case KindVetoed:
		return "Submission cancelled"
	}
	return e.Error()
}

func networkError(err error) *SubmitError {
	if !errors.Is(err, transport.ErrNetwork) {
		err = fmt.Errorf("%w: %w", transport.ErrNetwork, err)
	}
	return &SubmitError{Kind: KindNetwork, Err: err}
}

// IsSubmitError reports whether err is a *SubmitError of one of kinds, or
// of any kind when none are given.
func IsSubmitError(err error, kinds ...Kind) bool {
	var se *SubmitError
	if !errors.As(err, &se) {
		return false
	}
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if se.Kind == k {
			return true
		}
	}
	return false
}
