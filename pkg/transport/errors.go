package transport

import "errors"

var (
	// ErrNetwork marks requests that produced no response: connection
	// failures, DNS errors, timeouts and cancellation.
	ErrNetwork = errors.New("network error")

	ErrInvalidURL       = errors.New("invalid submission URL")
	ErrNilPayload       = errors.New("payload is nil")
	ErrNoTransport      = errors.New("no transport for URL")
	ErrEncodeFailed     = errors.New("failed to encode request body")
	ErrReadResponse     = errors.New("failed to read response body")
	ErrResponseTooLarge = errors.New("response body exceeds size limit")
	ErrInvalidConfig    = errors.New("invalid transport configuration")
	ErrLoadAWSConfig    = errors.New("failed to load AWS config")
	ErrInvalidSecret    = errors.New("signing secret is required")
	ErrMissingHeaders   = errors.New("missing signature headers")
	ErrSignature        = errors.New("signature mismatch")
	ErrSignatureAge     = errors.New("signature timestamp outside allowed window")
)
