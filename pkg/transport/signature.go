package transport

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderSignature = "X-Formkit-Signature"
	HeaderTimestamp = "X-Formkit-Timestamp"
	HeaderID        = "X-Formkit-Submission"
)

// Signature authenticates a submission body.
// The signed string is "<unix timestamp>.<body>".
type Signature struct {
	Value     string
	Timestamp int64
	ID        string
}

// Apply writes the signature headers to h.
func (s Signature) Apply(h http.Header) {
	h.Set(HeaderSignature, s.Value)
	h.Set(HeaderTimestamp, strconv.FormatInt(s.Timestamp, 10))
	if s.ID != "" {
		h.Set(HeaderID, s.ID)
	}
}

// Sign signs body with secret at the current time. An empty id gets a
// fresh UUID.
func Sign(secret, id string, body []byte) (Signature, error) {
	if secret == "" {
		return Signature{}, ErrInvalidSecret
	}
	if id == "" {
		id = uuid.NewString()
	}
	ts := time.Now().Unix()
	return Signature{Value: digest(secret, ts, body), Timestamp: ts, ID: id}, nil
}

// Verify checks sig against body. maxAge <= 0 disables the timestamp window.
func Verify(secret string, body []byte, sig Signature, maxAge time.Duration) error {
	if secret == "" {
		return ErrInvalidSecret
	}
	if sig.Value == "" || sig.Timestamp == 0 {
		return ErrMissingHeaders
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(sig.Timestamp, 0))
		// one minute of clock skew
		if age > maxAge || age < -time.Minute {
			return fmt.Errorf("%w: age %v", ErrSignatureAge, age)
		}
	}

	expected := digest(secret, sig.Timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(sig.Value)) {
		return ErrSignature
	}
	return nil
}

// SignatureFromHeader reads the signature headers.
func SignatureFromHeader(h http.Header) (Signature, error) {
	sig := Signature{
		Value: h.Get(HeaderSignature),
		ID:    h.Get(HeaderID),
	}
	raw := h.Get(HeaderTimestamp)
	if sig.Value == "" || raw == "" {
		return Signature{}, ErrMissingHeaders
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: invalid timestamp %q", ErrMissingHeaders, raw)
	}
	sig.Timestamp = ts
	return sig, nil
}

func digest(secret string, ts int64, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(strconv.FormatInt(ts, 10)))
	h.Write([]byte{'.'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
