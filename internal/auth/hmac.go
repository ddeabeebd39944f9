// Package auth implements the shared-secret request signature check that
// gates the reasoning endpoint.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// SignatureHeader is the HTTP header carrying the request signature.
const SignatureHeader = "X-Signature"

var (
	// ErrMissingSignature is returned when the signature header is absent.
	ErrMissingSignature = errors.New("missing signature")

	// ErrBadSignature is returned when the signature does not match the body.
	ErrBadSignature = errors.New("bad signature")
)

// Verifier checks request integrity via HMAC-SHA256 over the raw body.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier using the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the hex-encoded HMAC-SHA256 of body under the shared secret.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the given hex signature against the raw request body.
// It must be called before any parsing of the body.
func (v *Verifier) Verify(body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}

	expected := v.Sign(body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
