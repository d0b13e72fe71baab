package wire

import (
	"errors"
	"fmt"
)

// Sentinel errors for adapter and decoder operations.
// All use prefix "wire:" for identification. Callers should use errors.Is/errors.As.
var (
	// ErrMissingCredential signals an absent or empty auth value at
	// request-build time. Adapters fail with it before any serialization.
	ErrMissingCredential = errors.New("wire: provider credential is missing or empty")

	// ErrInvalidTurnSequence signals a conversation that violates a
	// provider's structural preconditions, e.g. a tool result that
	// references no previously issued tool call.
	ErrInvalidTurnSequence = errors.New("wire: conversation violates provider turn ordering rules")

	// ErrInvalidEnvelope signals a response body that is not valid JSON for
	// the declared provider.
	ErrInvalidEnvelope = errors.New("wire: response body is not valid JSON")

	// ErrMissingField signals that a decoder's happy-path selector found no
	// node where the generated text should live. Decoders never substitute
	// empty text for an absent field.
	ErrMissingField = errors.New("wire: expected response field is absent")

	// ErrEmptyResponse signals a response whose text selector resolved but
	// yielded no content. An empty extraction is never reported as success.
	ErrEmptyResponse = errors.New("wire: response contains no text content")

	ErrUnknownProvider = errors.New("wire: unknown provider")
	ErrUnknownModel    = errors.New("wire: unknown model")
)

// MissingFieldError wraps ErrMissingField with the provider tag and the
// selector path that came up empty. Use errors.Is(err, ErrMissingField) and
// errors.As(err, &fieldErr) to inspect.
type MissingFieldError struct {
	Provider string
	Path     string
}

// Error implements error.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("wire: %s response missing %q", e.Provider, e.Path)
}

// Unwrap returns ErrMissingField for errors.Is/errors.As.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Compile-time check that MissingFieldError implements error.
var _ error = (*MissingFieldError)(nil)
