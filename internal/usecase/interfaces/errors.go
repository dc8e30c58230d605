package interfaces

import "errors"

// ErrConcurrentModification is returned by conditional writes whose expected state no
// longer matches the stored row.
var ErrConcurrentModification = errors.New("record changed concurrently")

// Webhook provider errors.
var (
	ErrMalformedPayload  = errors.New("malformed provider payload")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrMissingSecret     = errors.New("provider secret not configured")
)
