package light

import "errors"

// Sentinel errors for state decoding and persistence.
// Wrapped errors carry context; use errors.Is for comparison.
var (
	// ErrMalformedPayload indicates a transport payload that is not a
	// JSON object. The whole command is dropped.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnknownEffect indicates an effect name outside the known set.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrNoSnapshot indicates that no state snapshot has been persisted
	// yet. Callers fall back to configured defaults.
	ErrNoSnapshot = errors.New("no snapshot stored")

	// ErrInvalidSnapshot indicates a persisted snapshot that can no
	// longer be decoded. Callers fall back to configured defaults.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
