package envelope

import "errors"

var (
	// ErrInvalidCount indicates a create call with zero claimable shares.
	ErrInvalidCount = errors.New("envelope: share count must be positive")

	// ErrInvalidID indicates a missing or negative envelope id.
	ErrInvalidID = errors.New("envelope: invalid envelope id")

	// ErrNotEnvelopeLog indicates a log that is not an envelope contract event.
	ErrNotEnvelopeLog = errors.New("envelope: log is not an envelope event")
)
