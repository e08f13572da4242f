package memoseal

import "errors"

var (
	// ErrEmptyText indicates an empty memo was passed to Encode.
	ErrEmptyText = errors.New("memoseal: empty text")

	// ErrEmptyKey indicates an empty (or whitespace-only) seal key.
	ErrEmptyKey = errors.New("memoseal: empty key")

	// ErrInvalidHex indicates a malformed payload hex string.
	ErrInvalidHex = errors.New("memoseal: invalid hex payload")
)
