// Package memoseal obfuscates short red-envelope memos before they are
// embedded in transaction payload data.
//
// The transform is a keyed, position-salted XOR over the raw bytes. It is
// length-preserving and self-inverse, and it is obfuscation only: there is
// no nonce, no authentication tag, and the position salt is a public
// function of the byte index. Anything needing confidentiality or integrity
// must not use this package.
package memoseal

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// saltByte is the public per-position salt mixed into the keystream. It
// depends only on the absolute index, so both passes of the transform
// recompute it identically.
func saltByte(i int) byte {
	return byte(i*31 + 0xA5)
}

// Transform applies the keyed XOR mapping to data and returns a new slice of
// the same length. Applying it twice with the same key restores the input:
//
//	Transform(Transform(b, key), key) == b
//
// The key must be non-empty.
func Transform(data, key []byte) []byte {
	if len(key) == 0 {
		panic("memoseal: empty key")
	}
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)] ^ saltByte(i)
	}
	return out
}

// Encode obfuscates text with key and renders the result as a 0x-prefixed
// lowercase hex string. The output byte length equals the UTF-8 byte length
// of text. Empty text and empty (or whitespace-only) keys are rejected.
func Encode(text, key string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	k := strings.TrimSpace(key)
	if k == "" {
		return "", ErrEmptyKey
	}
	return "0x" + hex.EncodeToString(Transform([]byte(text), []byte(k))), nil
}

// Decode reverses Encode. The input must be well-formed hex, optionally
// 0x-prefixed, with an even, non-zero number of digits.
//
// Decoding foreign ciphertext or decoding with the wrong key does not fail:
// the transform carries no integrity check, so the result is simply garbled
// text. Callers that care should inspect the output themselves.
func Decode(input, key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", ErrEmptyKey
	}
	raw, err := DecodeHex(input)
	if err != nil {
		return "", err
	}
	return string(Transform(raw, []byte(k))), nil
}

// DecodeHex validates and decodes a payload hex string into raw bytes.
func DecodeHex(input string) ([]byte, error) {
	s := strings.TrimPrefix(input, "0x")
	if len(s) == 0 || len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: want a non-empty, even number of hex digits, got %d", ErrInvalidHex, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return raw, nil
}
