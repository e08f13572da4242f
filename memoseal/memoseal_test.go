package memoseal

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestTransformSelfInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := [][]byte{
		[]byte{0x01},
		[]byte("k"),
		[]byte("sepolia-demo-key"),
		[]byte("a much longer key than any of the test inputs below"),
	}
	for _, n := range []int{0, 1, 16, 1000} {
		data := make([]byte, n)
		rng.Read(data)
		for _, key := range keys {
			once := Transform(data, key)
			if len(once) != n {
				t.Fatalf("length changed: have %d want %d", len(once), n)
			}
			twice := Transform(once, key)
			if !bytes.Equal(twice, data) {
				t.Fatalf("double transform did not restore input (n=%d, key=%q)", n, key)
			}
		}
	}
}

func TestTransformEmptyKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty key")
		}
	}()
	Transform([]byte("data"), nil)
}

func TestTransformMixesPositionSalt(t *testing.T) {
	// Two equal input bytes under a single-byte key must not map to the same
	// output byte, otherwise the position salt is not being applied.
	out := Transform([]byte{0x00, 0x00}, []byte{0x00})
	if out[0] == out[1] {
		t.Fatalf("identical outputs for distinct positions: %x", out)
	}
	if out[0] != 0xA5 {
		t.Fatalf("salt(0) mismatch: have %#x want 0xa5", out[0])
	}
	if out[1] != byte(31+0xA5) {
		t.Fatalf("salt(1) mismatch: have %#x want %#x", out[1], byte(31+0xA5))
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	cases := []struct {
		text string
		key  string
	}{
		{"Hello, Sepolia!", "sepolia-demo-key"},
		{"x", "k"},
		{"恭喜发财, 红包拿来!", "lucky-money"},
		{strings.Repeat("lorem ipsum ", 100), "repeating"},
	}
	for _, tc := range cases {
		sealed, err := Encode(tc.text, tc.key)
		if err != nil {
			t.Fatalf("Encode(%q): %v", tc.text, err)
		}
		if !strings.HasPrefix(sealed, "0x") {
			t.Fatalf("missing 0x prefix: %q", sealed)
		}
		if strings.ToLower(sealed) != sealed {
			t.Fatalf("output hex is not lowercase: %q", sealed)
		}
		if len(sealed)-2 != 2*len(tc.text) {
			t.Fatalf("hex length mismatch: have %d digits want %d", len(sealed)-2, 2*len(tc.text))
		}
		got, err := Decode(sealed, tc.key)
		if err != nil {
			t.Fatalf("Decode(%q): %v", sealed, err)
		}
		if got != tc.text {
			t.Fatalf("roundtrip mismatch: have %q want %q", got, tc.text)
		}
	}
}

func TestEncodeRejectsEmptyInputs(t *testing.T) {
	if _, err := Encode("", "key"); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("empty text: have %v want ErrEmptyText", err)
	}
	if _, err := Encode("text", ""); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("empty key: have %v want ErrEmptyKey", err)
	}
	if _, err := Encode("text", "   \t"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("whitespace key: have %v want ErrEmptyKey", err)
	}
}

func TestDecodeRejectsMalformedHex(t *testing.T) {
	cases := []string{"", "0x", "0xabc", "abc", "0xzz", "zz", "0x12g4", "0X1234"}
	for _, in := range cases {
		if _, err := Decode(in, "key"); !errors.Is(err, ErrInvalidHex) {
			t.Fatalf("Decode(%q): have %v want ErrInvalidHex", in, err)
		}
	}
	if _, err := Decode("0x1234", ""); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("empty key: have %v want ErrEmptyKey", err)
	}
}

func TestDecodeAcceptsMixedCaseDigits(t *testing.T) {
	sealed, err := Encode("Hello, Sepolia!", "sepolia-demo-key")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(strings.ToUpper(sealed[2:]), "sepolia-demo-key")
	if err != nil {
		t.Fatalf("Decode upper, no prefix: %v", err)
	}
	if got != "Hello, Sepolia!" {
		t.Fatalf("roundtrip mismatch: %q", got)
	}
}

func TestDecodeWrongKeyGarblesSilently(t *testing.T) {
	sealed, err := Encode("Hello, Sepolia!", "sepolia-demo-key")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(sealed, "not-the-key")
	if err != nil {
		t.Fatalf("wrong-key decode should not fail: %v", err)
	}
	if got == "Hello, Sepolia!" {
		t.Fatalf("wrong key reproduced the plaintext")
	}
}
