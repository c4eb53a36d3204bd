package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	t.Run("length and alphabet", func(t *testing.T) {
		const size = 16
		s, err := MakeRandHexString(size)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := len(s), size*2; got != want {
			t.Fatalf("length = %d, want %d", got, want)
		}
		if _, err := hex.DecodeString(s); err != nil {
			t.Fatalf("not valid hex: %v", err)
		}
	})

	t.Run("zero size", func(t *testing.T) {
		s, err := MakeRandHexString(0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != "" {
			t.Fatalf("got %q, want empty string", s)
		}
	})

	t.Run("two calls differ", func(t *testing.T) {
		a, err := MakeRandHexString(32)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := MakeRandHexString(32)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a == b {
			t.Fatalf("two 32-byte random strings collided: %s", a)
		}
	})
}
