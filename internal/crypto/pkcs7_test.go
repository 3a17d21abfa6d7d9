package crypto

import (
	"bytes"
	"testing"
)

func TestPKCS7_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 100} {
		in := bytes.Repeat([]byte{0x5A}, n)
		padded := pkcs7Pad(in)
		if len(padded)%blockSize != 0 {
			t.Fatalf("len(pad(%d)) = %d, not block aligned", n, len(padded))
		}
		out, err := pkcs7Unpad(padded)
		if err != nil {
			t.Fatalf("unpad(pad(%d)): %v", n, err)
		}
		if !bytes.Equal(out, in) {
			t.Fatalf("round trip mismatch at length %d", n)
		}
	}
}

func TestPKCS7_AlignedInputGetsFullBlock(t *testing.T) {
	padded := pkcs7Pad(bytes.Repeat([]byte{1}, 16))
	if len(padded) != 32 {
		t.Fatalf("len = %d, want 32", len(padded))
	}
	if padded[31] != 16 {
		t.Fatalf("pad byte = %d, want 16", padded[31])
	}
}

func TestPKCS7_UnpadFailsClosed(t *testing.T) {
	cases := map[string][]byte{
		"empty":            {},
		"unaligned":        bytes.Repeat([]byte{1}, 17),
		"pad byte zero":    append(bytes.Repeat([]byte{1}, 15), 0),
		"pad byte over 16": append(bytes.Repeat([]byte{1}, 15), 17),
		"inconsistent":     append(bytes.Repeat([]byte{3}, 14), 2, 3),
	}
	for name, in := range cases {
		if _, err := pkcs7Unpad(in); err == nil {
			t.Errorf("%s: want error, got nil", name)
		}
	}
}
