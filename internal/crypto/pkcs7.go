package crypto

import (
	"bytes"
	"errors"
	"fmt"
)

const blockSize = 16

// pkcs7Pad extends b to a whole number of 16-byte blocks. A full extra block
// is added when the input is already aligned.
func pkcs7Pad(b []byte) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

// pkcs7Unpad strips and validates padding, failing closed on a pad byte
// outside [1,16], a pad longer than the buffer, or inconsistent pad bytes.
func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, fmt.Errorf("padded data length %d not a positive multiple of %d", len(b), blockSize)
	}
	n := int(b[len(b)-1])
	if n < 1 || n > blockSize || n > len(b) {
		return nil, errors.New("invalid padding byte")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("inconsistent padding")
		}
	}
	return b[:len(b)-n], nil
}
