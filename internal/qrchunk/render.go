package qrchunk

import (
	qrcode "github.com/skip2/go-qrcode"
)

// RenderPNG renders one chunk's text as a QR symbol in PNG form.
func RenderPNG(c Chunk, size int) ([]byte, error) {
	if size <= 0 {
		size = 512
	}
	return qrcode.Encode(c.Encoded, qrcode.Medium, size)
}

// RenderTerminal renders one chunk as an ANSI half-block QR for terminal
// display. Purely a convenience for the CLI; scanners read it fine on dark
// backgrounds.
func RenderTerminal(c Chunk) (string, error) {
	q, err := qrcode.New(c.Encoded, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
