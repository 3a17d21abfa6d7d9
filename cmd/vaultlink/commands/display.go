package commands

import (
	"fmt"

	"vaultlink/internal/domain"
	"vaultlink/internal/qrchunk"
)

// displayMessage renders an outbound envelope message for the companion:
// QR symbols chunk by chunk, or plain chunk lines when the device prefers a
// text hand-off. Printing all chunks at once replaces the cyclic on-screen
// timer a browser would use; chunk numbers are explicit, so scan order does
// not matter.
func displayMessage(text string, chunkSize int) error {
	var caps domain.DeviceCapabilities = termCapabilities{}

	chunks, err := qrchunk.Split(text, chunkSize)
	if err != nil {
		return err
	}
	if caps.PrefersHandOff() {
		for _, c := range chunks {
			fmt.Println(c.Encoded)
		}
		return nil
	}
	for _, c := range chunks {
		fmt.Printf("— chunk %d/%d —\n", c.ChunkNo, c.TotalChunks)
		qr, err := qrchunk.RenderTerminal(c)
		if err != nil {
			return err
		}
		fmt.Println(qr)
	}
	return nil
}
