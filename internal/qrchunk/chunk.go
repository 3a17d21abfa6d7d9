package qrchunk

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultChunkSize is the payload size a single QR symbol carries
// comfortably at medium error correction.
const DefaultChunkSize = 200

// Chunk is one QR frame of a chunked message.
type Chunk struct {
	TransactionID string
	ChunkNo       int // 1-based
	TotalChunks   int
	DataLength    int    // true un-padded length of Data
	Data          string // NUL-padded to the chunk size on the final chunk
	Encoded       string // the tab-joined text rendered into the QR symbol
}

// Split cuts message into ceil(len/chunkSize) chunks sharing one random
// transaction id. A non-positive chunkSize falls back to DefaultChunkSize.
// An empty message yields no chunks.
func Split(message string, chunkSize int) ([]Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	total := (len(message) + chunkSize - 1) / chunkSize
	if total == 0 {
		return nil, nil
	}
	txn, err := transactionID()
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, total)
	for i := 0; i < total; i++ {
		part := message[i*chunkSize : min((i+1)*chunkSize, len(message))]
		c := Chunk{
			TransactionID: txn,
			ChunkNo:       i + 1,
			TotalChunks:   total,
			DataLength:    len(part),
			Data:          part + strings.Repeat("\x00", chunkSize-len(part)),
		}
		c.Encoded = encode(c)
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// Join reassembles the original message. Chunks may arrive in any order; it
// sorts by chunk number, truncates each chunk's data to its own DataLength,
// and fails closed on a foreign transaction id, disagreeing totals, or a
// missing or duplicate chunk number.
func Join(chunks []Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}
	sorted := append([]Chunk(nil), chunks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ChunkNo < sorted[j].ChunkNo })

	txn := sorted[0].TransactionID
	total := sorted[0].TotalChunks
	if total != len(sorted) {
		return "", fmt.Errorf("have %d chunks, header says %d", len(sorted), total)
	}

	var b strings.Builder
	for i, c := range sorted {
		if c.TransactionID != txn {
			return "", fmt.Errorf("chunk %d belongs to transaction %s, not %s", c.ChunkNo, c.TransactionID, txn)
		}
		if c.TotalChunks != total {
			return "", fmt.Errorf("chunk %d disagrees on total (%d vs %d)", c.ChunkNo, c.TotalChunks, total)
		}
		if c.ChunkNo != i+1 {
			return "", fmt.Errorf("missing chunk %d", i+1)
		}
		if c.DataLength < 0 || c.DataLength > len(c.Data) {
			return "", fmt.Errorf("chunk %d data length %d exceeds payload", c.ChunkNo, c.DataLength)
		}
		b.WriteString(c.Data[:c.DataLength])
	}
	return b.String(), nil
}

// Parse reads one chunk back from its rendered text (the paste path).
func Parse(encoded string) (Chunk, error) {
	parts := strings.SplitN(encoded, "\t", 5)
	if len(parts) != 5 {
		return Chunk{}, fmt.Errorf("chunk text has %d fields, want 5", len(parts))
	}
	no, err := strconv.Atoi(parts[1])
	if err != nil {
		return Chunk{}, fmt.Errorf("chunk number: %w", err)
	}
	total, err := strconv.Atoi(parts[2])
	if err != nil {
		return Chunk{}, fmt.Errorf("total chunks: %w", err)
	}
	length, err := strconv.Atoi(parts[3])
	if err != nil {
		return Chunk{}, fmt.Errorf("data length: %w", err)
	}
	c := Chunk{
		TransactionID: parts[0],
		ChunkNo:       no,
		TotalChunks:   total,
		DataLength:    length,
		Data:          parts[4],
		Encoded:       encoded,
	}
	return c, nil
}

func encode(c Chunk) string {
	return strings.Join([]string{
		c.TransactionID,
		strconv.Itoa(c.ChunkNo),
		strconv.Itoa(c.TotalChunks),
		strconv.Itoa(c.DataLength),
		c.Data,
	}, "\t")
}

// transactionID returns a short random hex tag.
func transactionID() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
