package qrchunk_test

import (
	"strings"
	"testing"

	"vaultlink/internal/qrchunk"
)

func TestSplitJoin_RoundTrip(t *testing.T) {
	const size = 200
	for _, n := range []int{0, 1, size - 1, size, size + 1, 2*size - 1, 2 * size, 1000} {
		msg := strings.Repeat("m", n)
		chunks, err := qrchunk.Split(msg, size)
		if err != nil {
			t.Fatalf("Split(len %d): %v", n, err)
		}
		got, err := qrchunk.Join(chunks)
		if err != nil {
			t.Fatalf("Join(len %d): %v", n, err)
		}
		if got != msg {
			t.Fatalf("round trip mismatch at length %d: got %d chars", n, len(got))
		}
	}
}

func TestSplit_Scenario450(t *testing.T) {
	// 450 chars at size 200: exactly 3 chunks with data lengths 200, 200, 50
	// and the last padded back up to 200.
	chunks, err := qrchunk.Split(strings.Repeat("x", 450), 200)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	wantLens := []int{200, 200, 50}
	for i, c := range chunks {
		if c.ChunkNo != i+1 || c.TotalChunks != 3 {
			t.Fatalf("chunk %d numbered %d/%d", i, c.ChunkNo, c.TotalChunks)
		}
		if c.DataLength != wantLens[i] {
			t.Fatalf("chunk %d data length %d, want %d", i, c.DataLength, wantLens[i])
		}
		if len(c.Data) != 200 {
			t.Fatalf("chunk %d padded data is %d chars, want 200", i, len(c.Data))
		}
		if c.TransactionID != chunks[0].TransactionID {
			t.Fatal("transaction id differs across chunks")
		}
	}
	if tail := chunks[2].Data[50:]; strings.Trim(tail, "\x00") != "" {
		t.Fatal("final chunk not NUL-padded")
	}
}

func TestJoin_OutOfOrder(t *testing.T) {
	msg := strings.Repeat("ab", 250)
	chunks, err := qrchunk.Split(msg, 200)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	shuffled := []qrchunk.Chunk{chunks[2], chunks[0], chunks[1]}
	got, err := qrchunk.Join(shuffled)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got != msg {
		t.Fatal("out-of-order join mismatch")
	}
}

func TestJoin_FailsClosed(t *testing.T) {
	a, err := qrchunk.Split(strings.Repeat("a", 500), 200)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	b, err := qrchunk.Split(strings.Repeat("b", 500), 200)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if _, err := qrchunk.Join([]qrchunk.Chunk{a[0], a[1]}); err == nil {
		t.Fatal("missing chunk: want error")
	}
	if _, err := qrchunk.Join([]qrchunk.Chunk{a[0], b[1], a[2]}); err == nil {
		t.Fatal("foreign transaction id: want error")
	}
	dup := []qrchunk.Chunk{a[0], a[1], a[1]}
	if _, err := qrchunk.Join(dup); err == nil {
		t.Fatal("duplicate chunk number: want error")
	}
	bad := append([]qrchunk.Chunk(nil), a...)
	bad[2].DataLength = 500
	if _, err := qrchunk.Join(bad); err == nil {
		t.Fatal("data length beyond payload: want error")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	chunks, err := qrchunk.Split(strings.Repeat("z", 250), 200)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	parsed := make([]qrchunk.Chunk, 0, len(chunks))
	for _, c := range chunks {
		p, err := qrchunk.Parse(c.Encoded)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		parsed = append(parsed, p)
	}
	got, err := qrchunk.Join(parsed)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got != strings.Repeat("z", 250) {
		t.Fatal("parse round trip mismatch")
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"", "a\tb\tc", "txn\tx\t3\t200\tdata", "txn\t1\t3\tnope\tdata"} {
		if _, err := qrchunk.Parse(in); err == nil {
			t.Errorf("Parse(%q): want error", in)
		}
	}
}
