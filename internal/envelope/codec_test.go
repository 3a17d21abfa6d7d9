package envelope_test

import (
	"bytes"
	"errors"
	"testing"

	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
)

func sampleEnvelope(appID int) envelope.Envelope {
	return envelope.Envelope{
		ApplicationID: appID,
		RSAIndex:      1,
		Fingerprint:   bytes.Repeat([]byte{0xAB}, envelope.FingerprintSize),
		AESIndex:      1,
		IV:            []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		EncryptedKey:  bytes.Repeat([]byte{0xCD}, 256),
		EncryptedData: []byte("ciphertext goes here"),
	}
}

func TestRoundTrip_Message(t *testing.T) {
	want := sampleEnvelope(envelope.AppRSAAESMessage)
	raw, err := envelope.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := envelope.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !envelopeEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRoundTrip_FileRawPayload(t *testing.T) {
	want := sampleEnvelope(envelope.AppEncryptedFile)
	raw, err := envelope.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := envelope.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.EncryptedData, want.EncryptedData) {
		t.Fatalf("file payload mismatch: got %q want %q", got.EncryptedData, want.EncryptedData)
	}
}

func TestRoundTrip_EmptyPayload(t *testing.T) {
	want := sampleEnvelope(envelope.AppRSAAESMessage)
	want.EncryptedData = nil
	raw, err := envelope.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := envelope.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.EncryptedData) != 0 {
		t.Fatalf("want empty payload, got %d bytes", len(got.EncryptedData))
	}
}

func TestDecode_Truncated(t *testing.T) {
	full, err := envelope.Encode(sampleEnvelope(envelope.AppRSAAESMessage))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Every proper prefix of a valid envelope must fail with a DecodeError
	// rather than an out-of-bounds fault. The single-byte buffer from the
	// spec scenario is cut 1.
	for _, cut := range []int{0, 1, 2, 3, 5, 10, len(full) / 2, len(full) - 1} {
		_, err := envelope.Decode(full[:cut])
		var de *domain.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("Decode(%d bytes): want DecodeError, got %v", cut, err)
		}
	}
}

func TestDecode_LengthBeyondBuffer(t *testing.T) {
	// applicationId=1, rsaIdx=1, then a fingerprint length that claims more
	// bytes than remain.
	buf := []byte{0, 1, 0, 1, 0xFF, 0xFF, 0xAA}
	_, err := envelope.Decode(buf)
	var de *domain.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError, got %v", err)
	}
}

func TestDecode_ShortFingerprint(t *testing.T) {
	e := sampleEnvelope(envelope.AppRSAAESMessage)
	e.Fingerprint = []byte{1, 2, 3}
	raw, err := envelope.Encode(e)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := envelope.Decode(raw); err == nil {
		t.Fatal("want error for 3-byte fingerprint, got nil")
	}
}

func TestText_RoundTrip(t *testing.T) {
	body := []byte("some binary body \x00\x01\x02")
	text := envelope.EncodeText(body)
	if !envelope.IsText(text) {
		t.Fatal("IsText(EncodeText(...)) = false")
	}
	got, err := envelope.DecodeText(text)
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("text round trip mismatch: got %q want %q", got, body)
	}
}

func TestText_MissingPrefix(t *testing.T) {
	_, err := envelope.DecodeText("eyJ2ZXJzaW9uIjoxfQ==")
	var de *domain.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError for missing prefix, got %v", err)
	}
	if envelope.IsText(`{"version":1}`) {
		t.Fatal("IsText accepted plain JSON")
	}
}

func TestKeyRequest_RoundTrip(t *testing.T) {
	want := envelope.KeyRequest{
		Reference:    "workspace main",
		EphemeralPub: bytes.Repeat([]byte{0x30}, 294),
		Fingerprint:  bytes.Repeat([]byte{0xEE}, envelope.FingerprintSize),
		TargetRSA:    1,
		ResponseRSA:  2,
		EncryptedKey: bytes.Repeat([]byte{0x11}, 256),
	}
	raw, err := envelope.EncodeKeyRequest(want)
	if err != nil {
		t.Fatalf("EncodeKeyRequest: %v", err)
	}
	got, err := envelope.DecodeKeyRequest(raw)
	if err != nil {
		t.Fatalf("DecodeKeyRequest: %v", err)
	}
	if got.Reference != want.Reference || got.TargetRSA != want.TargetRSA ||
		got.ResponseRSA != want.ResponseRSA ||
		!bytes.Equal(got.EphemeralPub, want.EphemeralPub) ||
		!bytes.Equal(got.Fingerprint, want.Fingerprint) ||
		!bytes.Equal(got.EncryptedKey, want.EncryptedKey) {
		t.Fatalf("key request mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestKeyResponse_WrongApplicationID(t *testing.T) {
	raw, err := envelope.EncodeKeyRequest(envelope.KeyRequest{
		Reference:    "r",
		EphemeralPub: []byte{1},
		Fingerprint:  bytes.Repeat([]byte{0}, envelope.FingerprintSize),
		EncryptedKey: []byte{2},
	})
	if err != nil {
		t.Fatalf("EncodeKeyRequest: %v", err)
	}
	if _, err := envelope.DecodeKeyResponse(raw); !errors.Is(err, domain.ErrHandshakeMismatch) {
		t.Fatalf("want ErrHandshakeMismatch, got %v", err)
	}
}

func envelopeEqual(a, b envelope.Envelope) bool {
	return a.ApplicationID == b.ApplicationID &&
		a.RSAIndex == b.RSAIndex &&
		a.AESIndex == b.AESIndex &&
		bytes.Equal(a.Fingerprint, b.Fingerprint) &&
		bytes.Equal(a.IV, b.IV) &&
		bytes.Equal(a.EncryptedKey, b.EncryptedKey) &&
		bytes.Equal(a.EncryptedData, b.EncryptedData)
}
