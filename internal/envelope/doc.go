// Package envelope implements the binary hybrid-encryption container and its
// textual transport form. It is pure framing: no cryptography happens here.
//
// # Wire layout
//
// Big-endian throughout. Every enumerated selector is an unsigned 16-bit
// integer; every variable-length field is prefixed by an unsigned 16-bit
// length, with one exception: the payload of a file-kind envelope runs raw to
// the end of the buffer.
//
//	applicationId        u16
//	rsaTransformationIdx u16
//	fingerprint          u16 len + bytes
//	aesTransformationIdx u16
//	iv                   u16 len + bytes
//	encryptedAesKey      u16 len + bytes
//	encryptedData        u16 len + bytes, or raw to end (file envelopes)
//
// Key-request and key-response messages are envelopes too, with their own
// application ids and field orderings (see KeyRequest and KeyResponse).
//
// # Textual transport
//
// Contexts that need printable data (QR text, clipboard paste-back, file as
// text) wrap the binary body as a fixed literal prefix plus standard base64.
// DecodeText rejects input lacking the prefix.
package envelope
