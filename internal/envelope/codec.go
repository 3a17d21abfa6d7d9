package envelope

import (
	"encoding/binary"
	"fmt"

	"vaultlink/internal/domain"
)

const maxFieldLen = 1<<16 - 1

// Encode serializes e to the binary wire form. The payload framing
// (length-prefixed vs raw) follows e.ApplicationID.
func Encode(e Envelope) ([]byte, error) {
	var w wireWriter
	w.u16(e.ApplicationID)
	w.u16(e.RSAIndex)
	w.bytes(e.Fingerprint)
	w.u16(e.AESIndex)
	w.bytes(e.IV)
	w.bytes(e.EncryptedKey)
	if rawPayload(e.ApplicationID) {
		w.raw(e.EncryptedData)
	} else {
		w.bytes(e.EncryptedData)
	}
	return w.finish()
}

// Decode parses the binary wire form. Every length read is bounds-checked
// against the remaining buffer; malformed input yields a DecodeError, never a
// read past the end.
func Decode(buf []byte) (Envelope, error) {
	r := wireReader{buf: buf}
	var e Envelope
	e.ApplicationID = r.u16("applicationId")
	e.RSAIndex = r.u16("rsaTransformation")
	e.Fingerprint = r.bytes("fingerprint")
	e.AESIndex = r.u16("aesTransformation")
	e.IV = r.bytes("iv")
	e.EncryptedKey = r.bytes("encryptedAesKey")
	if r.err == nil && rawPayload(e.ApplicationID) {
		e.EncryptedData = r.rest()
	} else {
		e.EncryptedData = r.bytes("encryptedData")
	}
	if r.err != nil {
		return Envelope{}, r.err
	}
	if len(e.Fingerprint) != FingerprintSize {
		return Envelope{}, &domain.DecodeError{
			Field: "fingerprint",
			Err:   fmt.Errorf("want %d bytes, got %d", FingerprintSize, len(e.Fingerprint)),
		}
	}
	return e, nil
}

// EncodeKeyRequest serializes a key request with applicationId AppKeyRequest.
func EncodeKeyRequest(q KeyRequest) ([]byte, error) {
	var w wireWriter
	w.u16(AppKeyRequest)
	w.bytes([]byte(q.Reference))
	w.bytes(q.EphemeralPub)
	w.bytes(q.Fingerprint)
	w.u16(q.TargetRSA)
	w.u16(q.ResponseRSA)
	w.bytes(q.EncryptedKey)
	return w.finish()
}

// DecodeKeyRequest parses a key request, rejecting any other application id.
func DecodeKeyRequest(buf []byte) (KeyRequest, error) {
	r := wireReader{buf: buf}
	appID := r.u16("applicationId")
	var q KeyRequest
	q.Reference = string(r.bytes("reference"))
	q.EphemeralPub = r.bytes("ephemeralPublicKey")
	q.Fingerprint = r.bytes("fingerprint")
	q.TargetRSA = r.u16("targetRsaTransformation")
	q.ResponseRSA = r.u16("responseRsaTransformation")
	q.EncryptedKey = r.bytes("encryptedAesKey")
	if r.err != nil {
		return KeyRequest{}, r.err
	}
	if appID != AppKeyRequest {
		return KeyRequest{}, domain.ErrHandshakeMismatch
	}
	return q, nil
}

// EncodeKeyResponse serializes a key response with applicationId AppKeyResponse.
func EncodeKeyResponse(p KeyResponse) ([]byte, error) {
	var w wireWriter
	w.u16(AppKeyResponse)
	w.u16(p.RSAIndex)
	w.bytes(p.EncryptedKey)
	return w.finish()
}

// DecodeKeyResponse parses a key response, rejecting any other application id.
func DecodeKeyResponse(buf []byte) (KeyResponse, error) {
	r := wireReader{buf: buf}
	appID := r.u16("applicationId")
	var p KeyResponse
	p.RSAIndex = r.u16("rsaTransformation")
	p.EncryptedKey = r.bytes("encryptedAesKey")
	if r.err != nil {
		return KeyResponse{}, r.err
	}
	if appID != AppKeyResponse {
		return KeyResponse{}, domain.ErrHandshakeMismatch
	}
	return p, nil
}

// wireWriter builds the big-endian framing. Length overflow is recorded and
// reported once from finish.
type wireWriter struct {
	out []byte
	err error
}

func (w *wireWriter) u16(v int) {
	if w.err == nil && (v < 0 || v > maxFieldLen) {
		w.err = fmt.Errorf("u16 value %d out of range", v)
		return
	}
	w.out = binary.BigEndian.AppendUint16(w.out, uint16(v))
}

func (w *wireWriter) bytes(b []byte) {
	if w.err == nil && len(b) > maxFieldLen {
		w.err = fmt.Errorf("field of %d bytes exceeds length prefix", len(b))
		return
	}
	w.u16(len(b))
	w.out = append(w.out, b...)
}

func (w *wireWriter) raw(b []byte) { w.out = append(w.out, b...) }

func (w *wireWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.out, nil
}

// wireReader consumes the framing, failing closed on the first short read.
type wireReader struct {
	buf []byte
	off int
	err error
}

func (r *wireReader) u16(field string) int {
	if r.err != nil {
		return 0
	}
	if r.off+2 > len(r.buf) {
		r.err = &domain.DecodeError{Field: field, Err: fmt.Errorf("truncated at offset %d", r.off)}
		return 0
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return int(v)
}

func (r *wireReader) bytes(field string) []byte {
	n := r.u16(field)
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = &domain.DecodeError{
			Field: field,
			Err:   fmt.Errorf("length %d exceeds %d remaining bytes", n, len(r.buf)-r.off),
		}
		return nil
	}
	b := append([]byte(nil), r.buf[r.off:r.off+n]...)
	r.off += n
	return b
}

func (r *wireReader) rest() []byte {
	if r.err != nil {
		return nil
	}
	b := append([]byte(nil), r.buf[r.off:]...)
	r.off = len(r.buf)
	return b
}
