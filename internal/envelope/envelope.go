package envelope

// Application ids tag the semantic type of an envelope's payload. A consumer
// must reject an envelope whose tag does not match the protocol step it is
// handling.
const (
	AppRSAAESMessage = 1 // generic message, length-prefixed payload
	AppEncryptedFile = 2 // file envelope, payload runs to end of buffer
	AppKeyRequest    = 3
	AppKeyResponse   = 4
	AppEncryptedOTP  = 5 // relayed one-time PIN
)

// FingerprintSize is the byte length of a public-key fingerprint.
const FingerprintSize = 32

// Envelope is the decoded hybrid-encryption container. The symmetric key is
// generated fresh for every envelope and never reused; the envelope is
// consumed once by the matching decrypt.
type Envelope struct {
	ApplicationID int
	RSAIndex      int
	Fingerprint   []byte // exactly FingerprintSize bytes
	AESIndex      int
	IV            []byte
	EncryptedKey  []byte // the one-time AES key, RSA-wrapped
	EncryptedData []byte
}

// rawPayload reports whether this application id stores its payload without a
// length prefix, running to the end of the buffer. The framing sub-kind is
// determined entirely by the application id.
func rawPayload(appID int) bool { return appID == AppEncryptedFile }

// KeyRequest asks the companion device to re-wrap an envelope's symmetric key
// for a single-use ephemeral public key. Field order on the wire follows the
// struct order.
type KeyRequest struct {
	Reference    string // caller-supplied tag echoed for display
	EphemeralPub []byte // PKIX DER of the single-use public key
	Fingerprint  []byte // fingerprint of the key the target was wrapped for
	TargetRSA    int    // RSA transformation the target envelope used
	ResponseRSA  int    // RSA transformation requested for the response
	EncryptedKey []byte // the target envelope's RSA-wrapped AES key
}

// KeyResponse carries the symmetric key back, re-wrapped for the ephemeral
// public key from the request.
type KeyResponse struct {
	RSAIndex     int
	EncryptedKey []byte
}
