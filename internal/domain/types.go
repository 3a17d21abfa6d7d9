package domain

import "encoding/json"

// ProtectionMode selects how the vault is protected at rest.
type ProtectionMode string

const (
	ProtectionNone    ProtectionMode = "none"    // plaintext local persistence
	ProtectionEncrypt ProtectionMode = "encrypt" // full-vault envelope, companion handshake to unlock
	ProtectionPin     ProtectionMode = "pin"     // quick local lock via a relayed PIN
)

// Entry is one credential record. The editing UI around entries is out of
// scope here; the lock machinery only needs the vault to be a well-formed
// JSON document it can serialize and validate.
type Entry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username,omitempty"`
	Password string   `json:"password,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Vault is the decrypted workspace document.
type Vault struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// EmptyVault returns a fresh vault at the current document version.
func EmptyVault() Vault { return Vault{Version: 1, Entries: []Entry{}} }

// Marshal serializes the vault to its canonical JSON form.
func (v Vault) Marshal() ([]byte, error) { return json.Marshal(v) }

// ParseVault validates that raw is a well-formed vault document. Used by the
// unlock paths to confirm a decryption actually produced application data.
func ParseVault(raw []byte) (Vault, error) {
	var v Vault
	if err := json.Unmarshal(raw, &v); err != nil {
		return Vault{}, err
	}
	if v.Entries == nil {
		v.Entries = []Entry{}
	}
	return v, nil
}

// KeyRequestContext is the persisted half of an in-flight unlock handshake:
// the single-use RSA keypair and the envelope being unlocked. It exists so
// the handshake can survive exactly one page reload; the store that holds it
// deletes it on first read.
type KeyRequestContext struct {
	Reference     string `cbor:"1,keyasint"`
	EphemeralPriv []byte `cbor:"2,keyasint"` // PKCS#1 DER
	TargetBlob    string `cbor:"3,keyasint"` // textual envelope being unlocked
	CreatedUnix   int64  `cbor:"4,keyasint"`
}
