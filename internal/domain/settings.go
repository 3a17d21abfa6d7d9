package domain

// Settings holds the workspace protection configuration. Persisted as TOML in
// the home directory; zero values are filled in by Normalize.
type Settings struct {
	Mode ProtectionMode `toml:"mode"`

	// Transformation indices used when constructing new envelopes. Unknown
	// values here fall back to the defaults (local settings are trusted
	// input); indices read off the wire never do.
	RSATransformation int `toml:"rsa_transformation"`
	AESTransformation int `toml:"aes_transformation"`
	AESKeyBytes       int `toml:"aes_key_bytes"`

	PBKDF2Iterations int `toml:"pbkdf2_iterations"`
	ChunkSize        int `toml:"chunk_size"`

	// CompanionPublicKey is the PEM-encoded RSA public key of the trusted
	// companion device. Envelopes and relayed PINs are addressed to it.
	CompanionPublicKey string `toml:"companion_public_key"`
}

const (
	DefaultAESKeyBytes      = 32
	DefaultPBKDF2Iterations = 65535
	DefaultChunkSize        = 200
)

// Normalize fills unset numeric fields with defaults and returns the result.
func (s Settings) Normalize() Settings {
	if s.Mode == "" {
		s.Mode = ProtectionNone
	}
	if s.AESKeyBytes != 16 && s.AESKeyBytes != 24 && s.AESKeyBytes != 32 {
		s.AESKeyBytes = DefaultAESKeyBytes
	}
	if s.PBKDF2Iterations < DefaultPBKDF2Iterations {
		s.PBKDF2Iterations = DefaultPBKDF2Iterations
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	return s
}

// DeviceCapabilities is supplied by the UI layer. The protocol core never
// branches on device identity itself; a constrained device may prefer an app
// hand-off over cycling QR frames on screen.
type DeviceCapabilities interface {
	PrefersHandOff() bool
}
