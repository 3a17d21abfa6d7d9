package envelope

import (
	"encoding/base64"
	"errors"
	"strings"

	"vaultlink/internal/domain"
)

// TextPrefix is the fixed literal that marks a textual envelope. A stored
// vault blob starting with it is an encrypted workspace; anything else is
// treated as plain data.
const TextPrefix = "VLNK1:"

// EncodeText wraps the binary body for printable contexts: QR text,
// clipboard, file-as-text. Binary file export uses Encode directly.
func EncodeText(body []byte) string {
	return TextPrefix + base64.StdEncoding.EncodeToString(body)
}

// DecodeText strips the prefix and base64. Input lacking the prefix is
// rejected; this is how the loader tells an encrypted blob from plain JSON.
func DecodeText(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), TextPrefix)
	if !ok {
		return nil, &domain.DecodeError{Field: "prefix", Err: errors.New("missing " + TextPrefix + " tag")}
	}
	body, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		return nil, &domain.DecodeError{Field: "base64", Err: err}
	}
	return body, nil
}

// IsText reports whether s carries the textual envelope prefix.
func IsText(s string) bool { return strings.HasPrefix(strings.TrimSpace(s), TextPrefix) }
