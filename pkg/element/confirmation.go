package element

import (
	"encoding/base64"
	"fmt"
)

// ConfirmationName derives the opaque key used by confirmation and email
// templates to reference e. It is the standard base64 encoding of e.Name and
// DecodeConfirmationName reverses it exactly.
func ConfirmationName(e Element) string {
	return base64.StdEncoding.EncodeToString([]byte(e.Name))
}

// DecodeConfirmationName returns the element name encoded in id.
func DecodeConfirmationName(id string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return "", fmt.Errorf("element: decode confirmation name %q: %w", id, err)
	}
	return string(raw), nil
}
