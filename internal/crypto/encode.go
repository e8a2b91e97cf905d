package crypto

import "encoding/base64"

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// DecodeB64 decodes standard base64.
func DecodeB64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// DecodeText decodes a base64-obfuscated text field. Values that are not
// valid base64 are returned unchanged.
func DecodeText(s string) string {
	b, err := DecodeB64(s)
	if err != nil {
		return s
	}
	return string(b)
}
