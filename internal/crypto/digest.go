package crypto

import (
	"crypto/sha1" // #nosec G505 -- fixed by the device login format
	"encoding/hex"
)

// HashIdentity returns the lowercase hex SHA-1 digest of identity as text.
// The device expects base64 of this text, not of the raw digest.
func HashIdentity(identity string) []byte {
	sum := sha1.Sum([]byte(identity))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}
