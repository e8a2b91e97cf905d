package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/pem"
)

// Fingerprint is a short hex digest of a PEM public key for logs. The DER
// body is hashed so armour and line endings do not change the result; input
// that is not PEM is hashed as is.
func Fingerprint(publicPEM string) string {
	data := []byte(publicPEM)
	if block, _ := pem.Decode(data); block != nil {
		data = block.Bytes
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:10])
}
