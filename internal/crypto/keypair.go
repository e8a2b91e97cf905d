package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"tapoctl/internal/domain"
)

// keyBits matches what devices accept in the handshake.
const keyBits = 1024

var (
	// ErrKeyGeneration is returned when a handshake key pair cannot be made.
	ErrKeyGeneration = errors.New("crypto: key generation failed")
	// ErrMalformedKeyMaterial is returned when the device's key blob cannot be
	// decrypted or does not hold exactly key+IV.
	ErrMalformedKeyMaterial = errors.New("crypto: malformed key material")
)

// KeyPair is a single-use handshake key pair.
type KeyPair struct {
	private *rsa.PrivateKey
	// PublicPEM is the SPKI public key as sent in the handshake request.
	PublicPEM string
}

// GenerateKeyPair returns a fresh RSA key pair with its PEM public key.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return &KeyPair{private: priv, PublicPEM: string(block)}, nil
}

// Discard drops the private key. A discarded pair cannot derive keys.
func (kp *KeyPair) Discard() {
	kp.private = nil
}

// DeriveSessionKey decrypts the device's base64 blob with the private key and
// splits the 32-byte plaintext into key and IV.
func DeriveSessionKey(blobB64 string, kp *KeyPair) (domain.SessionKey, error) {
	var out domain.SessionKey
	if kp == nil || kp.private == nil {
		return out, fmt.Errorf("%w: no private key", ErrMalformedKeyMaterial)
	}
	blob, err := DecodeB64(blobB64)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformedKeyMaterial, err)
	}
	plain, err := rsa.DecryptPKCS1v15(nil, kp.private, blob)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformedKeyMaterial, err)
	}
	defer Wipe(plain)
	if len(plain) != 2*domain.SessionKeySize {
		return out, fmt.Errorf("%w: want %d bytes, got %d",
			ErrMalformedKeyMaterial, 2*domain.SessionKeySize, len(plain))
	}
	copy(out.Key[:], plain[:domain.SessionKeySize])
	copy(out.IV[:], plain[domain.SessionKeySize:])
	return out, nil
}

// SealSessionKey is the device side of DeriveSessionKey: it encrypts key and
// IV to the PEM public key from a handshake request.
func SealSessionKey(publicPEM string, key domain.SessionKey) (string, error) {
	block, _ := pem.Decode([]byte(publicPEM))
	if block == nil {
		return "", fmt.Errorf("%w: no PEM block", ErrMalformedKeyMaterial)
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedKeyMaterial, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("%w: not an RSA key", ErrMalformedKeyMaterial)
	}
	plain := make([]byte, 0, 2*domain.SessionKeySize)
	plain = append(plain, key.Key[:]...)
	plain = append(plain, key.IV[:]...)
	defer Wipe(plain)
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, plain)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedKeyMaterial, err)
	}
	return B64(ct), nil
}
