package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// The current supported version of the sealed blob format stored on disk.
const cacheFormatVersion = 1

const sealAlg = "xchacha20poly1305"

// additional data binds the ciphertext to its purpose.
var sealAD = []byte("tapoctl directory cache v1")

// ErrCorrupted is returned when the blob fails authentication.
var ErrCorrupted = errors.New("cache corrupted or sealed with another key")

// blob is the on-disk JSON structure.
type blob struct {
	V      int    `json:"v"`
	Alg    string `json:"alg"`
	KDF    string `json:"kdf"`
	Salt   []byte `json:"salt,omitempty"`
	N      int    `json:"scrypt_N,omitempty"`
	R      int    `json:"scrypt_r,omitempty"`
	P      int    `json:"scrypt_p,omitempty"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

func seal(keys Keys, raw []byte) ([]byte, error) {
	b := blob{V: cacheFormatVersion, Alg: sealAlg}
	key, err := keys.sealKey(&b)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	b.Nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(b.Nonce); err != nil {
		return nil, err
	}
	b.Cipher = aead.Seal(nil, b.Nonce, raw, sealAD)
	return json.Marshal(b)
}

func open(keys Keys, data []byte) ([]byte, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if b.V > cacheFormatVersion {
		return nil, fmt.Errorf("unsupported cache version %d", b.V)
	}
	if b.Alg != sealAlg {
		return nil, fmt.Errorf("unsupported cache algorithm %q", b.Alg)
	}
	key, err := keys.openKey(b)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(b.Nonce) != aead.NonceSize() {
		return nil, ErrCorrupted
	}
	pt, err := aead.Open(nil, b.Nonce, b.Cipher, sealAD)
	if err != nil {
		return nil, ErrCorrupted
	}
	return pt, nil
}
