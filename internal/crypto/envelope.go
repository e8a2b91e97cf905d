package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"

	"tapoctl/internal/domain"
)

var (
	// ErrDecryption is returned when an envelope cannot be decoded, decrypted
	// or unpadded.
	ErrDecryption = errors.New("crypto: decryption failed")
	// ErrMalformedResponse is returned when a decrypted envelope is not JSON.
	ErrMalformedResponse = errors.New("crypto: malformed response")
)

// EncryptEnvelope JSON-encodes payload and encrypts it with AES-128-CBC under
// the session key and IV, returning base64 ciphertext.
func EncryptEnvelope(payload any, key domain.SessionKey) (string, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("crypto: encode payload: %w", err)
	}
	mode, err := blockMode(key, true)
	if err != nil {
		return "", err
	}
	data := pad(plain, mode.BlockSize())
	mode.CryptBlocks(data, data)
	return B64(data), nil
}

// DecryptEnvelope reverses EncryptEnvelope and returns the JSON document.
func DecryptEnvelope(ciphertextB64 string, key domain.SessionKey) (json.RawMessage, error) {
	data, err := DecodeB64(ciphertextB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	mode, err := blockMode(key, false)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data)%mode.BlockSize() != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrDecryption)
	}
	mode.CryptBlocks(data, data)
	plain, err := unpad(data, mode.BlockSize())
	if err != nil {
		return nil, err
	}
	if !json.Valid(plain) {
		return nil, ErrMalformedResponse
	}
	return json.RawMessage(plain), nil
}

func blockMode(key domain.SessionKey, encrypt bool) (cipher.BlockMode, error) {
	block, err := aes.NewCipher(key.Key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	if encrypt {
		return cipher.NewCBCEncrypter(block, key.IV[:]), nil
	}
	return cipher.NewCBCDecrypter(block, key.IV[:]), nil
}

// pad applies PKCS#7 padding. A full block is added when data is aligned.
func pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	padding := int(data[n-1])
	if padding == 0 || padding > blockSize || padding > n {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
	}
	for _, b := range data[n-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
		}
	}
	return data[:n-padding], nil
}
