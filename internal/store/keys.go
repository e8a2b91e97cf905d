package store

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// Keyring coordinates of the cache key.
const (
	KeyringService = "tapoctl"
	KeyringAccount = "cache-key"
)

const (
	kdfKeyring = "keyring"
	kdfScrypt  = "scrypt"
)

// ErrKeyUnavailable is returned when no sealing key can be obtained.
var ErrKeyUnavailable = errors.New("cache key unavailable")

// Keys selects where the sealing key comes from. With a Passphrase the key
// is derived with scrypt; otherwise it lives in the OS keyring.
type Keys struct {
	Passphrase string
	Service    string
	Account    string
}

func (k Keys) service() string {
	if k.Service == "" {
		return KeyringService
	}
	return k.Service
}

func (k Keys) account() string {
	if k.Account == "" {
		return KeyringAccount
	}
	return k.Account
}

// sealKey returns a key for a new blob and records how to rederive it.
func (k Keys) sealKey(b *blob) ([]byte, error) {
	if k.Passphrase == "" {
		b.KDF = kdfKeyring
		return k.keyringKey(true)
	}
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	b.KDF = kdfScrypt
	b.Salt = salt[:]
	b.N, b.R, b.P = scryptParamsDefault()
	return scrypt.Key([]byte(k.Passphrase), b.Salt, b.N, b.R, b.P, chacha20poly1305.KeySize)
}

// openKey rederives the key a blob was sealed with.
func (k Keys) openKey(b blob) ([]byte, error) {
	switch b.KDF {
	case kdfKeyring:
		return k.keyringKey(false)
	case kdfScrypt:
		if k.Passphrase == "" {
			return nil, fmt.Errorf("%w: cache sealed with a passphrase", ErrKeyUnavailable)
		}
		return scrypt.Key([]byte(k.Passphrase), b.Salt, b.N, b.R, b.P, chacha20poly1305.KeySize)
	default:
		return nil, fmt.Errorf("unknown cache kdf %q", b.KDF)
	}
}

func (k Keys) keyringKey(create bool) ([]byte, error) {
	s, err := keyring.Get(k.service(), k.account())
	if err == nil && s != "" {
		key, derr := base64.StdEncoding.DecodeString(s)
		if derr != nil {
			return nil, fmt.Errorf("keyring key invalid base64: %w", derr)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("keyring key wrong length: got %d want %d", len(key), chacha20poly1305.KeySize)
		}
		return key, nil
	}
	if !create {
		if err == nil || errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w: no key in keyring", ErrKeyUnavailable)
		}
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := keyring.Set(k.service(), k.account(), base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	return key, nil
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }
