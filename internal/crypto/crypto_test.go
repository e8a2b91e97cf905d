package crypto_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
)

func testKey() domain.SessionKey {
	var k domain.SessionKey
	for i := range k.Key {
		k.Key[i] = byte(i)
		k.IV[i] = byte(0xf0 + i)
	}
	return k
}

func publicKey(t *testing.T, kp *crypto.KeyPair) *rsa.PublicKey {
	t.Helper()
	block, _ := pem.Decode([]byte(kp.PublicPEM))
	if block == nil {
		t.Fatal("no PEM block")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		t.Fatalf("ParsePKIXPublicKey: %v", err)
	}
	return pub.(*rsa.PublicKey)
}

func TestKeyPair(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	Convey("Public key is an SPKI PEM block", t, func() {
		So(publicKey(t, kp).N.BitLen(), ShouldEqual, 1024)
	})

	Convey("Key pairs are never reused", t, func() {
		other, err := crypto.GenerateKeyPair()
		So(err, ShouldBeNil)
		So(other.PublicPEM, ShouldNotEqual, kp.PublicPEM)
	})

	Convey("Session key round trip through the device seal", t, func() {
		want := testKey()
		blob, err := crypto.SealSessionKey(kp.PublicPEM, want)
		So(err, ShouldBeNil)

		got, err := crypto.DeriveSessionKey(blob, kp)
		So(err, ShouldBeNil)
		So(got, ShouldResemble, want)
		So(len(got.Key), ShouldEqual, 16)
		So(len(got.IV), ShouldEqual, 16)
	})

	Convey("Blob of the wrong length is malformed", t, func() {
		ct, err := rsa.EncryptPKCS1v15(rand.Reader, publicKey(t, kp), make([]byte, 31))
		So(err, ShouldBeNil)

		_, err = crypto.DeriveSessionKey(crypto.B64(ct), kp)
		So(errors.Is(err, crypto.ErrMalformedKeyMaterial), ShouldBeTrue)
	})

	Convey("Garbage blob is malformed", t, func() {
		_, err := crypto.DeriveSessionKey("!!not-base64!!", kp)
		So(errors.Is(err, crypto.ErrMalformedKeyMaterial), ShouldBeTrue)

		_, err = crypto.DeriveSessionKey(crypto.B64([]byte("short")), kp)
		So(errors.Is(err, crypto.ErrMalformedKeyMaterial), ShouldBeTrue)
	})

	Convey("Discarded pair cannot derive", t, func() {
		used, err := crypto.GenerateKeyPair()
		So(err, ShouldBeNil)
		blob, err := crypto.SealSessionKey(used.PublicPEM, testKey())
		So(err, ShouldBeNil)

		used.Discard()
		_, err = crypto.DeriveSessionKey(blob, used)
		So(errors.Is(err, crypto.ErrMalformedKeyMaterial), ShouldBeTrue)
	})

	Convey("Sealing to a non-PEM key fails", t, func() {
		_, err := crypto.SealSessionKey("not a key", testKey())
		So(errors.Is(err, crypto.ErrMalformedKeyMaterial), ShouldBeTrue)
	})
}

func TestEnvelope(t *testing.T) {
	key := testKey()

	Convey("Round trip returns the original payload", t, func() {
		payloads := []any{
			map[string]any{"method": "get_device_info", "params": map[string]any{}},
			map[string]any{"method": "set_device_info", "params": map[string]any{"brightness": 50, "transition": 1000}},
			[]int{1, 2, 3},
			"exactly sixteen!",
			nil,
		}
		for _, p := range payloads {
			want, err := json.Marshal(p)
			So(err, ShouldBeNil)

			ct, err := crypto.EncryptEnvelope(p, key)
			So(err, ShouldBeNil)

			got, err := crypto.DecryptEnvelope(ct, key)
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, string(want))
		}
	})

	Convey("Encryption is deterministic within a session", t, func() {
		a, err := crypto.EncryptEnvelope(map[string]int{"x": 1}, key)
		So(err, ShouldBeNil)
		b, err := crypto.EncryptEnvelope(map[string]int{"x": 1}, key)
		So(err, ShouldBeNil)
		So(a, ShouldEqual, b)
	})

	Convey("Bad base64 is a decryption error", t, func() {
		_, err := crypto.DecryptEnvelope("%%%", key)
		So(errors.Is(err, crypto.ErrDecryption), ShouldBeTrue)
	})

	Convey("Partial blocks are a decryption error", t, func() {
		_, err := crypto.DecryptEnvelope(crypto.B64(make([]byte, 17)), key)
		So(errors.Is(err, crypto.ErrDecryption), ShouldBeTrue)

		_, err = crypto.DecryptEnvelope("", key)
		So(errors.Is(err, crypto.ErrDecryption), ShouldBeTrue)
	})

	Convey("Bad padding is a decryption error", t, func() {
		block, _ := aes.NewCipher(key.Key[:])
		data := bytes.Repeat([]byte{0x00}, aes.BlockSize)
		cipher.NewCBCEncrypter(block, key.IV[:]).CryptBlocks(data, data)

		_, err := crypto.DecryptEnvelope(crypto.B64(data), key)
		So(errors.Is(err, crypto.ErrDecryption), ShouldBeTrue)
	})

	Convey("Non-JSON plaintext is a malformed response", t, func() {
		block, _ := aes.NewCipher(key.Key[:])
		data := append([]byte("not json"), bytes.Repeat([]byte{8}, 8)...)
		cipher.NewCBCEncrypter(block, key.IV[:]).CryptBlocks(data, data)

		_, err := crypto.DecryptEnvelope(crypto.B64(data), key)
		So(err, ShouldEqual, crypto.ErrMalformedResponse)
	})
}

func TestHashIdentity(t *testing.T) {
	Convey("Digest is lowercase hex SHA-1 text", t, func() {
		So(string(crypto.HashIdentity("user@example.com")), ShouldEqual,
			"63a710569261a24b3766275b7000ce8d7b32e2f7")
	})

	Convey("Login username encoding", t, func() {
		So(crypto.B64(crypto.HashIdentity("user@example.com")), ShouldEqual,
			"NjNhNzEwNTY5MjYxYTI0YjM3NjYyNzViNzAwMGNlOGQ3YjMyZTJmNw==")
	})
}

func TestWipe(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	crypto.Wipe(a, b)
	if !bytes.Equal(a, []byte{0, 0, 0}) || !bytes.Equal(b, []byte{0, 0}) {
		t.Fatalf("buffers not wiped: %v %v", a, b)
	}
}

func TestFingerprint(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	fp := crypto.Fingerprint(kp.PublicPEM)
	if len(fp) != 20 {
		t.Fatalf("want 20 hex chars, got %q", fp)
	}
	crlf := strings.ReplaceAll(kp.PublicPEM, "\n", "\r\n")
	if crypto.Fingerprint(crlf) != fp {
		t.Fatal("line endings changed the fingerprint")
	}
	if len(crypto.Fingerprint("not pem")) != 20 {
		t.Fatal("non-PEM input not hashed")
	}
}
