// Package crypto exposes the primitives used by the secure passthrough protocol.
//
// Contents
//
//   - RSA-1024 key pair generation for the handshake (GenerateKeyPair)
//   - Session key derivation from the device's encrypted blob (DeriveSessionKey)
//   - AES-128-CBC envelopes around JSON payloads (EncryptEnvelope,
//     DecryptEnvelope)
//   - Unsalted SHA-1 digest of the login identity (HashIdentity)
//   - Standard base64 helpers (B64, DecodeB64)
//   - Short public-key fingerprints for logs (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Envelopes are deterministic: the IV is fixed for the lifetime of a session
// and no per-message nonce exists. Identical payloads produce identical
// ciphertext within one session.
package crypto
