// Package handshake implements the unauthenticated key exchange that opens a
// device session.
//
// # Flow
//
//  1. Generate a fresh RSA key pair (never reused across attempts).
//  2. POST {"method":"handshake","params":{"key":<PEM>}} to http://<addr>/app.
//  3. Check error_code, keep the first Set-Cookie value up to its first ';'.
//  4. Decrypt result.key with the private key into a 16-byte key and IV.
//
// # States
//
// Idle -> KeySent -> KeyReceived -> Established, or Failed from any state.
// A failure reports the state it happened in through *Error, which matches
// ErrHandshakeFailed and unwraps to the transport, status or crypto cause.
package handshake
