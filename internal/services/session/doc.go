// Package session opens authenticated device sessions.
//
// It runs the handshake against a device address, then logs in through the
// passthrough channel and returns a domain.Session holding the cookie, the
// session key and the device token.
package session
