// Package emulator serves an in-process stand-in for a smart plug or bulb
// and for the cloud device directory.
//
// The device side speaks the same handshake and secure passthrough protocol
// as real hardware: RSA-sealed session keys, TP_SESSIONID cookies and
// login tokens on the query string. Tokens are HS256 JWTs bound to the
// session that issued them. Each emulator exposes Prometheus metrics on
// /metrics and records the peak number of requests it served at once.
package emulator
