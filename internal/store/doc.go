// Package store persists the cloud token and device directory between CLI
// runs.
//
// The cache is a single JSON file sealed with XChaCha20-Poly1305. The key is
// either a random 32-byte value held in the OS keyring, or, on hosts without
// a keyring, derived from a passphrase with scrypt. Writes go through a temp
// file and an atomic rename.
package store
