package types

// SessionKeySize is the length of both the AES key and the IV.
const SessionKeySize = 16

// SessionKey is the symmetric material derived from the handshake blob.
// The first 16 bytes of the blob are the key, the next 16 the IV.
type SessionKey struct {
	Key [SessionKeySize]byte
	IV  [SessionKeySize]byte
}

// IsZero reports whether no key material has been set.
func (k SessionKey) IsZero() bool {
	return k == SessionKey{}
}

// Handshake is the handle produced by a successful key exchange. It carries
// everything needed to talk to the device except the login token.
type Handshake struct {
	Address string
	Key     SessionKey
	// Cookie is the bare name=value pair from Set-Cookie.
	Cookie string
}

// Established reports whether the handshake produced usable session material.
func (h Handshake) Established() bool {
	return h.Address != "" && h.Cookie != "" && !h.Key.IsZero()
}

// Session is a logged-in handle. Only a Session can drive device commands.
type Session struct {
	Handshake
	Token string
}
