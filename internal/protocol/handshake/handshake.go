package handshake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/command"
	"tapoctl/internal/protocol/status"
)

// Negotiator performs handshakes over a transport.
type Negotiator struct {
	transport domain.Transport
	log       zerolog.Logger
}

// New returns a Negotiator using t.
func New(t domain.Transport, log zerolog.Logger) *Negotiator {
	return &Negotiator{transport: t, log: log}
}

type request struct {
	Method string `json:"method"`
	Params struct {
		Key string `json:"key"`
	} `json:"params"`
}

type result struct {
	Key string `json:"key"`
}

// attempt tracks one pass through the state machine.
type attempt struct {
	state State
	log   zerolog.Logger
}

func (a *attempt) advance(next State) {
	a.log.Debug().Stringer("from", a.state).Stringer("to", next).Msg("handshake")
	a.state = next
}

func (a *attempt) fail(err error) error {
	failedIn := a.state
	a.advance(Failed)
	return &Error{State: failedIn, Err: err}
}

// Handshake exchanges keys with the device at address and returns a handle
// holding the session cookie and key. The handle carries no token.
func (n *Negotiator) Handshake(ctx context.Context, address string) (domain.Handshake, error) {
	a := &attempt{state: Idle, log: n.log.With().Str("device", address).Logger()}

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.Handshake{}, a.fail(err)
	}
	defer kp.Discard()

	var req request
	req.Method = command.MethodHandshake
	req.Params.Key = kp.PublicPEM
	body, err := json.Marshal(req)
	if err != nil {
		return domain.Handshake{}, a.fail(err)
	}

	a.log.Debug().Str("key_fp", crypto.Fingerprint(kp.PublicPEM)).Msg("sending public key")
	a.advance(KeySent)
	respBody, header, err := n.transport.Post(ctx, Endpoint(address), body, nil)
	if err != nil {
		return domain.Handshake{}, a.fail(err)
	}

	var resp status.Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Handshake{}, a.fail(fmt.Errorf("decode handshake response: %w", err))
	}
	if err := resp.Err(); err != nil {
		return domain.Handshake{}, a.fail(err)
	}
	a.advance(KeyReceived)

	cookie, ok := SessionCookie(header)
	if !ok {
		return domain.Handshake{}, a.fail(ErrNoCookie)
	}

	var res result
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		return domain.Handshake{}, a.fail(fmt.Errorf("decode handshake result: %w", err))
	}
	key, err := crypto.DeriveSessionKey(res.Key, kp)
	if err != nil {
		return domain.Handshake{}, a.fail(err)
	}

	a.advance(Established)
	return domain.Handshake{Address: address, Key: key, Cookie: cookie}, nil
}

// Endpoint is the device's application URL.
func Endpoint(address string) string {
	return "http://" + address + "/app"
}

// SessionCookie returns the bare name=value pair of the first Set-Cookie
// header. Attributes after the first ';' are dropped.
func SessionCookie(header http.Header) (string, bool) {
	values := header.Values("Set-Cookie")
	if len(values) == 0 {
		return "", false
	}
	cookie, _, _ := strings.Cut(values[0], ";")
	cookie = strings.TrimSpace(cookie)
	return cookie, cookie != ""
}
