package passthrough

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/command"
	"tapoctl/internal/protocol/handshake"
	"tapoctl/internal/protocol/status"
)

// Channel sends commands through the secure passthrough envelope.
// It holds no per-device state; callers serialise use of a handle.
type Channel struct {
	transport domain.Transport
	log       zerolog.Logger
}

// New returns a Channel over t.
func New(t domain.Transport, log zerolog.Logger) *Channel {
	return &Channel{transport: t, log: log}
}

type outerRequest struct {
	Method string `json:"method"`
	Params struct {
		Request string `json:"request"`
	} `json:"params"`
}

type outerResult struct {
	Response string `json:"response"`
}

// Send encrypts cmd, posts it and returns the inner result payload.
func (c *Channel) Send(
	ctx context.Context,
	hs domain.Handshake,
	token string,
	cmd command.Command,
) (json.RawMessage, error) {
	return c.exchange(ctx, hs, token, cmd.Method(), command.Encode(cmd))
}

// SendRaw is Send for an arbitrary JSON payload with a method field.
func (c *Channel) SendRaw(
	ctx context.Context,
	hs domain.Handshake,
	token string,
	method string,
	payload any,
) (json.RawMessage, error) {
	return c.exchange(ctx, hs, token, method, payload)
}

func (c *Channel) exchange(
	ctx context.Context,
	hs domain.Handshake,
	token string,
	method string,
	payload any,
) (json.RawMessage, error) {
	inner, err := crypto.EncryptEnvelope(payload, hs.Key)
	if err != nil {
		return nil, err
	}
	var req outerRequest
	req.Method = command.MethodSecurePassthrough
	req.Params.Request = inner
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Cookie", hs.Cookie)

	c.log.Debug().
		Str("device", hs.Address).
		Str("method", method).
		Bool("token", token != "").
		Msg("passthrough")

	respBody, _, err := c.transport.Post(ctx, URL(hs.Address, token), body, header)
	if err != nil {
		return nil, err
	}

	var outer status.Response
	if err := json.Unmarshal(respBody, &outer); err != nil {
		return nil, fmt.Errorf("decode passthrough response: %w", err)
	}
	if err := outer.Err(); err != nil {
		return nil, &ChannelError{Err: err}
	}
	var res outerResult
	if err := json.Unmarshal(outer.Result, &res); err != nil {
		return nil, fmt.Errorf("decode passthrough result: %w", err)
	}

	plain, err := crypto.DecryptEnvelope(res.Response, hs.Key)
	if err != nil {
		return nil, err
	}
	var resp status.Response
	if err := json.Unmarshal(plain, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", crypto.ErrMalformedResponse, err)
	}
	if err := resp.Err(); err != nil {
		return nil, &CommandRejected{Method: method, Err: err}
	}
	return resp.Result, nil
}

// URL is the passthrough endpoint; the token query is added once logged in.
func URL(address, token string) string {
	u := handshake.Endpoint(address)
	if token == "" {
		return u
	}
	return u + "?" + url.Values{"token": {token}}.Encode()
}
