package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/command"
	"tapoctl/internal/protocol/handshake"
	"tapoctl/internal/protocol/status"
)

var (
	// ErrSessionNotEstablished is returned when login is attempted on a handle
	// that did not come out of a successful handshake.
	ErrSessionNotEstablished = errors.New("session not established; handshake first")
	// ErrAuthenticationFailed is returned when the device refuses the
	// credentials or issues no token.
	ErrAuthenticationFailed = errors.New("device authentication failed")
)

// Sender is the part of the passthrough channel that login needs.
type Sender interface {
	Send(ctx context.Context, hs domain.Handshake, token string, cmd command.Command) (json.RawMessage, error)
}

// Service performs handshake + login to produce device sessions.
//
// A session represents the cookie, key and token needed to run commands
// against one device. This service handles:
//   - Running the key exchange with the device.
//   - Logging in with the account credentials over the fresh channel.
type Service struct {
	negotiator *handshake.Negotiator
	channel    Sender
	log        zerolog.Logger
}

// New constructs a session Service.
func New(negotiator *handshake.Negotiator, channel Sender, log zerolog.Logger) *Service {
	return &Service{negotiator: negotiator, channel: channel, log: log}
}

// Establish handshakes with the device at address and logs in.
func (s *Service) Establish(
	ctx context.Context,
	address string,
	creds domain.CloudCredentials,
) (domain.Session, error) {
	hs, err := s.negotiator.Handshake(ctx, address)
	if err != nil {
		return domain.Session{}, err
	}
	sess, err := Login(ctx, s.channel, hs, creds)
	if err != nil {
		return domain.Session{}, err
	}
	s.log.Info().Str("device", address).Msg("session established")
	return sess, nil
}

// LoginCommand builds the login_device command. The identity is digested
// then base64-encoded; the secret is only base64-encoded.
func LoginCommand(creds domain.CloudCredentials) command.LoginDevice {
	return command.LoginDevice{
		Username: crypto.B64(crypto.HashIdentity(creds.Email)),
		Password: crypto.B64([]byte(creds.Password)),
	}
}

type loginResult struct {
	Token string `json:"token"`
}

// Login authenticates over an already handshaken handle and returns the
// handle with its token set.
func Login(
	ctx context.Context,
	ch Sender,
	hs domain.Handshake,
	creds domain.CloudCredentials,
) (domain.Session, error) {
	if !hs.Established() {
		return domain.Session{}, ErrSessionNotEstablished
	}
	res, err := ch.Send(ctx, hs, "", LoginCommand(creds))
	if err != nil {
		if errors.Is(err, status.ErrInvalidCredentials) || errors.Is(err, status.ErrDeviceTokenExpired) {
			return domain.Session{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
		}
		return domain.Session{}, err
	}
	var out loginResult
	if err := json.Unmarshal(res, &out); err != nil {
		return domain.Session{}, fmt.Errorf("%w: decode login result: %w", ErrAuthenticationFailed, err)
	}
	if out.Token == "" {
		return domain.Session{}, fmt.Errorf("%w: no token issued", ErrAuthenticationFailed)
	}
	return domain.Session{Handshake: hs, Token: out.Token}, nil
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
