package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/command"
)

// Default transitions, in milliseconds.
const (
	DefaultPowerTransition = 500
	DefaultTransition      = 1000
)

// Valid brightness range, in percent.
const (
	MinBrightness = 1
	MaxBrightness = 100
)

var (
	// ErrOutOfRange is returned when a parameter is outside what the device accepts.
	ErrOutOfRange = errors.New("parameter out of range")
	// ErrNoToken is returned when a command is attempted on a session that
	// never completed login.
	ErrNoToken = errors.New("session has no login token")
)

// Sender is the passthrough channel a Client talks through.
type Sender interface {
	Send(ctx context.Context, hs domain.Handshake, token string, cmd command.Command) (json.RawMessage, error)
}

// Client issues commands over one session. Methods are safe for concurrent
// use; requests are sent one at a time.
type Client struct {
	mu       sync.Mutex
	session  domain.Session
	channel  Sender
	sessions domain.SessionService
	colors   domain.ColorResolver
	log      zerolog.Logger
}

// Options configure optional Client collaborators.
type Options struct {
	// Sessions reopens the session on Reauthenticate.
	Sessions domain.SessionService
	// Colors resolves names passed to SetColor.
	Colors domain.ColorResolver
}

// NewClient binds a Client to an authenticated session.
func NewClient(session domain.Session, channel Sender, opts Options, log zerolog.Logger) *Client {
	return &Client{
		session:  session,
		channel:  channel,
		sessions: opts.Sessions,
		colors:   opts.Colors,
		log:      log.With().Str("device", session.Address).Logger(),
	}
}

// Session returns the current session handle.
func (c *Client) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Address returns the device address.
func (c *Client) Address() string {
	return c.Session().Address
}

// Do sends cmd and returns the raw result.
func (c *Client) Do(ctx context.Context, cmd command.Command) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Token == "" {
		return nil, ErrNoToken
	}
	c.log.Debug().Str("method", cmd.Method()).Msg("command")
	return c.channel.Send(ctx, c.session.Handshake, c.session.Token, cmd)
}

// TurnOn switches the device on over transition milliseconds.
func (c *Client) TurnOn(ctx context.Context, transition int) error {
	_, err := c.Do(ctx, command.SetPower{DeviceOn: true, Transition: transition})
	return err
}

// TurnOff switches the device off over transition milliseconds.
func (c *Client) TurnOff(ctx context.Context, transition int) error {
	_, err := c.Do(ctx, command.SetPower{DeviceOn: false, Transition: transition})
	return err
}

// SetBrightness sets brightness in percent (1..100).
func (c *Client) SetBrightness(ctx context.Context, brightness, transition int) error {
	if brightness < MinBrightness || brightness > MaxBrightness {
		return fmt.Errorf("%w: brightness %d not in [%d,%d]", ErrOutOfRange, brightness, MinBrightness, MaxBrightness)
	}
	_, err := c.Do(ctx, command.SetBrightness{Brightness: brightness, Transition: transition})
	return err
}

// SetColorTemp sets the white colour temperature in kelvin. The value is
// passed through; the device clamps it to what the bulb supports.
func (c *Client) SetColorTemp(ctx context.Context, kelvin, transition int) error {
	_, err := c.Do(ctx, command.SetColorTemp{ColorTemp: kelvin, Transition: transition})
	return err
}

// SetColor resolves name and applies it.
func (c *Client) SetColor(ctx context.Context, name string) error {
	if c.colors == nil {
		return errors.New("no color resolver configured")
	}
	col, err := c.colors.Resolve(name)
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, command.SetColor{Color: col})
	return err
}

// DeviceInfo fetches the status snapshot with nickname and ssid decoded.
func (c *Client) DeviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	res, err := c.Do(ctx, command.GetDeviceInfo{})
	if err != nil {
		return domain.DeviceInfo{}, err
	}
	var info domain.DeviceInfo
	if err := json.Unmarshal(res, &info); err != nil {
		return domain.DeviceInfo{}, fmt.Errorf("decode device info: %w", err)
	}
	info.Nickname = crypto.DecodeText(info.Nickname)
	info.SSID = crypto.DecodeText(info.SSID)
	return info, nil
}

// Reauthenticate replaces the session with a fresh handshake and login.
func (c *Client) Reauthenticate(ctx context.Context, creds domain.CloudCredentials) error {
	if c.sessions == nil {
		return errors.New("no session service configured")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, err := c.sessions.Establish(ctx, c.session.Address, creds)
	if err != nil {
		return err
	}
	if sess.Token == "" {
		return ErrNoToken
	}
	c.session = sess
	c.log.Info().Msg("reauthenticated")
	return nil
}
