package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/status"
)

// DefaultBaseURL is the regional directory endpoint.
const DefaultBaseURL = "https://eu-wap.tplinkcloud.com/"

// AppType identifies the client application to the directory.
const AppType = "Tapo_Android"

// ErrMissingCredentials is returned when Login is called without an account.
var ErrMissingCredentials = errors.New("cloud credentials not set")

// Client is a directory client over a domain.Transport.
type Client struct {
	Base         string
	TerminalUUID string
	transport    domain.Transport
	log          zerolog.Logger
}

// New returns a Client. An empty base selects DefaultBaseURL.
func New(base, terminalUUID string, t domain.Transport, log zerolog.Logger) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{Base: base, TerminalUUID: terminalUUID, transport: t, log: log}
}

type request struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type loginParams struct {
	AppType       string `json:"appType"`
	CloudUserName string `json:"cloudUserName"`
	CloudPassword string `json:"cloudPassword"`
	TerminalUUID  string `json:"terminalUUID"`
}

// Login exchanges account credentials for a cloud token.
func (c *Client) Login(ctx context.Context, creds domain.CloudCredentials) (string, error) {
	if creds.Email == "" || creds.Password == "" {
		return "", ErrMissingCredentials
	}
	var out struct {
		Token string `json:"token"`
	}
	err := c.post(ctx, "", request{
		Method: "login",
		Params: loginParams{
			AppType:       AppType,
			CloudUserName: creds.Email,
			CloudPassword: creds.Password,
			TerminalUUID:  c.TerminalUUID,
		},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("cloud login: no token in response")
	}
	c.log.Debug().Msg("cloud login ok")
	return out.Token, nil
}

// ListDevices returns every device on the account. Aliases of supported
// device types are decoded; other entries pass through untouched.
func (c *Client) ListDevices(ctx context.Context, token string) ([]domain.DirectoryEntry, error) {
	var out struct {
		DeviceList []domain.DirectoryEntry `json:"deviceList"`
	}
	if err := c.post(ctx, token, request{Method: "getDeviceList"}, &out); err != nil {
		return nil, err
	}
	for i := range out.DeviceList {
		e := &out.DeviceList[i]
		if !e.DeviceType.Supported() {
			continue
		}
		e.Alias = crypto.DecodeText(e.Alias)
	}
	c.log.Debug().Int("devices", len(out.DeviceList)).Msg("device list")
	return out.DeviceList, nil
}

// ListDevicesByType is ListDevices filtered to one device type.
func (c *Client) ListDevicesByType(
	ctx context.Context,
	token string,
	deviceType domain.DeviceType,
) ([]domain.DirectoryEntry, error) {
	all, err := c.ListDevices(ctx, token)
	if err != nil {
		return nil, err
	}
	var out []domain.DirectoryEntry
	for _, e := range all {
		if e.DeviceType == deviceType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, token string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	u := c.Base
	if token != "" {
		u += "?" + url.Values{"token": {token}}.Encode()
	}
	respBody, _, err := c.transport.Post(ctx, u, body, nil)
	if err != nil {
		return fmt.Errorf("cloud post: %w", err)
	}
	var resp status.Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("decode cloud response: %w", err)
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out != nil && len(resp.Result) > 0 {
		return json.Unmarshal(resp.Result, out)
	}
	return nil
}

var _ domain.CloudDirectory = (*Client)(nil)
