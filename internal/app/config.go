package app

import (
	"time"

	"github.com/rs/zerolog"

	"tapoctl/internal/config"
	"tapoctl/internal/domain"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Credentials  domain.CloudCredentials
	CloudURL     string            // directory base URL
	TerminalUUID string            // stable per install
	Timeout      time.Duration     // per HTTP exchange
	Hosts        map[string]string // MAC -> address
	CachePath    string            // empty disables the cache
	Passphrase   string            // cache passphrase; empty uses the keyring
	Concurrency  int               // devices contacted at once; zero keeps the default
	Log          zerolog.Logger
}

// ConfigFrom resolves a loaded settings file into wiring options.
func ConfigFrom(c *config.Config, log zerolog.Logger) Config {
	cfg := Config{
		Credentials:  domain.CloudCredentials{Email: c.Cloud.Email, Password: c.Cloud.Password},
		CloudURL:     c.Cloud.BaseURL,
		TerminalUUID: c.Cloud.TerminalUUID,
		Timeout:      c.Device.Timeout,
		Hosts:        c.Hosts,
		Passphrase:   c.Cache.Passphrase,
		Concurrency:  c.Device.Concurrency,
		Log:          log,
	}
	if c.Cache.Enabled {
		cfg.CachePath = c.Cache.Path
	}
	return cfg
}
