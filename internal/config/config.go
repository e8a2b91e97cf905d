// Package config loads tapoctl settings from YAML with environment overrides.
//
// Environment lookup happens here and nowhere else; the protocol packages
// receive resolved values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultTransition is the device transition, in milliseconds, used when the
// settings file does not name one.
const DefaultTransition = 500

// Config is the full settings file.
type Config struct {
	Cloud    CloudConfig       `yaml:"cloud"`
	Device   DeviceConfig      `yaml:"device"`
	Hosts    map[string]string `yaml:"hosts"`
	Log      LogConfig         `yaml:"log"`
	Cache    CacheConfig       `yaml:"cache"`
	NATS     NATSConfig        `yaml:"nats"`
	Emulator EmulatorConfig    `yaml:"emulator"`
}

// CloudConfig is the directory account.
type CloudConfig struct {
	BaseURL      string `yaml:"base_url"`
	TerminalUUID string `yaml:"terminal_uuid"`
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
}

// DeviceConfig holds per-request defaults for devices.
// A nil Transition means the key was absent; zero is an instant change.
// Concurrency bounds parallel device sessions; zero uses the built-in default.
type DeviceConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Transition  *int          `yaml:"transition"`
	Concurrency int           `yaml:"concurrency,omitempty"`
}

// TransitionMS returns the configured transition in milliseconds.
func (d DeviceConfig) TransitionMS() int {
	if d.Transition == nil {
		return DefaultTransition
	}
	return *d.Transition
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// CacheConfig locates the sealed directory cache.
// An empty Passphrase keeps the sealing key in the OS keyring.
type CacheConfig struct {
	Path       string `yaml:"path"`
	Enabled    bool   `yaml:"enabled"`
	Passphrase string `yaml:"passphrase,omitempty"`
}

// NATSConfig is where status snapshots are published.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// EmulatorConfig drives cmd/tapo-emulator.
type EmulatorConfig struct {
	Listen      string        `yaml:"listen"`
	CloudListen string        `yaml:"cloud_listen"`
	Email       string        `yaml:"email"`
	Password    string        `yaml:"password"`
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	Nickname    string        `yaml:"nickname"`
	SSID        string        `yaml:"ssid"`
	Model       string        `yaml:"model"`
	MAC         string        `yaml:"mac"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads filename. A missing file yields defaults; env overrides apply
// either way.
func Load(filename string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to filename, creating parent directories.
func Save(filename string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o700); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o600)
}

// DefaultPath is $HOME/.tapoctl/config.yaml, or a relative path if the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tapoctl", "config.yaml")
	}
	return filepath.Join(home, ".tapoctl", "config.yaml")
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TAPO_USERNAME"); v != "" {
		c.Cloud.Email = v
	}
	if v := os.Getenv("TAPO_PASSWORD"); v != "" {
		c.Cloud.Password = v
	}
	if v := os.Getenv("TAPO_CLOUD_URL"); v != "" {
		c.Cloud.BaseURL = v
	}
	if v := os.Getenv("TAPO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TAPO_CACHE_PASSPHRASE"); v != "" {
		c.Cache.Passphrase = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.NATS.URL = v
	}
}

func (c *Config) setDefaults() {
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = "https://eu-wap.tplinkcloud.com/"
	}
	if c.Cloud.TerminalUUID == "" {
		c.Cloud.TerminalUUID = uuid.NewString()
	}
	if c.Device.Timeout == 0 {
		c.Device.Timeout = 10 * time.Second
	}
	if c.Device.Transition == nil {
		ms := DefaultTransition
		c.Device.Transition = &ms
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(filepath.Dir(DefaultPath()), "directory.cache")
	}
	if c.NATS.URL == "" {
		c.NATS.URL = "nats://127.0.0.1:4222"
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "tapo"
	}
	if c.Emulator.Listen == "" {
		c.Emulator.Listen = "127.0.0.1:8080"
	}
	if c.Emulator.CloudListen == "" {
		c.Emulator.CloudListen = "127.0.0.1:8081"
	}
	if c.Emulator.TokenTTL == 0 {
		c.Emulator.TokenTTL = 24 * time.Hour
	}
	if c.Hosts == nil {
		c.Hosts = map[string]string{}
	}
}

func (c *Config) validate() error {
	if c.Device.Timeout < 0 {
		return fmt.Errorf("device.timeout must not be negative: %s", c.Device.Timeout)
	}
	if c.Device.Concurrency < 0 {
		return fmt.Errorf("device.concurrency must not be negative: %d", c.Device.Concurrency)
	}
	if c.Device.TransitionMS() < 0 {
		return fmt.Errorf("device.transition must not be negative: %d", c.Device.TransitionMS())
	}
	if _, err := uuid.Parse(c.Cloud.TerminalUUID); err != nil {
		return fmt.Errorf("cloud.terminal_uuid: %w", err)
	}
	return nil
}
