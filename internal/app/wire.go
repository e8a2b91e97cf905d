package app

import (
	"tapoctl/internal/cloud"
	"tapoctl/internal/color"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/handshake"
	"tapoctl/internal/protocol/passthrough"
	sessionsvc "tapoctl/internal/services/session"
	"tapoctl/internal/store"
	"tapoctl/internal/transport"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Transport domain.Transport
	Channel   *passthrough.Channel
	Sessions  domain.SessionService
	Directory domain.CloudDirectory
	Resolver  domain.AddressResolver
	Colors    domain.ColorResolver
	Cache     domain.CacheStore // nil when disabled
	Fleet     *Fleet
	App       *App
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	tr := transport.NewHTTP(cfg.Timeout, cfg.Log)

	// Protocol layers
	negotiator := handshake.New(tr, cfg.Log)
	channel := passthrough.New(tr, cfg.Log)

	// High-level services
	sessions := sessionsvc.New(negotiator, channel, cfg.Log)
	directory := cloud.New(cfg.CloudURL, cfg.TerminalUUID, tr, cfg.Log)
	resolver := NewStaticResolver(cfg.Hosts)
	colors := color.Table{}

	var cache domain.CacheStore
	if cfg.CachePath != "" {
		cache = store.NewCacheFileStore(cfg.CachePath, store.Keys{Passphrase: cfg.Passphrase})
	}

	fleet := NewFleet(sessions, channel, colors, cfg.Credentials, cfg.Log)
	if cfg.Concurrency != 0 {
		fleet.SetConcurrency(cfg.Concurrency)
	}
	return &Wire{
		Transport: tr,
		Channel:   channel,
		Sessions:  sessions,
		Directory: directory,
		Resolver:  resolver,
		Colors:    colors,
		Cache:     cache,
		Fleet:     fleet,
		App:       New(directory, resolver, cache, cfg.Credentials, cfg.Log),
	}, nil
}
