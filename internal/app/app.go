package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/status"
)

// App fronts the cloud directory with the sealed cache and resolves
// directory entries to reachable addresses.
type App struct {
	Directory domain.CloudDirectory
	Resolver  domain.AddressResolver
	Cache     domain.CacheStore
	creds     domain.CloudCredentials
	log       zerolog.Logger
}

// New builds an App. cache may be nil.
func New(
	directory domain.CloudDirectory,
	resolver domain.AddressResolver,
	cache domain.CacheStore,
	creds domain.CloudCredentials,
	log zerolog.Logger,
) *App {
	return &App{Directory: directory, Resolver: resolver, Cache: cache, creds: creds, log: log}
}

// Devices lists the account's devices, reusing a cached cloud token when
// one exists. An expired cached token is discarded and login retried once.
func (a *App) Devices(ctx context.Context) ([]domain.DirectoryEntry, error) {
	if token, ok := a.cachedToken(); ok {
		list, err := a.Directory.ListDevices(ctx, token)
		if err == nil {
			a.save(token, list)
			return list, nil
		}
		if !errors.Is(err, status.ErrCloudTokenExpired) {
			return nil, err
		}
		a.log.Info().Msg("cached cloud token expired")
		if a.Cache != nil {
			if cerr := a.Cache.Clear(); cerr != nil {
				a.log.Warn().Err(cerr).Msg("clear cache")
			}
		}
	}

	token, err := a.Directory.Login(ctx, a.creds)
	if err != nil {
		return nil, err
	}
	list, err := a.Directory.ListDevices(ctx, token)
	if err != nil {
		return nil, err
	}
	a.save(token, list)
	return list, nil
}

// DevicesByType is Devices filtered to one device type.
func (a *App) DevicesByType(ctx context.Context, t domain.DeviceType) ([]domain.DirectoryEntry, error) {
	all, err := a.Devices(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.DirectoryEntry
	for _, e := range all {
		if e.DeviceType == t {
			out = append(out, e)
		}
	}
	return out, nil
}

// Addresses resolves entries to hosts. Unresolvable entries are reported
// together; resolvable ones are still returned.
func (a *App) Addresses(entries []domain.DirectoryEntry) ([]string, error) {
	var (
		out  []string
		errs []error
	)
	for _, e := range entries {
		addr, err := a.Resolver.Resolve(e.DeviceMAC)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, addr)
	}
	return out, errors.Join(errs...)
}

func (a *App) cachedToken() (string, bool) {
	if a.Cache == nil {
		return "", false
	}
	snap, ok, err := a.Cache.LoadSnapshot()
	if err != nil {
		a.log.Warn().Err(err).Msg("load cache")
		return "", false
	}
	if !ok || snap.CloudToken == "" {
		return "", false
	}
	return snap.CloudToken, true
}

func (a *App) save(token string, list []domain.DirectoryEntry) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.SaveSnapshot(domain.CacheSnapshot{CloudToken: token, Devices: list}); err != nil {
		a.log.Warn().Err(err).Msg("save cache")
	}
}
