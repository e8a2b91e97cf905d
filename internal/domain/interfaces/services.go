package interfaces

import (
	"context"

	domaintypes "tapoctl/internal/domain/types"
)

// CloudDirectory logs in to the vendor cloud and lists registered devices.
type CloudDirectory interface {
	Login(ctx context.Context, creds domaintypes.CloudCredentials) (string, error)
	ListDevices(ctx context.Context, token string) ([]domaintypes.DirectoryEntry, error)
	ListDevicesByType(
		ctx context.Context,
		token string,
		deviceType domaintypes.DeviceType,
	) ([]domaintypes.DirectoryEntry, error)
}

// AddressResolver maps a hardware address to a reachable host.
type AddressResolver interface {
	Resolve(mac domaintypes.MAC) (string, error)
}

// ColorResolver turns a human colour name into device parameters.
type ColorResolver interface {
	Resolve(name string) (domaintypes.Color, error)
}

// StatusPublisher ships device snapshots to an external sink.
type StatusPublisher interface {
	Publish(ctx context.Context, info domaintypes.DeviceInfo) error
}

// SessionService opens logged-in device sessions.
type SessionService interface {
	Establish(
		ctx context.Context,
		address string,
		creds domaintypes.CloudCredentials,
	) (domaintypes.Session, error)
}
