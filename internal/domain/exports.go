package domain

import (
	interfaces "tapoctl/internal/domain/interfaces"
	types "tapoctl/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	DeviceType       = types.DeviceType
	MAC              = types.MAC
	CloudCredentials = types.CloudCredentials
	SessionKey       = types.SessionKey
	Handshake        = types.Handshake
	Session          = types.Session
	DirectoryEntry   = types.DirectoryEntry
	DeviceInfo       = types.DeviceInfo
	Color            = types.Color
	CacheSnapshot    = types.CacheSnapshot
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport       = interfaces.Transport
	CloudDirectory  = interfaces.CloudDirectory
	AddressResolver = interfaces.AddressResolver
	ColorResolver   = interfaces.ColorResolver
	StatusPublisher = interfaces.StatusPublisher
	CacheStore      = interfaces.CacheStore
	SessionService  = interfaces.SessionService
)

// Re-exported constants.
const (
	DeviceTypePlug = types.DeviceTypePlug
	DeviceTypeBulb = types.DeviceTypeBulb
	SessionKeySize = types.SessionKeySize
)
