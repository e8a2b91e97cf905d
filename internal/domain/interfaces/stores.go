package interfaces

import domaintypes "tapoctl/internal/domain/types"

// CacheStore persists the CLI's cloud token and directory listing.
type CacheStore interface {
	SaveSnapshot(snapshot domaintypes.CacheSnapshot) error
	LoadSnapshot() (domaintypes.CacheSnapshot, bool, error)
	Clear() error
}
