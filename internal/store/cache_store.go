package store

import (
	"encoding/json"
	"sync"
	"time"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
)

// CacheFileStore keeps one sealed CacheSnapshot at path.
type CacheFileStore struct {
	path string
	keys Keys
	mu   sync.Mutex
	now  func() time.Time
}

// NewCacheFileStore returns a store sealing with keys.
func NewCacheFileStore(path string, keys Keys) *CacheFileStore {
	return &CacheFileStore{path: path, keys: keys, now: time.Now}
}

// SaveSnapshot seals snap and replaces the cache file. SavedUTC is stamped
// when zero.
func (s *CacheFileStore) SaveSnapshot(snap domain.CacheSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.SavedUTC == 0 {
		snap.SavedUTC = s.now().UTC().Unix()
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	defer crypto.Wipe(raw)
	sealed, err := seal(s.keys, raw)
	if err != nil {
		return err
	}
	return writeFile(s.path, sealed, 0o600)
}

// LoadSnapshot returns the cached snapshot; ok is false when none exists.
func (s *CacheFileStore) LoadSnapshot() (domain.CacheSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := readFile(s.path)
	if err != nil || data == nil {
		return domain.CacheSnapshot{}, false, err
	}
	raw, err := open(s.keys, data)
	if err != nil {
		return domain.CacheSnapshot{}, false, err
	}
	defer crypto.Wipe(raw)
	var snap domain.CacheSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.CacheSnapshot{}, false, err
	}
	return snap, true, nil
}

// Clear removes the cache file.
func (s *CacheFileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path)
}

var _ domain.CacheStore = (*CacheFileStore)(nil)
