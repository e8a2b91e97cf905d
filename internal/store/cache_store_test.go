package store_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"

	"tapoctl/internal/domain"
	"tapoctl/internal/store"
)

func snapshot() domain.CacheSnapshot {
	return domain.CacheSnapshot{
		CloudToken: "cloud-token",
		Devices: []domain.DirectoryEntry{
			{DeviceType: domain.DeviceTypeBulb, DeviceID: "b1", Alias: "Living Room", DeviceMAC: "AA:BB"},
		},
	}
}

func TestCache_KeyringRoundTrip(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "cache", "directory.cache")
	s := store.NewCacheFileStore(path, store.Keys{})

	if _, ok, err := s.LoadSnapshot(); err != nil || ok {
		t.Fatalf("empty load: ok=%v err=%v", ok, err)
	}
	if err := s.SaveSnapshot(snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.LoadSnapshot()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.CloudToken != "cloud-token" || len(got.Devices) != 1 || got.Devices[0].Alias != "Living Room" {
		t.Fatalf("snapshot: %+v", got)
	}
	if got.SavedUTC == 0 {
		t.Fatal("SavedUTC not stamped")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode: %v", info.Mode())
	}
	data, _ := os.ReadFile(path)
	if bytes.Contains(data, []byte("cloud-token")) || bytes.Contains(data, []byte("Living Room")) {
		t.Fatal("plaintext leaked into cache file")
	}
}

func TestCache_PassphraseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.cache")
	if err := store.NewCacheFileStore(path, store.Keys{Passphrase: "correct"}).SaveSnapshot(snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, _, err := store.NewCacheFileStore(path, store.Keys{Passphrase: "wrong"}).LoadSnapshot(); !errors.Is(err, store.ErrCorrupted) {
		t.Fatalf("want corrupted, got %v", err)
	}
	got, ok, err := store.NewCacheFileStore(path, store.Keys{Passphrase: "correct"}).LoadSnapshot()
	if err != nil || !ok || got.CloudToken != "cloud-token" {
		t.Fatalf("load: %+v ok=%v err=%v", got, ok, err)
	}
}

func TestCache_MissingKeyringKey(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "directory.cache")
	s := store.NewCacheFileStore(path, store.Keys{Service: "tapoctl-test"})
	if err := s.SaveSnapshot(snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := keyring.Delete("tapoctl-test", store.KeyringAccount); err != nil {
		t.Fatalf("delete key: %v", err)
	}
	if _, _, err := s.LoadSnapshot(); !errors.Is(err, store.ErrKeyUnavailable) {
		t.Fatalf("want key unavailable, got %v", err)
	}
}

func TestCache_Clear(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "directory.cache")
	s := store.NewCacheFileStore(path, store.Keys{})
	if err := s.SaveSnapshot(snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if _, ok, _ := s.LoadSnapshot(); ok {
		t.Fatal("snapshot survived clear")
	}
}
