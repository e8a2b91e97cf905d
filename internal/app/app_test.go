package app_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"

	"tapoctl/internal/app"
	"tapoctl/internal/cloud"
	"tapoctl/internal/domain"
	"tapoctl/internal/emulator"
	"tapoctl/internal/store"
	"tapoctl/internal/transport"
)

func TestApp_DevicesUsesCache(t *testing.T) {
	keyring.MockInit()
	em := emulator.NewCloud(emulator.CloudConfig{
		Email:    creds.Email,
		Password: creds.Password,
		Devices: []domain.DirectoryEntry{
			{DeviceType: domain.DeviceTypeBulb, DeviceID: "b1", Alias: "Desk", DeviceMAC: "AA:BB:CC:00:00:01"},
			{DeviceType: domain.DeviceTypePlug, DeviceID: "p1", Alias: "Fan", DeviceMAC: "AA:BB:CC:00:00:02"},
		},
	}, zerolog.Nop())
	srv := httptest.NewServer(em)
	defer srv.Close()

	dir := cloud.New(srv.URL+"/", "term", transport.NewHTTP(time.Second, zerolog.Nop()), zerolog.Nop())
	cache := store.NewCacheFileStore(filepath.Join(t.TempDir(), "cache"), store.Keys{})
	a := app.New(dir, app.NewStaticResolver(nil), cache, creds, zerolog.Nop())
	ctx := context.Background()

	if _, err := a.Devices(ctx); err != nil {
		t.Fatalf("Devices: %v", err)
	}
	first, ok, err := cache.LoadSnapshot()
	if err != nil || !ok || first.CloudToken == "" || len(first.Devices) != 2 {
		t.Fatalf("cache after first call: %+v ok=%v err=%v", first, ok, err)
	}

	if _, err := a.Devices(ctx); err != nil {
		t.Fatalf("Devices (cached): %v", err)
	}
	again, _, _ := cache.LoadSnapshot()
	if again.CloudToken != first.CloudToken {
		t.Fatal("cached token not reused")
	}

	em.RevokeTokens()
	bulbs, err := a.DevicesByType(ctx, domain.DeviceTypeBulb)
	if err != nil {
		t.Fatalf("DevicesByType after revoke: %v", err)
	}
	if len(bulbs) != 1 || bulbs[0].Alias != "Desk" {
		t.Fatalf("bulbs: %+v", bulbs)
	}
	fresh, _, _ := cache.LoadSnapshot()
	if fresh.CloudToken == first.CloudToken {
		t.Fatal("expired token still cached")
	}
}

func TestApp_Addresses(t *testing.T) {
	r := app.NewStaticResolver(map[string]string{"aa-bb-cc-00-00-01": "192.168.1.20"})
	a := app.New(nil, r, nil, creds, zerolog.Nop())

	addrs, err := a.Addresses([]domain.DirectoryEntry{
		{DeviceMAC: "AA:BB:CC:00:00:01"},
		{DeviceMAC: "AA:BB:CC:00:00:09"},
	})
	if len(addrs) != 1 || addrs[0] != "192.168.1.20" {
		t.Fatalf("addrs: %v", addrs)
	}
	if !errors.Is(err, app.ErrUnknownHost) {
		t.Fatalf("want unknown host, got %v", err)
	}
}

func TestNewWire(t *testing.T) {
	w, err := app.NewWire(app.Config{TerminalUUID: "t", Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	if w.Cache != nil {
		t.Fatal("cache enabled without a path")
	}
	if w.Fleet == nil || w.App == nil || w.Sessions == nil || w.Directory == nil {
		t.Fatalf("incomplete wire: %+v", w)
	}
}
