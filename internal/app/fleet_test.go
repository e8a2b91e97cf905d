package app_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tapoctl/internal/app"
	"tapoctl/internal/color"
	"tapoctl/internal/domain"
	"tapoctl/internal/emulator"
	"tapoctl/internal/protocol/handshake"
	"tapoctl/internal/protocol/passthrough"
	"tapoctl/internal/services/device"
	"tapoctl/internal/services/session"
	"tapoctl/internal/transport"
)

var creds = domain.CloudCredentials{Email: "user@example.com", Password: "pw"}

func startDevice(t *testing.T) (*emulator.Device, string) {
	t.Helper()
	dev := emulator.NewDevice(emulator.DeviceConfig{Email: creds.Email, Password: creds.Password}, zerolog.Nop())
	srv := httptest.NewServer(dev)
	t.Cleanup(srv.Close)
	return dev, strings.TrimPrefix(srv.URL, "http://")
}

func newFleet() *app.Fleet {
	tr := transport.NewHTTP(time.Second, zerolog.Nop())
	ch := passthrough.New(tr, zerolog.Nop())
	sessions := session.New(handshake.New(tr, zerolog.Nop()), ch, zerolog.Nop())
	return app.NewFleet(sessions, ch, color.Table{}, creds, zerolog.Nop())
}

func TestFleet_EachReachesEveryDevice(t *testing.T) {
	d1, a1 := startDevice(t)
	d2, a2 := startDevice(t)
	f := newFleet()
	ctx := context.Background()

	clients, err := f.Connect(ctx, []string{a1, a2})
	if err != nil || len(clients) != 2 {
		t.Fatalf("Connect: %d clients, err %v", len(clients), err)
	}
	err = f.Each(ctx, clients, func(ctx context.Context, c *device.Client) error {
		return c.SetBrightness(ctx, 40, 0)
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if d1.State().Brightness != 40 || d2.State().Brightness != 40 {
		t.Fatal("not every device updated")
	}
}

func TestFleet_ReauthenticatesOnce(t *testing.T) {
	dev, addr := startDevice(t)
	f := newFleet()
	ctx := context.Background()

	clients, err := f.Connect(ctx, []string{addr})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	dev.RevokeTokens()

	calls := 0
	err = f.Each(ctx, clients, func(ctx context.Context, c *device.Client) error {
		calls++
		return c.TurnOn(ctx, 0)
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if calls != 2 {
		t.Fatalf("op ran %d times, want 2", calls)
	}
	if !dev.State().DeviceOn {
		t.Fatal("device not switched on after retry")
	}
}

func TestFleet_JoinsFailures(t *testing.T) {
	_, good := startDevice(t)
	f := newFleet()

	clients, err := f.Connect(context.Background(), []string{good, "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected error for unreachable device")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Fatalf("error does not name the device: %v", err)
	}
	if !errors.Is(err, handshake.ErrHandshakeFailed) {
		t.Fatalf("want handshake failure, got %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("connected %d clients, want 1", len(clients))
	}

	boom := errors.New("boom")
	err = f.Each(context.Background(), clients, func(context.Context, *device.Client) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want joined op error, got %v", err)
	}
}

// slowSessions records how many Establish calls overlap.
type slowSessions struct {
	mu       sync.Mutex
	in, peak int
}

func (s *slowSessions) Establish(_ context.Context, address string, _ domain.CloudCredentials) (domain.Session, error) {
	s.mu.Lock()
	s.in++
	if s.in > s.peak {
		s.peak = s.in
	}
	s.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	s.mu.Lock()
	s.in--
	s.mu.Unlock()

	var k domain.SessionKey
	k.Key[0] = 1
	return domain.Session{Handshake: domain.Handshake{Address: address, Key: k, Cookie: "c=1"}, Token: "t"}, nil
}

func TestFleet_ConcurrencyLimit(t *testing.T) {
	sessions := &slowSessions{}
	f := app.NewFleet(sessions, nil, color.Table{}, creds, zerolog.Nop())
	f.SetConcurrency(2)

	addrs := []string{"a", "b", "c", "d", "e", "f"}
	clients, err := f.Connect(context.Background(), addrs)
	if err != nil || len(clients) != len(addrs) {
		t.Fatalf("Connect: %d clients, err %v", len(clients), err)
	}
	if sessions.peak != 2 {
		t.Fatalf("peak concurrent logins: got %d, want 2", sessions.peak)
	}
}
