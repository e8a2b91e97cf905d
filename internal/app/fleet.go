package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/status"
	"tapoctl/internal/services/device"
)

// DefaultConcurrency bounds how many devices a Fleet talks to at once.
const DefaultConcurrency = 8

// Fleet runs device operations across many devices in parallel.
type Fleet struct {
	sessions domain.SessionService
	channel  device.Sender
	colors   domain.ColorResolver
	creds    domain.CloudCredentials
	limit    int
	log      zerolog.Logger
}

// NewFleet builds a Fleet that logs in with creds.
func NewFleet(
	sessions domain.SessionService,
	channel device.Sender,
	colors domain.ColorResolver,
	creds domain.CloudCredentials,
	log zerolog.Logger,
) *Fleet {
	return &Fleet{
		sessions: sessions,
		channel:  channel,
		colors:   colors,
		creds:    creds,
		limit:    DefaultConcurrency,
		log:      log,
	}
}

// SetConcurrency changes how many devices are contacted at once. Values
// below one mean no limit.
func (f *Fleet) SetConcurrency(n int) {
	f.limit = n
}

// group bounds the fan-out. Goroutines record their own failure and return
// nil so one device never cancels or hides another; callers join the slots.
func (f *Fleet) group() *errgroup.Group {
	g := new(errgroup.Group)
	if f.limit > 0 {
		g.SetLimit(f.limit)
	}
	return g
}

// Connect opens a client per address. It waits for every attempt and
// returns the clients that connected alongside the joined failures.
func (f *Fleet) Connect(ctx context.Context, addresses []string) ([]*device.Client, error) {
	clients := make([]*device.Client, len(addresses))
	errs := make([]error, len(addresses))

	g := f.group()
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			sess, err := f.sessions.Establish(ctx, addr, f.creds)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", addr, err)
				return nil
			}
			clients[i] = device.NewClient(sess, f.channel, device.Options{
				Sessions: f.sessions,
				Colors:   f.colors,
			}, f.log)
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs

	out := clients[:0]
	for _, c := range clients {
		if c != nil {
			out = append(out, c)
		}
	}
	return out, errors.Join(errs...)
}

// Each runs op on every client concurrently and waits for all of them.
// A device token rejection triggers one reauthentication and one retry.
func (f *Fleet) Each(ctx context.Context, clients []*device.Client, op func(context.Context, *device.Client) error) error {
	errs := make([]error, len(clients))

	g := f.group()
	for i, c := range clients {
		i, c := i, c
		g.Go(func() error {
			err := op(ctx, c)
			if errors.Is(err, status.ErrDeviceTokenExpired) {
				f.log.Info().Str("device", c.Address()).Msg("device token rejected, logging in again")
				if rerr := c.Reauthenticate(ctx, f.creds); rerr != nil {
					err = errors.Join(err, rerr)
				} else {
					err = op(ctx, c)
				}
			}
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", c.Address(), err)
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs
	return errors.Join(errs...)
}
