// Package publish ships device status snapshots to NATS.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"tapoctl/internal/domain"
)

// DefaultPrefix roots every subject.
const DefaultPrefix = "tapo"

// ErrNoDeviceID is returned for snapshots that cannot be addressed.
var ErrNoDeviceID = errors.New("status snapshot has no device id")

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSPublisher publishes on <prefix>.<device_id>.status.
type NATSPublisher struct {
	conn   Conn
	prefix string
	log    zerolog.Logger
}

// New wraps an existing connection.
func New(conn Conn, prefix string, log zerolog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix, log: log}
}

// Connect dials url and returns a publisher plus a close function.
func Connect(url, prefix string, log zerolog.Logger) (*NATSPublisher, func(), error) {
	nc, err := nats.Connect(url,
		nats.Name("tapoctl"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(5),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("connected to NATS")
	return New(nc, prefix, log), nc.Close, nil
}

// Subject is the subject a snapshot for deviceID is published on.
func (p *NATSPublisher) Subject(deviceID string) string {
	return p.prefix + "." + sanitize(deviceID) + ".status"
}

// Publish marshals info and publishes it, waiting for the server to ack
// the flush or ctx to end.
func (p *NATSPublisher) Publish(ctx context.Context, info domain.DeviceInfo) error {
	if info.DeviceID == "" {
		return ErrNoDeviceID
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	subject := p.Subject(info.DeviceID)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}
	p.log.Debug().Str("subject", subject).Int("bytes", len(data)).Msg("published status")
	return nil
}

// sanitize keeps a device id to a single subject token.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, id)
}

var _ domain.StatusPublisher = (*NATSPublisher)(nil)
