package natsadapter

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mapbridge/internal/channel"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the map
// streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js}, nil
}

// PublishChannelEvent publishes e on its map's channel subject.
func (p *Publisher) PublishChannelEvent(ctx context.Context, e channel.Event) error {
	data, err := channel.MarshalEvent(e)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ChannelSubject(e.MapID), data, nats.Context(ctx))
	return err
}

// PublishNativeEvent publishes a native SDK event of the given kind. The SDK
// bridge publishes these; the service uses it for replay and tests.
func (p *Publisher) PublishNativeEvent(ctx context.Context, kind, mapID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(NativeSubject(kind, mapID), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for readiness checks and the
// WebSocket relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
