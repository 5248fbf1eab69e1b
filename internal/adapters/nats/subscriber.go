package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/core/ports"
	"github.com/samirrijal/mapbridge/internal/pkg/metrics"
)

// Subscriber implements ports.NativeEventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS and ensures the map streams exist.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeNativeEvents registers one durable consumer per native event kind.
// Nil handlers are skipped. A message that fails to decode or to handle is
// nak'ed and redelivered at most three times.
func (s *Subscriber) SubscribeNativeEvents(ctx context.Context, h ports.NativeEventHandlers) error {
	if h.SymbolTap != nil {
		if err := s.subscribe(ctx, KindSymbolTap, func(ctx context.Context, msg *nats.Msg) error {
			var e domain.SymbolTapEvent
			if err := decodeNative(msg, &e, &e.MapID); err != nil {
				return err
			}
			return h.SymbolTap(ctx, &e)
		}); err != nil {
			return err
		}
	}
	if h.IndoorFocus != nil {
		if err := s.subscribe(ctx, KindIndoorFocus, func(ctx context.Context, msg *nats.Msg) error {
			var e domain.IndoorFocusEvent
			if err := decodeNative(msg, &e, &e.MapID); err != nil {
				return err
			}
			return h.IndoorFocus(ctx, &e)
		}); err != nil {
			return err
		}
	}
	if h.CameraIdle != nil {
		if err := s.subscribe(ctx, KindCameraIdle, func(ctx context.Context, msg *nats.Msg) error {
			var e domain.CameraIdleEvent
			if err := decodeNative(msg, &e, &e.MapID); err != nil {
				return err
			}
			return h.CameraIdle(ctx, &e)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Subscriber) subscribe(ctx context.Context, kind string, handle func(context.Context, *nats.Msg) error) error {
	sub, err := s.js.Subscribe(NativeSubject(kind, ""), func(msg *nats.Msg) {
		if err := handle(ctx, msg); err != nil {
			metrics.NativeEventsConsumed.WithLabelValues(kind, "error").Inc()
			slog.Warn("native event failed", "kind", kind, "subject", msg.Subject, "error", err)
			_ = msg.Nak()
			return
		}
		metrics.NativeEventsConsumed.WithLabelValues(kind, "ok").Inc()
		_ = msg.Ack()
	},
		nats.Durable("native-"+kind+"-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s events: %w", kind, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// decodeNative unmarshals a native event and fills its map id from the
// subject when the payload leaves it empty.
func decodeNative(msg *nats.Msg, event interface{}, mapID *string) error {
	if err := json.Unmarshal(msg.Data, event); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Subject, err)
	}
	if *mapID == "" {
		*mapID = mapIDFromSubject(msg.Subject)
	}
	if *mapID == "" {
		return fmt.Errorf("decode %s: missing map id", msg.Subject)
	}
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
