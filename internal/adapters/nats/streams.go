package natsadapter

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// streams backing the channel. Channel events are kept briefly so a
// reconnecting relay can catch up; native events are work items consumed once.
var streams = []nats.StreamConfig{
	{
		Name:      "MAP_CHANNEL",
		Subjects:  []string{channelPrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "MAP_NATIVE",
		Subjects:  []string{nativePrefix + ">"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

func ensureStreams(js nats.JetStreamContext) error {
	for _, cfg := range streams {
		cfg := cfg
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

func connect(url string) (*nats.Conn, nats.JetStreamContext, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, js, nil
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("mapbridge"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
