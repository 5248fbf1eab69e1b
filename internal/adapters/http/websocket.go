package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/mapbridge/internal/adapters/nats"
	"github.com/samirrijal/mapbridge/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to map events.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	Map    string `json:"map"`    // map id, "" = every map
}

// WebSocketHandler returns a handler relaying channel events from NATS to
// plugin clients. A client connected with ?map=<id> is subscribed to that map
// right away; further maps are added with
// {"action":"subscribe","map":"<id>"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		if nc == nil {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"event relay unavailable"}`))
			return
		}

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(mapID string) error {
			subject := natsadapter.ChannelSubject(mapID)
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				if !relayedTo(msg.Data, mapID) {
					return
				}
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return err
			}
			subs[subject] = s
			return nil
		}

		if mapID := c.Query("map"); mapID != "" {
			if err := subscribe(mapID); err != nil {
				slog.Warn("ws initial subscribe", "map_id", mapID, "error", err)
				return
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject := natsadapter.ChannelSubject(m.Map)

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				if err := subscribe(m.Map); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}

// relayedTo reports whether a channel event belongs to mapID. An empty mapID
// relays every event.
func relayedTo(data []byte, mapID string) bool {
	if mapID == "" {
		return true
	}
	var ev struct {
		MapID string `json:"map_id"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return false
	}
	return ev.MapID == mapID
}
