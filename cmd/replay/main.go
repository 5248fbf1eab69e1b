package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/mapbridge/internal/adapters/nats"
	"github.com/samirrijal/mapbridge/internal/pkg/config"
	"github.com/samirrijal/mapbridge/internal/pkg/logging"
)

// record is one line of a native event capture:
//
//	{"kind":"camera","map_id":"m1","delay_ms":250,"event":{...}}
type record struct {
	Kind    string          `json:"kind"` // symbol | indoor | camera
	MapID   string          `json:"map_id"`
	DelayMS int             `json:"delay_ms"` // wait before publishing
	Event   json.RawMessage `json:"event"`
}

// replay publishes a captured stream of native SDK events onto NATS so the
// API sees them as if the SDK bridge had sent them.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: replay <capture.jsonl>")
	}

	cfg, err := config.Load("mapbridge-replay")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open capture: %v", err)
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		log.Fatalf("read capture: %v", err)
	}
	slog.Info("replaying native events", "count", len(records), "file", os.Args[1])

	// Events of one map keep their order; maps replay concurrently.
	byMap := make(map[string][]record)
	for _, r := range records {
		byMap[r.MapID] = append(byMap[r.MapID], r)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 8) // max 8 maps in flight

	for mapID, rs := range byMap {
		wg.Add(1)
		go func(mapID string, rs []record) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			for _, r := range rs {
				if r.DelayMS > 0 {
					select {
					case <-time.After(time.Duration(r.DelayMS) * time.Millisecond):
					case <-ctx.Done():
						return
					}
				}
				if err := pub.PublishNativeEvent(ctx, r.Kind, mapID, r.Event); err != nil {
					slog.Error("publish native event", "map_id", mapID, "kind", r.Kind, "error", err)
				}
			}
		}(mapID, rs)
	}

	wg.Wait()
	slog.Info("replay complete")
}

func readRecords(f *os.File) ([]record, error) {
	var records []record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch r.Kind {
		case natsadapter.KindSymbolTap, natsadapter.KindIndoorFocus, natsadapter.KindCameraIdle:
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", line, r.Kind)
		}
		if r.MapID == "" {
			return nil, fmt.Errorf("line %d: map_id is required", line)
		}
		records = append(records, r)
	}
	return records, sc.Err()
}
