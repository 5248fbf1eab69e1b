package http

import (
	"testing"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

func TestRelayedTo(t *testing.T) {
	data, err := channel.MarshalEvent(channel.Event{MapID: "team.a", Name: channel.EventCameraIdle, Payload: value.Null()})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	tests := []struct {
		mapID string
		want  bool
	}{
		{"team.a", true},
		{"team_a", false},
		{"", true},
	}
	for _, tt := range tests {
		if got := relayedTo(data, tt.mapID); got != tt.want {
			t.Errorf("relayedTo(%q) = %v, want %v", tt.mapID, got, tt.want)
		}
	}

	if relayedTo([]byte(`{`), "team.a") {
		t.Error("malformed event must not be relayed to a map subscriber")
	}
}
