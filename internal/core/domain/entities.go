package domain

import (
	"errors"
	"time"
)

// ErrMapNotFound is returned by repositories when no state is stored for a map.
var ErrMapNotFound = errors.New("map state not found")

// MapState is the native state of one map view.
type MapState struct {
	ID           string
	Camera       CameraPosition
	MapType      MapType
	TrackingMode MyPositionMode
	LogoAlign    LogoAlign
	Paths        map[string]PathOverlay
	Markers      map[string]Marker
	UpdatedAt    time.Time
}

// NewMapState returns the state a freshly created map view starts with.
func NewMapState(id string) *MapState {
	return &MapState{
		ID:           id,
		MapType:      MapTypeBasic,
		TrackingMode: MyPositionModeDisabled,
		LogoAlign:    LogoAlignLeftBottom,
		Paths:        make(map[string]PathOverlay),
		Markers:      make(map[string]Marker),
	}
}

// SymbolTapEvent is emitted by the SDK when a symbol is tapped.
type SymbolTapEvent struct {
	MapID  string    `json:"map_id"`
	Symbol Symbol    `json:"symbol"`
	Time   time.Time `json:"time"`
}

// IndoorFocusEvent is emitted when the focused indoor level changes.
// Selection is nil when the map leaves an indoor area.
type IndoorFocusEvent struct {
	MapID     string           `json:"map_id"`
	Selection *IndoorSelection `json:"selection,omitempty"`
	Time      time.Time        `json:"time"`
}

// CameraIdleEvent is emitted when the camera settles after a move.
type CameraIdleEvent struct {
	MapID    string         `json:"map_id"`
	Position CameraPosition `json:"position"`
	Time     time.Time      `json:"time"`
}
