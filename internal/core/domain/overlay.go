package domain

// Symbol is a map symbol (POI) reported by the SDK when tapped.
type Symbol struct {
	Caption  *string `json:"caption,omitempty"`
	Position LatLng  `json:"position"`
	Hash     int64   `json:"hash"`
}

// AlignType positions an overlay caption relative to its anchor.
type AlignType uint8

const (
	AlignCenter AlignType = iota
	AlignLeft
	AlignRight
	AlignTop
	AlignBottom
	AlignTopLeft
	AlignTopRight
	AlignBottomLeft
	AlignBottomRight
)

// LineCap is the end-cap style of a line overlay.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin is the corner style of a line overlay.
type LineJoin uint8

const (
	LineJoinBevel LineJoin = iota
	LineJoinMiter
	LineJoinRound
)

// Color is a color with normalized channels in [0, 1].
type Color struct {
	A float64
	R float64
	G float64
	B float64
}

// PathOverlay is a polyline drawn over the map.
type PathOverlay struct {
	ID           string
	Coords       LineString
	Color        Color
	OutlineColor Color
	Width        float64
	Cap          LineCap
	Join         LineJoin
}

// Marker is a point overlay with an optional caption.
type Marker struct {
	ID            string
	Position      LatLng
	Caption       string
	CaptionAligns []AlignType
	IconTint      Color
}
