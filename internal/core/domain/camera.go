package domain

// CameraPosition is where the map camera looks. Tilt and Heading are in
// degrees; Heading is called "bearing" on the channel.
type CameraPosition struct {
	Target  LatLng  `json:"target"`
	Zoom    float64 `json:"zoom"`
	Tilt    float64 `json:"tilt"`
	Heading float64 `json:"heading"`
}

// CameraAnimation is the transition used when moving the camera.
type CameraAnimation uint8

const (
	CameraAnimationNone CameraAnimation = iota
	CameraAnimationEaseIn
	CameraAnimationFly
	CameraAnimationLinear
)

// MapType selects the base map rendering.
type MapType uint8

const (
	MapTypeNone MapType = iota
	MapTypeBasic
	MapTypeHybrid
	MapTypeNavi
	MapTypeSatellite
	MapTypeTerrain
)

// MyPositionMode is the location tracking mode of the map.
type MyPositionMode uint8

const (
	MyPositionModeDisabled MyPositionMode = iota
	MyPositionModeNormal
	MyPositionModeDirection
	MyPositionModeCompass
)

// LogoAlign places the SDK logo.
type LogoAlign uint8

const (
	LogoAlignLeftBottom LogoAlign = iota
	LogoAlignRightBottom
	LogoAlignLeftTop
	LogoAlignRightTop
)
