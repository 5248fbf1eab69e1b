package domain

import (
	"encoding/json"

	"github.com/samirrijal/mapbridge/internal/pkg/geospatial"
)

// LatLng represents a geographic coordinate in degrees (WGS 84).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLngBounds represents a geographic bounding box. SouthWest is expected to
// be component-wise less than or equal to NorthEast; callers own that check.
type LatLngBounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// Center returns the midpoint of the box.
func (b LatLngBounds) Center() LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// LineString is an immutable ordered sequence of coordinates.
type LineString struct {
	points []LatLng
}

// NewLineString copies points into a new line string.
func NewLineString(points []LatLng) LineString {
	cp := make([]LatLng, len(points))
	copy(cp, points)
	return LineString{points: cp}
}

// Points returns a copy of the coordinates in order.
func (l LineString) Points() []LatLng {
	cp := make([]LatLng, len(l.points))
	copy(cp, l.points)
	return cp
}

// Len returns the number of coordinates.
func (l LineString) Len() int { return len(l.points) }

// LengthMeters is the great-circle length of the line.
func (l LineString) LengthMeters() float64 {
	lats := make([]float64, len(l.points))
	lngs := make([]float64, len(l.points))
	for i, p := range l.points {
		lats[i], lngs[i] = p.Lat, p.Lng
	}
	return geospatial.PolylineLength(lats, lngs)
}

// MarshalJSON encodes the line string as an array of points.
func (l LineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Points())
}

// UnmarshalJSON decodes an array of points, copying them into a new line string.
func (l *LineString) UnmarshalJSON(data []byte) error {
	var points []LatLng
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	*l = NewLineString(points)
	return nil
}
