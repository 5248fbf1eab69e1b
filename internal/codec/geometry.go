package codec

import (
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// DecodeLatLng decodes {lat, lng}. Both keys are required.
func DecodeLatLng(v value.Value) (domain.LatLng, error) {
	d, err := value.AsDict(v)
	if err != nil {
		return domain.LatLng{}, err
	}
	lat, err := value.FieldAs(d, "lat", value.AsDouble)
	if err != nil {
		return domain.LatLng{}, err
	}
	lng, err := value.FieldAs(d, "lng", value.AsDouble)
	if err != nil {
		return domain.LatLng{}, err
	}
	return domain.LatLng{Lat: lat, Lng: lng}, nil
}

// EncodeLatLng encodes p as {lat, lng}.
func EncodeLatLng(p domain.LatLng) value.Value {
	return value.Map(map[string]value.Value{
		"lat": value.Double(p.Lat),
		"lng": value.Double(p.Lng),
	})
}

// DecodeLatLngBounds decodes {southWest, northEast}.
func DecodeLatLngBounds(v value.Value) (domain.LatLngBounds, error) {
	d, err := value.AsDict(v)
	if err != nil {
		return domain.LatLngBounds{}, err
	}
	sw, err := value.FieldAs(d, "southWest", DecodeLatLng)
	if err != nil {
		return domain.LatLngBounds{}, err
	}
	ne, err := value.FieldAs(d, "northEast", DecodeLatLng)
	if err != nil {
		return domain.LatLngBounds{}, err
	}
	return domain.LatLngBounds{SouthWest: sw, NorthEast: ne}, nil
}

// EncodeLatLngBounds encodes b as {southWest, northEast}.
func EncodeLatLngBounds(b domain.LatLngBounds) value.Value {
	return value.Map(map[string]value.Value{
		"southWest": EncodeLatLng(b.SouthWest),
		"northEast": EncodeLatLng(b.NorthEast),
	})
}

// DecodeCameraPosition decodes {target, zoom, tilt, bearing}. There are no
// defaults; every key is required.
func DecodeCameraPosition(v value.Value) (domain.CameraPosition, error) {
	d, err := value.AsDict(v)
	if err != nil {
		return domain.CameraPosition{}, err
	}
	target, err := value.FieldAs(d, "target", DecodeLatLng)
	if err != nil {
		return domain.CameraPosition{}, err
	}
	zoom, err := value.FieldAs(d, "zoom", value.AsDouble)
	if err != nil {
		return domain.CameraPosition{}, err
	}
	tilt, err := value.FieldAs(d, "tilt", value.AsDouble)
	if err != nil {
		return domain.CameraPosition{}, err
	}
	bearing, err := value.FieldAs(d, "bearing", value.AsDouble)
	if err != nil {
		return domain.CameraPosition{}, err
	}
	return domain.CameraPosition{Target: target, Zoom: zoom, Tilt: tilt, Heading: bearing}, nil
}

// EncodeCameraPosition encodes c. The native heading goes out as "bearing".
func EncodeCameraPosition(c domain.CameraPosition) value.Value {
	return value.Map(map[string]value.Value{
		"target":  EncodeLatLng(c.Target),
		"zoom":    value.Double(c.Zoom),
		"tilt":    value.Double(c.Tilt),
		"bearing": value.Double(c.Heading),
	})
}

// DecodeLineString decodes a list of points. An empty list is a valid,
// empty line string.
func DecodeLineString(v value.Value) (domain.LineString, error) {
	points, err := value.ArrOf(v, DecodeLatLng)
	if err != nil {
		return domain.LineString{}, err
	}
	return domain.NewLineString(points), nil
}

// EncodeLatLngs encodes points as a list of {lat, lng}. Line strings are
// read back through LineString.Points.
func EncodeLatLngs(points []domain.LatLng) value.Value {
	items := make([]value.Value, len(points))
	for i, p := range points {
		items[i] = EncodeLatLng(p)
	}
	return value.List(items...)
}
