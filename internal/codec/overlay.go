package codec

import (
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// Defaults applied when an overlay omits optional keys.
const (
	DefaultPathColor    int64   = 0xFFFFFFFF
	DefaultOutlineColor int64   = 0xFF000000
	DefaultPathWidth    float64 = 5
)

// EncodeSymbol encodes s as {caption, position, hashCode}. A missing caption
// is sent as the empty string.
func EncodeSymbol(s domain.Symbol) value.Value {
	caption := ""
	if s.Caption != nil {
		caption = *s.Caption
	}
	return value.Map(map[string]value.Value{
		"caption":  value.String(caption),
		"position": EncodeLatLng(s.Position),
		"hashCode": value.Int(s.Hash),
	})
}

// EncodeIndoorSelection encodes s as {levelIndex, zoneIndex, region}.
func EncodeIndoorSelection(s domain.IndoorSelection) value.Value {
	return value.Map(map[string]value.Value{
		"levelIndex": value.Int(int64(s.LevelIndex)),
		"zoneIndex":  value.Int(int64(s.ZoneIndex)),
		"region":     EncodeIndoorRegion(s.Region),
	})
}

// EncodeIndoorRegion encodes r as {zones: [...]}, keeping zone order.
func EncodeIndoorRegion(r domain.IndoorRegion) value.Value {
	zones := make([]value.Value, len(r.Zones))
	for i, z := range r.Zones {
		zones[i] = EncodeIndoorZone(z)
	}
	return value.Map(map[string]value.Value{
		"zones": value.List(zones...),
	})
}

// EncodeIndoorZone encodes z as {id, defaultLevelIndex, levels: [...]}.
func EncodeIndoorZone(z domain.IndoorZone) value.Value {
	levels := make([]value.Value, len(z.Levels))
	for i, l := range z.Levels {
		levels[i] = EncodeIndoorLevel(l)
	}
	return value.Map(map[string]value.Value{
		"id":                value.String(z.ZoneID),
		"defaultLevelIndex": value.Int(int64(z.DefaultLevelIndex)),
		"levels":            value.List(levels...),
	})
}

// EncodeIndoorLevel encodes l as {name, hashCode}.
func EncodeIndoorLevel(l domain.IndoorLevel) value.Value {
	return value.Map(map[string]value.Value{
		"name":     value.String(l.Name),
		"hashCode": value.Int(l.Hash),
	})
}

// DecodePathOverlay decodes {id, coords, color?, outlineColor?, width?,
// lineCap?, lineJoin?}.
func DecodePathOverlay(v value.Value) (domain.PathOverlay, error) {
	d, err := value.AsDict(v)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	id, err := value.FieldAs(d, "id", value.AsString)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	coords, err := value.FieldAs(d, "coords", DecodeLineString)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	color, err := value.OptionalAs(d, "color", ColorFromARGB(DefaultPathColor), DecodeColor)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	outline, err := value.OptionalAs(d, "outlineColor", ColorFromARGB(DefaultOutlineColor), DecodeColor)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	width, err := value.OptionalAs(d, "width", DefaultPathWidth, value.AsDouble)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	lineCap, err := value.OptionalAs(d, "lineCap", domain.LineCapButt, DecodeLineCap)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	lineJoin, err := value.OptionalAs(d, "lineJoin", domain.LineJoinBevel, DecodeLineJoin)
	if err != nil {
		return domain.PathOverlay{}, err
	}
	return domain.PathOverlay{
		ID:           id,
		Coords:       coords,
		Color:        color,
		OutlineColor: outline,
		Width:        width,
		Cap:          lineCap,
		Join:         lineJoin,
	}, nil
}

// EncodePathOverlay encodes p with its coordinates read through
// LineString.Points.
func EncodePathOverlay(p domain.PathOverlay) value.Value {
	return value.Map(map[string]value.Value{
		"id":           value.String(p.ID),
		"coords":       EncodeLatLngs(p.Coords.Points()),
		"color":        value.Int(EncodeColor(p.Color)),
		"outlineColor": value.Int(EncodeColor(p.OutlineColor)),
		"width":        value.Double(p.Width),
		"lineCap":      value.String(EncodeLineCap(p.Cap)),
		"lineJoin":     value.String(EncodeLineJoin(p.Join)),
	})
}

// DecodeMarker decodes {id, position, caption?, captionAligns?, iconTint?}.
// Caption aligns default to [bottom]; one unknown align rejects the marker.
func DecodeMarker(v value.Value) (domain.Marker, error) {
	d, err := value.AsDict(v)
	if err != nil {
		return domain.Marker{}, err
	}
	id, err := value.FieldAs(d, "id", value.AsString)
	if err != nil {
		return domain.Marker{}, err
	}
	position, err := value.FieldAs(d, "position", DecodeLatLng)
	if err != nil {
		return domain.Marker{}, err
	}
	caption, err := value.OptionalAs(d, "caption", "", value.AsString)
	if err != nil {
		return domain.Marker{}, err
	}
	aligns, err := value.OptionalAs(d, "captionAligns", []domain.AlignType{domain.AlignBottom}, alignList)
	if err != nil {
		return domain.Marker{}, err
	}
	tint, err := value.OptionalAs(d, "iconTint", domain.Color{}, DecodeColor)
	if err != nil {
		return domain.Marker{}, err
	}
	return domain.Marker{
		ID:            id,
		Position:      position,
		Caption:       caption,
		CaptionAligns: aligns,
		IconTint:      tint,
	}, nil
}

// EncodeMarker encodes m. Caption aligns go through EncodeAlign.
func EncodeMarker(m domain.Marker) value.Value {
	aligns := make([]value.Value, len(m.CaptionAligns))
	for i, a := range m.CaptionAligns {
		aligns[i] = value.String(EncodeAlign(a))
	}
	return value.Map(map[string]value.Value{
		"id":            value.String(m.ID),
		"position":      EncodeLatLng(m.Position),
		"caption":       value.String(m.Caption),
		"captionAligns": value.List(aligns...),
		"iconTint":      value.Int(EncodeColor(m.IconTint)),
	})
}

func alignList(v value.Value) ([]domain.AlignType, error) {
	return value.ArrOf(v, DecodeAlign)
}
