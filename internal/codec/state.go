package codec

import (
	"sort"
	"time"

	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// EncodeMapState encodes s for storage. Paths and markers are written as
// lists sorted by id, and caption aligns use their canonical names so the
// stored form decodes back to the same state.
func EncodeMapState(s *domain.MapState) value.Value {
	pathIDs := sortedKeys(s.Paths)
	paths := make([]value.Value, len(pathIDs))
	for i, id := range pathIDs {
		paths[i] = EncodePathOverlay(s.Paths[id])
	}

	markerIDs := sortedKeys(s.Markers)
	markers := make([]value.Value, len(markerIDs))
	for i, id := range markerIDs {
		m := EncodeMarker(s.Markers[id])
		markers[i] = withStoredAligns(m, s.Markers[id].CaptionAligns)
	}

	return value.Map(map[string]value.Value{
		"id":           value.String(s.ID),
		"camera":       EncodeCameraPosition(s.Camera),
		"mapType":      value.String(mapTypes.canonicalName(s.MapType)),
		"trackingMode": value.String(trackingModes.canonicalName(s.TrackingMode)),
		"logoAlign":    value.String(logoAligns.canonicalName(s.LogoAlign)),
		"paths":        value.List(paths...),
		"markers":      value.List(markers...),
		"updatedAt":    value.String(s.UpdatedAt.UTC().Format(time.RFC3339Nano)),
	})
}

// DecodeMapState is the inverse of EncodeMapState.
func DecodeMapState(v value.Value) (*domain.MapState, error) {
	d, err := value.AsDict(v)
	if err != nil {
		return nil, err
	}
	id, err := value.FieldAs(d, "id", value.AsString)
	if err != nil {
		return nil, err
	}
	s := domain.NewMapState(id)

	if s.Camera, err = value.FieldAs(d, "camera", DecodeCameraPosition); err != nil {
		return nil, err
	}
	if s.MapType, err = value.OptionalAs(d, "mapType", domain.MapTypeBasic, DecodeMapType); err != nil {
		return nil, err
	}
	if s.TrackingMode, err = value.OptionalAs(d, "trackingMode", domain.MyPositionModeDisabled, DecodeLocationTrackingMode); err != nil {
		return nil, err
	}
	if s.LogoAlign, err = value.OptionalAs(d, "logoAlign", domain.LogoAlignLeftBottom, DecodeLogoAlign); err != nil {
		return nil, err
	}

	paths, err := value.OptionalAs(d, "paths", []domain.PathOverlay(nil), func(v value.Value) ([]domain.PathOverlay, error) {
		return value.ArrOf(v, DecodePathOverlay)
	})
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		s.Paths[p.ID] = p
	}

	markers, err := value.OptionalAs(d, "markers", []domain.Marker(nil), func(v value.Value) ([]domain.Marker, error) {
		return value.ArrOf(v, DecodeMarker)
	})
	if err != nil {
		return nil, err
	}
	for _, m := range markers {
		s.Markers[m.ID] = m
	}

	updated, err := value.OptionalAs(d, "updatedAt", "", value.AsString)
	if err != nil {
		return nil, err
	}
	if updated != "" {
		t, perr := time.Parse(time.RFC3339Nano, updated)
		if perr != nil {
			return nil, value.At(&value.ShapeError{Want: "RFC3339 timestamp", Got: updated}, "updatedAt")
		}
		s.UpdatedAt = t
	}
	return s, nil
}

func withStoredAligns(marker value.Value, set []domain.AlignType) value.Value {
	d, _ := value.AsDict(marker)
	names := make([]value.Value, len(set))
	for i, a := range set {
		names[i] = value.String(aligns.canonicalName(a))
	}
	d["captionAligns"] = value.List(names...)
	return value.Map(d)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
