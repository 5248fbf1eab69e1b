package usecases

import (
	"fmt"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/codec"
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

type pendingEvent struct {
	name    string
	payload value.Value
}

// invocation carries one call through its method. Methods decode every
// argument before touching state, so a shape error never leaves a partial
// update behind.
type invocation struct {
	state     *domain.MapState
	args      map[string]value.Value
	arguments value.Value
	dirty     bool
	events    []pendingEvent
}

func (in *invocation) emit(name string, payload value.Value) {
	in.events = append(in.events, pendingEvent{name: name, payload: payload})
}

type methodFunc func(in *invocation) (value.Value, error)

func (s *MapService) registerMethods() map[string]methodFunc {
	return map[string]methodFunc{
		"updateCamera":            updateCamera,
		"getCameraPosition":       getCameraPosition,
		"fitBounds":               fitBounds,
		"setMapType":              setMapType,
		"getMapType":              getMapType,
		"setLocationTrackingMode": setLocationTrackingMode,
		"getLocationTrackingMode": getLocationTrackingMode,
		"setLogoAlign":            setLogoAlign,
		"getLogoAlign":            getLogoAlign,
		"addPathOverlay":          addPathOverlay,
		"getPathOverlay":          getPathOverlay,
		"addMarker":               addMarker,
		"getMarker":               getMarker,
		"removeOverlay":           removeOverlay,
	}
}

func cameraChange(c domain.CameraPosition, a domain.CameraAnimation) value.Value {
	return value.Map(map[string]value.Value{
		"position":  codec.EncodeCameraPosition(c),
		"animation": value.String(codec.EncodeCameraAnimation(a)),
	})
}

func updateCamera(in *invocation) (value.Value, error) {
	pos, err := value.FieldAs(in.args, "position", codec.DecodeCameraPosition)
	if err != nil {
		return value.Null(), err
	}
	anim, err := value.OptionalAs(in.args, "animation", domain.CameraAnimationNone, codec.DecodeCameraAnimation)
	if err != nil {
		return value.Null(), err
	}

	in.state.Camera = pos
	in.dirty = true
	in.emit(channel.EventCameraChange, cameraChange(pos, anim))
	return value.Null(), nil
}

func getCameraPosition(in *invocation) (value.Value, error) {
	return codec.EncodeCameraPosition(in.state.Camera), nil
}

// fitBounds moves the camera target to the centre of the bounds and keeps
// zoom, tilt and bearing.
func fitBounds(in *invocation) (value.Value, error) {
	bounds, err := value.FieldAs(in.args, "bounds", codec.DecodeLatLngBounds)
	if err != nil {
		return value.Null(), err
	}
	anim, err := value.OptionalAs(in.args, "animation", domain.CameraAnimationNone, codec.DecodeCameraAnimation)
	if err != nil {
		return value.Null(), err
	}

	in.state.Camera.Target = bounds.Center()
	in.dirty = true
	in.emit(channel.EventCameraChange, cameraChange(in.state.Camera, anim))
	return value.Null(), nil
}

func setMapType(in *invocation) (value.Value, error) {
	t, err := value.FieldAs(in.args, "mapType", codec.DecodeMapType)
	if err != nil {
		return value.Null(), err
	}
	in.state.MapType = t
	in.dirty = true
	return value.Null(), nil
}

func getMapType(in *invocation) (value.Value, error) {
	return value.String(codec.EncodeMapType(in.state.MapType)), nil
}

func setLocationTrackingMode(in *invocation) (value.Value, error) {
	m, err := value.FieldAs(in.args, "mode", codec.DecodeLocationTrackingMode)
	if err != nil {
		return value.Null(), err
	}
	in.state.TrackingMode = m
	in.dirty = true
	return value.Null(), nil
}

func getLocationTrackingMode(in *invocation) (value.Value, error) {
	return value.String(codec.EncodeLocationTrackingMode(in.state.TrackingMode)), nil
}

func setLogoAlign(in *invocation) (value.Value, error) {
	a, err := value.FieldAs(in.args, "align", codec.DecodeLogoAlign)
	if err != nil {
		return value.Null(), err
	}
	in.state.LogoAlign = a
	in.dirty = true
	return value.Null(), nil
}

func getLogoAlign(in *invocation) (value.Value, error) {
	return value.String(codec.EncodeLogoAlign(in.state.LogoAlign)), nil
}

// Paths and markers share one id space; adding an overlay replaces any
// overlay of either kind with the same id.
func addPathOverlay(in *invocation) (value.Value, error) {
	p, err := codec.DecodePathOverlay(in.arguments)
	if err != nil {
		return value.Null(), err
	}
	delete(in.state.Markers, p.ID)
	in.state.Paths[p.ID] = p
	in.dirty = true
	return value.Null(), nil
}

func getPathOverlay(in *invocation) (value.Value, error) {
	id, err := value.FieldAs(in.args, "id", value.AsString)
	if err != nil {
		return value.Null(), err
	}
	p, ok := in.state.Paths[id]
	if !ok {
		return value.Null(), fmt.Errorf("path overlay %q: %w", id, ErrNotFound)
	}
	return codec.EncodePathOverlay(p), nil
}

func addMarker(in *invocation) (value.Value, error) {
	m, err := codec.DecodeMarker(in.arguments)
	if err != nil {
		return value.Null(), err
	}
	delete(in.state.Paths, m.ID)
	in.state.Markers[m.ID] = m
	in.dirty = true
	return value.Null(), nil
}

func getMarker(in *invocation) (value.Value, error) {
	id, err := value.FieldAs(in.args, "id", value.AsString)
	if err != nil {
		return value.Null(), err
	}
	m, ok := in.state.Markers[id]
	if !ok {
		return value.Null(), fmt.Errorf("marker %q: %w", id, ErrNotFound)
	}
	return codec.EncodeMarker(m), nil
}

func removeOverlay(in *invocation) (value.Value, error) {
	id, err := value.FieldAs(in.args, "id", value.AsString)
	if err != nil {
		return value.Null(), err
	}
	_, isPath := in.state.Paths[id]
	_, isMarker := in.state.Markers[id]
	if !isPath && !isMarker {
		return value.Null(), fmt.Errorf("overlay %q: %w", id, ErrNotFound)
	}
	delete(in.state.Paths, id)
	delete(in.state.Markers, id)
	in.dirty = true
	return value.Null(), nil
}
