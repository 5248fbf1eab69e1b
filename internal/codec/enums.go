package codec

import (
	"strconv"

	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// enumTable holds both directions of an enum's string mapping. encodes
// starts as the exact inverse of byName; encodeAs overrides single entries.
type enumTable[E comparable] struct {
	kind         string
	byName       map[string]E
	canonical    map[E]string
	encodes      map[E]string
	fallback     E
	fallbackName string
	strict       bool
}

func newEnumTable[E comparable](kind string, byName map[string]E, fallback E, fallbackName string) *enumTable[E] {
	t := &enumTable[E]{
		kind:         kind,
		byName:       byName,
		canonical:    make(map[E]string, len(byName)),
		encodes:      make(map[E]string, len(byName)),
		fallback:     fallback,
		fallbackName: fallbackName,
	}
	for name, e := range byName {
		t.canonical[e] = name
		t.encodes[e] = name
	}
	return t
}

func (t *enumTable[E]) encodeAs(e E, name string) *enumTable[E] {
	t.encodes[e] = name
	return t
}

// rejectUnknown makes decode fail on strings outside the table instead of
// returning the fallback.
func (t *enumTable[E]) rejectUnknown() *enumTable[E] {
	t.strict = true
	return t
}

func (t *enumTable[E]) decode(v value.Value) (E, error) {
	name, err := value.AsString(v)
	if err != nil {
		return t.fallback, err
	}
	if e, ok := t.byName[name]; ok {
		return e, nil
	}
	if t.strict {
		return t.fallback, &value.ShapeError{Want: t.kind, Got: strconv.Quote(name)}
	}
	return t.fallback, nil
}

func (t *enumTable[E]) encode(e E) string {
	if name, ok := t.encodes[e]; ok {
		return name
	}
	return t.fallbackName
}

// canonicalName ignores encodeAs overrides. Used where values are stored
// and read back by this service rather than sent over the channel.
func (t *enumTable[E]) canonicalName(e E) string {
	if name, ok := t.canonical[e]; ok {
		return name
	}
	return t.fallbackName
}

var cameraAnimations = newEnumTable("camera animation", map[string]domain.CameraAnimation{
	"easing": domain.CameraAnimationEaseIn,
	"fly":    domain.CameraAnimationFly,
	"linear": domain.CameraAnimationLinear,
}, domain.CameraAnimationNone, "none").
	encodeAs(domain.CameraAnimationNone, "none")

var mapTypes = newEnumTable("map type", map[string]domain.MapType{
	"basic":     domain.MapTypeBasic,
	"hybrid":    domain.MapTypeHybrid,
	"navi":      domain.MapTypeNavi,
	"satellite": domain.MapTypeSatellite,
	"terrain":   domain.MapTypeTerrain,
}, domain.MapTypeNone, "none").
	encodeAs(domain.MapTypeNone, "none")

var trackingModes = newEnumTable("location tracking mode", map[string]domain.MyPositionMode{
	"face":     domain.MyPositionModeCompass,
	"follow":   domain.MyPositionModeDirection,
	"noFollow": domain.MyPositionModeNormal,
}, domain.MyPositionModeDisabled, "none").
	encodeAs(domain.MyPositionModeDisabled, "none")

// The encoder swaps the diagonal corners. Do not symmetrize: plugin-side
// receivers decode with the swapped names.
var aligns = newEnumTable("align", map[string]domain.AlignType{
	"center":      domain.AlignCenter,
	"left":        domain.AlignLeft,
	"right":       domain.AlignRight,
	"top":         domain.AlignTop,
	"bottom":      domain.AlignBottom,
	"topLeft":     domain.AlignTopLeft,
	"topRight":    domain.AlignTopRight,
	"bottomLeft":  domain.AlignBottomLeft,
	"bottomRight": domain.AlignBottomRight,
}, domain.AlignCenter, "center").
	encodeAs(domain.AlignTopLeft, "bottomRight").
	encodeAs(domain.AlignBottomRight, "topLeft").
	encodeAs(domain.AlignTopRight, "bottomLeft").
	encodeAs(domain.AlignBottomLeft, "topRight").
	rejectUnknown()

var logoAligns = newEnumTable("logo align", map[string]domain.LogoAlign{
	"leftBottom":  domain.LogoAlignLeftBottom,
	"rightBottom": domain.LogoAlignRightBottom,
	"leftTop":     domain.LogoAlignLeftTop,
	"rightTop":    domain.LogoAlignRightTop,
}, domain.LogoAlignLeftBottom, "leftBottom")

var lineCaps = newEnumTable("line cap", map[string]domain.LineCap{
	"butt":   domain.LineCapButt,
	"round":  domain.LineCapRound,
	"square": domain.LineCapSquare,
}, domain.LineCapButt, "butt")

var lineJoins = newEnumTable("line join", map[string]domain.LineJoin{
	"bevel": domain.LineJoinBevel,
	"miter": domain.LineJoinMiter,
	"round": domain.LineJoinRound,
}, domain.LineJoinBevel, "bevel")

// DecodeCameraAnimation decodes easing, fly or linear; anything else is none.
func DecodeCameraAnimation(v value.Value) (domain.CameraAnimation, error) {
	return cameraAnimations.decode(v)
}

// EncodeCameraAnimation returns the channel name of a.
func EncodeCameraAnimation(a domain.CameraAnimation) string { return cameraAnimations.encode(a) }

// DecodeMapType decodes basic, hybrid, navi, satellite or terrain; anything
// else is none.
func DecodeMapType(v value.Value) (domain.MapType, error) { return mapTypes.decode(v) }

// EncodeMapType returns the channel name of t.
func EncodeMapType(t domain.MapType) string { return mapTypes.encode(t) }

// DecodeLocationTrackingMode decodes face, follow or noFollow; anything else
// disables tracking.
func DecodeLocationTrackingMode(v value.Value) (domain.MyPositionMode, error) {
	return trackingModes.decode(v)
}

// EncodeLocationTrackingMode returns the channel name of m, "none" when
// tracking is disabled or m is unknown.
func EncodeLocationTrackingMode(m domain.MyPositionMode) string { return trackingModes.encode(m) }

// DecodeAlign decodes an alignment name. Unknown names are a shape error.
func DecodeAlign(v value.Value) (domain.AlignType, error) { return aligns.decode(v) }

// EncodeAlign returns the channel name of a, with the diagonal corners
// swapped. Unknown variants encode as "center".
func EncodeAlign(a domain.AlignType) string { return aligns.encode(a) }

// DecodeLogoAlign decodes a logo position; anything unknown is leftBottom.
func DecodeLogoAlign(v value.Value) (domain.LogoAlign, error) { return logoAligns.decode(v) }

// EncodeLogoAlign returns the channel name of a.
func EncodeLogoAlign(a domain.LogoAlign) string { return logoAligns.encode(a) }

// DecodeLineCap decodes butt, round or square; anything else is butt.
func DecodeLineCap(v value.Value) (domain.LineCap, error) { return lineCaps.decode(v) }

// EncodeLineCap returns the channel name of c.
func EncodeLineCap(c domain.LineCap) string { return lineCaps.encode(c) }

// DecodeLineJoin decodes bevel, miter or round; anything else is bevel.
func DecodeLineJoin(v value.Value) (domain.LineJoin, error) { return lineJoins.decode(v) }

// EncodeLineJoin returns the channel name of j.
func EncodeLineJoin(j domain.LineJoin) string { return lineJoins.encode(j) }
