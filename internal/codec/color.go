package codec

import (
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// DecodeColor decodes an ARGB packed int: alpha in bits 24-31, red 16-23,
// green 8-15, blue 0-7. Bits above 31 are ignored.
func DecodeColor(v value.Value) (domain.Color, error) {
	argb, err := value.AsInt(v)
	if err != nil {
		return domain.Color{}, err
	}
	return ColorFromARGB(argb), nil
}

// ColorFromARGB unpacks argb into normalized channels.
func ColorFromARGB(argb int64) domain.Color {
	return domain.Color{
		A: float64((argb>>24)&0xff) / 255,
		R: float64((argb>>16)&0xff) / 255,
		G: float64((argb>>8)&0xff) / 255,
		B: float64(argb&0xff) / 255,
	}
}

// EncodeColor packs c back into ARGB. Channels are scaled by 255 and
// truncated, not rounded; out-of-range channels are clamped.
func EncodeColor(c domain.Color) int64 {
	return channelByte(c.A)<<24 | channelByte(c.R)<<16 | channelByte(c.G)<<8 | channelByte(c.B)
}

func channelByte(f float64) int64 {
	b := int64(f * 255)
	switch {
	case b < 0:
		return 0
	case b > 0xff:
		return 0xff
	}
	return b
}
