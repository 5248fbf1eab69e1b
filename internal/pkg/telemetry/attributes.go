package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span this service starts.
const TracerName = "github.com/samirrijal/mapbridge"

// Span attribute keys.
const (
	AttrMapID     = attribute.Key("mapbridge.map_id")
	AttrMethod    = attribute.Key("mapbridge.method")
	AttrEvent     = attribute.Key("mapbridge.event")
	AttrErrorCode = attribute.Key("mapbridge.error_code")
	AttrCacheHit  = attribute.Key("mapbridge.cache_hit")
)

// Tracer returns the service tracer from the global provider. Without
// InitTracer it is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
