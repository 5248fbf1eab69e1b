package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/codec"
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/core/usecases"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// MapInvoker runs channel calls; *usecases.MapService implements it.
type MapInvoker interface {
	Invoke(ctx context.Context, mapID string, call channel.MethodCall) (value.Value, error)
}

// TourActivities holds the activity implementations for the camera tour.
type TourActivities struct {
	Maps MapInvoker
}

// MoveCamera sends updateCamera for one tour stop.
func (a *TourActivities) MoveCamera(ctx context.Context, mapID string, stop TourStop) error {
	args := map[string]value.Value{
		"position": codec.EncodeCameraPosition(domain.CameraPosition{
			Target:  stop.Target,
			Zoom:    stop.Zoom,
			Tilt:    stop.Tilt,
			Heading: stop.Bearing,
		}),
	}
	if stop.Animation != "" {
		args["animation"] = value.String(stop.Animation)
	}
	return a.invoke(ctx, mapID, "updateCamera", args)
}

// SetMapType sends setMapType before the tour starts.
func (a *TourActivities) SetMapType(ctx context.Context, mapID, mapType string) error {
	return a.invoke(ctx, mapID, "setMapType", map[string]value.Value{
		"mapType": value.String(mapType),
	})
}

// invoke runs one call. Rejections by the channel are not retried; a retry
// would send the same arguments again.
func (a *TourActivities) invoke(ctx context.Context, mapID, method string, args map[string]value.Value) error {
	activity.GetLogger(ctx).Debug("tour call", "mapID", mapID, "method", method)

	_, err := a.Maps.Invoke(ctx, mapID, channel.MethodCall{Method: method, Arguments: value.Map(args)})
	if err == nil {
		return nil
	}
	if code := usecases.ErrorCode(err); code != channel.CodeInternal {
		return temporal.NewNonRetryableApplicationError(err.Error(), code, err)
	}
	return fmt.Errorf("%s on map %s: %w", method, mapID, err)
}
