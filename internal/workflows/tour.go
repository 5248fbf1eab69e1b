package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/mapbridge/internal/core/domain"
)

// TourStop is one camera position of a tour.
type TourStop struct {
	Target      domain.LatLng
	Zoom        float64
	Tilt        float64
	Bearing     float64
	Animation   string // channel name, "" = none
	HoldSeconds int
}

// TourInput is the input for the camera tour workflow.
type TourInput struct {
	MapID   string
	MapType string // optional, set before the first stop
	Stops   []TourStop
}

// TourResult reports how far a tour got.
type TourResult struct {
	Visited int
}

// CameraTourWorkflow moves the camera of one map through a list of stops,
// holding on each for HoldSeconds. Every move goes through the map channel,
// so plugin clients see the same onCameraChange events as for a user call.
func CameraTourWorkflow(ctx workflow.Context, input TourInput) (TourResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting camera tour", "mapID", input.MapID, "stops", len(input.Stops))

	if input.MapID == "" {
		return TourResult{}, temporal.NewNonRetryableApplicationError("map id is required", "InvalidTour", nil)
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	if input.MapType != "" {
		if err := workflow.ExecuteActivity(ctx, "SetMapType", input.MapID, input.MapType).Get(ctx, nil); err != nil {
			return TourResult{}, err
		}
	}

	var result TourResult
	for i, stop := range input.Stops {
		if err := workflow.ExecuteActivity(ctx, "MoveCamera", input.MapID, stop).Get(ctx, nil); err != nil {
			logger.Warn("camera move failed", "stop", i, "error", err)
			return result, fmt.Errorf("stop %d: %w", i, err)
		}
		result.Visited++

		if stop.HoldSeconds > 0 {
			if err := workflow.Sleep(ctx, time.Duration(stop.HoldSeconds)*time.Second); err != nil {
				return result, err
			}
		}
	}

	logger.Info("Camera tour finished", "mapID", input.MapID, "visited", result.Visited)
	return result, nil
}
