package ports

import (
	"context"

	"github.com/samirrijal/mapbridge/internal/core/domain"
)

// MapStateRepository persists the native state of map views.
type MapStateRepository interface {
	// Get returns domain.ErrMapNotFound when nothing is stored for id.
	Get(ctx context.Context, id string) (*domain.MapState, error)
	Upsert(ctx context.Context, state *domain.MapState) error
	Delete(ctx context.Context, id string) error
}
