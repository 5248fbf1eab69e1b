package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// EventPublisher pushes channel events to the plugin side.
type EventPublisher interface {
	PublishChannelEvent(ctx context.Context, event channel.Event) error
}

// NativeEventHandlers receive events raised by the map SDK.
type NativeEventHandlers struct {
	SymbolTap   func(ctx context.Context, e *domain.SymbolTapEvent) error
	IndoorFocus func(ctx context.Context, e *domain.IndoorFocusEvent) error
	CameraIdle  func(ctx context.Context, e *domain.CameraIdleEvent) error
}

// NativeEventSubscriber delivers native SDK events from a message broker.
type NativeEventSubscriber interface {
	SubscribeNativeEvents(ctx context.Context, handlers NativeEventHandlers) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
