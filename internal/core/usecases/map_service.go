package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/codec"
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/core/ports"
	"github.com/samirrijal/mapbridge/internal/pkg/metrics"
	"github.com/samirrijal/mapbridge/internal/pkg/telemetry"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

var (
	// ErrUnknownMethod is returned for calls naming a method that is not registered.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrNotFound is returned when a call references an overlay that does not exist.
	ErrNotFound = errors.New("not found")
)

const defaultStateTTL = 300

// MapService applies channel calls to the native state of map views.
type MapService struct {
	states    ports.MapStateRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	stateTTL  int
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*mapLock

	methods map[string]methodFunc
}

// MapServiceOption customises a MapService.
type MapServiceOption func(*MapService)

// WithStateTTL sets the cache TTL of map state in seconds.
func WithStateTTL(seconds int) MapServiceOption {
	return func(s *MapService) {
		if seconds > 0 {
			s.stateTTL = seconds
		}
	}
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) MapServiceOption {
	return func(s *MapService) { s.now = now }
}

// NewMapService creates a MapService. cache and publisher may be nil.
func NewMapService(
	states ports.MapStateRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	opts ...MapServiceOption,
) *MapService {
	s := &MapService{
		states:    states,
		cache:     cache,
		publisher: publisher,
		stateTTL:  defaultStateTTL,
		now:       time.Now,
		locks:     make(map[string]*mapLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.methods = s.registerMethods()
	return s
}

// Methods lists the channel methods the service answers, sorted.
func (s *MapService) Methods() []string {
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs one channel call against map mapID. Decode failures leave the
// state untouched and return a *value.ShapeError.
func (s *MapService) Invoke(ctx context.Context, mapID string, call channel.MethodCall) (result value.Value, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "MapService.Invoke", trace.WithAttributes(
		telemetry.AttrMapID.String(mapID),
		telemetry.AttrMethod.String(call.Method),
	))
	start := s.now()
	defer func() {
		code := ErrorCode(err)
		status := "ok"
		if err != nil {
			status = code
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(telemetry.AttrErrorCode.String(code))
		}
		method := call.Method
		if errors.Is(err, ErrUnknownMethod) {
			method = "unknown"
		}
		metrics.ChannelCalls.WithLabelValues(method, status).Inc()
		metrics.ChannelCallDuration.WithLabelValues(method).Observe(s.now().Sub(start).Seconds())
		if code == channel.CodeShapeError {
			metrics.DecodeErrors.WithLabelValues(method).Inc()
		}
		span.End()
	}()

	fn, ok := s.methods[call.Method]
	if !ok {
		return value.Null(), fmt.Errorf("%w: %q", ErrUnknownMethod, call.Method)
	}
	args, err := call.Args()
	if err != nil {
		return value.Null(), err
	}

	unlock := s.lock(mapID)
	defer unlock()

	state, err := s.load(ctx, mapID)
	if err != nil {
		return value.Null(), err
	}

	inv := &invocation{state: state, args: args, arguments: call.Arguments}
	result, err = fn(inv)
	if err != nil {
		return value.Null(), err
	}

	if inv.dirty {
		state.UpdatedAt = s.now().UTC()
		if err := s.save(ctx, state); err != nil {
			return value.Null(), err
		}
	}
	for _, ev := range inv.events {
		s.publish(ctx, mapID, ev.name, ev.payload)
	}
	return result, nil
}

// State returns the current state of mapID, the default state when nothing
// has been stored yet.
func (s *MapService) State(ctx context.Context, mapID string) (*domain.MapState, error) {
	unlock := s.lock(mapID)
	defer unlock()
	return s.load(ctx, mapID)
}

// Reset forgets the stored state of mapID.
func (s *MapService) Reset(ctx context.Context, mapID string) error {
	unlock := s.lock(mapID)
	defer unlock()

	if err := s.states.Delete(ctx, mapID); err != nil && !errors.Is(err, domain.ErrMapNotFound) {
		return fmt.Errorf("delete map state: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, stateCacheKey(mapID))
	}
	return nil
}

// HandleSymbolTap forwards a tapped symbol to the plugin side.
func (s *MapService) HandleSymbolTap(ctx context.Context, e *domain.SymbolTapEvent) error {
	s.publish(ctx, e.MapID, channel.EventSymbolTapped, codec.EncodeSymbol(e.Symbol))
	return nil
}

// HandleIndoorFocus forwards an indoor level change. A nil selection is sent
// as null.
func (s *MapService) HandleIndoorFocus(ctx context.Context, e *domain.IndoorFocusEvent) error {
	payload := value.Null()
	if e.Selection != nil {
		payload = codec.EncodeIndoorSelection(*e.Selection)
	}
	s.publish(ctx, e.MapID, channel.EventSelectedIndoorChanged, payload)
	return nil
}

// HandleCameraIdle records where the camera settled and forwards it.
func (s *MapService) HandleCameraIdle(ctx context.Context, e *domain.CameraIdleEvent) error {
	unlock := s.lock(e.MapID)
	state, err := s.load(ctx, e.MapID)
	if err == nil {
		state.Camera = e.Position
		state.UpdatedAt = s.now().UTC()
		err = s.save(ctx, state)
	}
	unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, e.MapID, channel.EventCameraIdle, codec.EncodeCameraPosition(e.Position))
	return nil
}

// NativeHandlers bundles the native event handlers for a subscriber.
func (s *MapService) NativeHandlers() ports.NativeEventHandlers {
	return ports.NativeEventHandlers{
		SymbolTap:   s.HandleSymbolTap,
		IndoorFocus: s.HandleIndoorFocus,
		CameraIdle:  s.HandleCameraIdle,
	}
}

// ErrorCode maps an Invoke error to its channel error code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, value.ErrShape):
		return channel.CodeShapeError
	case errors.Is(err, ErrUnknownMethod):
		return channel.CodeUnknownMethod
	case errors.Is(err, ErrNotFound):
		return channel.CodeNotFound
	default:
		return channel.CodeInternal
	}
}

// Reply turns the outcome of Invoke into an envelope. Internal errors are
// reported without their cause.
func Reply(result value.Value, err error) channel.Envelope {
	if err == nil {
		return channel.Success(result)
	}
	code := ErrorCode(err)
	if code == channel.CodeInternal {
		return channel.Failure(code, errors.New("internal error"))
	}
	return channel.Failure(code, err)
}

// mapLock serialises calls on one map. refs counts holders and waiters; the
// entry is dropped when it reaches zero.
type mapLock struct {
	mu   sync.Mutex
	refs int
}

func (s *MapService) lock(mapID string) func() {
	s.mu.Lock()
	l, ok := s.locks[mapID]
	if !ok {
		l = &mapLock{}
		s.locks[mapID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, mapID)
		}
		s.mu.Unlock()
	}
}

func stateCacheKey(mapID string) string { return "mapstate:" + mapID }

func (s *MapService) load(ctx context.Context, mapID string) (*domain.MapState, error) {
	key := stateCacheKey(mapID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			if state, err := unmarshalState(data); err == nil {
				metrics.CacheHits.WithLabelValues("map_state").Inc()
				trace.SpanFromContext(ctx).SetAttributes(telemetry.AttrCacheHit.Bool(true))
				return state, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("map_state").Inc()
	}

	state, err := s.states.Get(ctx, mapID)
	if errors.Is(err, domain.ErrMapNotFound) {
		return domain.NewMapState(mapID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load map state: %w", err)
	}
	_ = s.cacheState(ctx, state)
	return state, nil
}

// save writes state to the repository and refreshes the cache. A cache entry
// that cannot be refreshed is evicted so the next load reads the repository.
func (s *MapService) save(ctx context.Context, state *domain.MapState) error {
	if err := s.states.Upsert(ctx, state); err != nil {
		return fmt.Errorf("save map state: %w", err)
	}
	if err := s.cacheState(ctx, state); err != nil {
		slog.Warn("refresh cached map state", "map_id", state.ID, "error", err)
		if err := s.cache.Delete(ctx, stateCacheKey(state.ID)); err != nil {
			slog.Error("evict stale map state", "map_id", state.ID, "error", err)
		}
	}
	return nil
}

func (s *MapService) cacheState(ctx context.Context, state *domain.MapState) error {
	if s.cache == nil {
		return nil
	}
	data, err := codec.EncodeMapState(state).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal map state: %w", err)
	}
	return s.cache.Set(ctx, stateCacheKey(state.ID), data, s.stateTTL)
}

func unmarshalState(data []byte) (*domain.MapState, error) {
	v, err := value.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return codec.DecodeMapState(v)
}

// publish is best-effort; a broker outage must not fail the call that
// produced the event.
func (s *MapService) publish(ctx context.Context, mapID, name string, payload value.Value) {
	if s.publisher == nil {
		return
	}
	ev := channel.Event{MapID: mapID, Name: name, Payload: payload}
	if err := s.publisher.PublishChannelEvent(ctx, ev); err != nil {
		slog.Warn("publish channel event", "map_id", mapID, "event", name, "error", err)
		return
	}
	metrics.ChannelEvents.WithLabelValues(name).Inc()
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(telemetry.AttrEvent.String(name)))
}
