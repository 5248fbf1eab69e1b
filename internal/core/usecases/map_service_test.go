package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/core/ports"
	"github.com/samirrijal/mapbridge/internal/core/usecases"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// --- Mock MapStateRepository ---

type mockStateRepo struct {
	mu      sync.Mutex
	states  map[string]*domain.MapState
	upserts int
	getErr  error
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{states: make(map[string]*domain.MapState)}
}

func (m *mockStateRepo) Get(ctx context.Context, id string) (*domain.MapState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.states[id]
	if !ok {
		return nil, domain.ErrMapNotFound
	}
	return s, nil
}

func (m *mockStateRepo) Upsert(ctx context.Context, state *domain.MapState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.states[state.ID] = state
	return nil
}

func (m *mockStateRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.states[id]; !ok {
		return domain.ErrMapNotFound
	}
	delete(m.states, id)
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]int
	setErr error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return b, nil
}

func (m *mockCache) Set(ctx context.Context, key string, v []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = v
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []channel.Event
	err    error
}

func (m *mockPublisher) PublishChannelEvent(ctx context.Context, e channel.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

// --- Helpers ---

func obj(entries map[string]value.Value) value.Value { return value.Map(entries) }

func pt(lat, lng float64) value.Value {
	return obj(map[string]value.Value{"lat": value.Double(lat), "lng": value.Double(lng)})
}

func camera(lat, lng, zoom float64) value.Value {
	return obj(map[string]value.Value{
		"target":  pt(lat, lng),
		"zoom":    value.Double(zoom),
		"tilt":    value.Double(0),
		"bearing": value.Double(0),
	})
}

func call(method string, args map[string]value.Value) channel.MethodCall {
	c := channel.MethodCall{Method: method}
	if args != nil {
		c.Arguments = obj(args)
	}
	return c
}

func newService(repo *mockStateRepo, cache *mockCache, pub *mockPublisher) *usecases.MapService {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var c ports.CacheService
	if cache != nil {
		c = cache
	}
	var p ports.EventPublisher
	if pub != nil {
		p = pub
	}
	return usecases.NewMapService(repo, c, p, usecases.WithClock(func() time.Time { return fixed }))
}

// --- Tests ---

func TestMapService_DefaultState(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)

	got, err := svc.Invoke(context.Background(), "m1", call("getMapType", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(got, value.String("basic")) {
		t.Errorf("expected basic, got %s", got)
	}

	got, err = svc.Invoke(context.Background(), "m1", call("getLocationTrackingMode", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(got, value.String("none")) {
		t.Errorf("expected none, got %s", got)
	}
}

func TestMapService_UpdateCamera(t *testing.T) {
	repo := newMockStateRepo()
	pub := &mockPublisher{}
	svc := newService(repo, nil, pub)

	_, err := svc.Invoke(context.Background(), "m1", call("updateCamera", map[string]value.Value{
		"position":  camera(37.5, 127.0, 14),
		"animation": value.String("fly"),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := repo.states["m1"]
	if st == nil || st.Camera.Zoom != 14 || st.Camera.Target.Lat != 37.5 {
		t.Fatalf("camera not persisted: %+v", st)
	}
	if !st.UpdatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected updatedAt %v", st.UpdatedAt)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Name != channel.EventCameraChange || ev.MapID != "m1" {
		t.Errorf("unexpected event %+v", ev)
	}
	want := obj(map[string]value.Value{
		"position":  camera(37.5, 127.0, 14),
		"animation": value.String("fly"),
	})
	if !value.Equal(ev.Payload, want) {
		t.Errorf("unexpected payload %s", ev.Payload)
	}

	got, err := svc.Invoke(context.Background(), "m1", call("getCameraPosition", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(got, camera(37.5, 127.0, 14)) {
		t.Errorf("unexpected camera %s", got)
	}
}

func TestMapService_ShapeErrorLeavesStateUntouched(t *testing.T) {
	repo := newMockStateRepo()
	pub := &mockPublisher{}
	svc := newService(repo, nil, pub)

	badCamera := obj(map[string]value.Value{
		"target":  obj(map[string]value.Value{"lat": value.Double(37.5)}),
		"zoom":    value.Double(1),
		"tilt":    value.Double(0),
		"bearing": value.Double(0),
	})
	_, err := svc.Invoke(context.Background(), "m1", call("updateCamera", map[string]value.Value{"position": badCamera}))

	var se *value.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected shape error, got %v", err)
	}
	if se.Path != "position.target" || se.Key != "lng" {
		t.Errorf("unexpected location %q / %q", se.Path, se.Key)
	}
	if usecases.ErrorCode(err) != channel.CodeShapeError {
		t.Errorf("expected shape_error, got %s", usecases.ErrorCode(err))
	}
	if repo.upserts != 0 {
		t.Errorf("expected no writes, got %d", repo.upserts)
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}

func TestMapService_UnknownMethod(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	_, err := svc.Invoke(context.Background(), "m1", call("teleport", nil))
	if !errors.Is(err, usecases.ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	env := usecases.Reply(value.Null(), err)
	if env.Error == nil || env.Error.Code != channel.CodeUnknownMethod {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestMapService_MapTypeFallsBackToNone(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	ctx := context.Background()

	if _, err := svc.Invoke(ctx, "m1", call("setMapType", map[string]value.Value{"mapType": value.String("unknownType")})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Invoke(ctx, "m1", call("getMapType", nil))
	if !value.Equal(got, value.String("none")) {
		t.Errorf("expected none, got %s", got)
	}
}

func TestMapService_TrackingAndLogo(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	ctx := context.Background()

	if _, err := svc.Invoke(ctx, "m1", call("setLocationTrackingMode", map[string]value.Value{"mode": value.String("face")})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Invoke(ctx, "m1", call("setLogoAlign", map[string]value.Value{"align": value.String("rightTop")})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := svc.State(ctx, "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.TrackingMode != domain.MyPositionModeCompass {
		t.Errorf("expected compass, got %v", st.TrackingMode)
	}
	if st.LogoAlign != domain.LogoAlignRightTop {
		t.Errorf("expected rightTop, got %v", st.LogoAlign)
	}

	got, _ := svc.Invoke(ctx, "m1", call("getLocationTrackingMode", nil))
	if !value.Equal(got, value.String("face")) {
		t.Errorf("expected face, got %s", got)
	}
}

func TestMapService_FitBounds(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(newMockStateRepo(), nil, pub)

	_, err := svc.Invoke(context.Background(), "m1", call("fitBounds", map[string]value.Value{
		"bounds": obj(map[string]value.Value{
			"southWest": pt(37.0, 126.0),
			"northEast": pt(38.0, 128.0),
		}),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := svc.State(context.Background(), "m1")
	if st.Camera.Target != (domain.LatLng{Lat: 37.5, Lng: 127.0}) {
		t.Errorf("unexpected target %+v", st.Camera.Target)
	}
	if len(pub.events) != 1 || pub.events[0].Name != channel.EventCameraChange {
		t.Errorf("expected one camera change, got %+v", pub.events)
	}
}

func TestMapService_PathOverlay(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Invoke(ctx, "m1", call("addPathOverlay", map[string]value.Value{
		"id":     value.String("route"),
		"coords": value.List(pt(1, 2), pt(3, 4)),
		"color":  value.Int(0x80402010),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Invoke(ctx, "m1", call("getPathOverlay", map[string]value.Value{"id": value.String("route")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := value.AsDict(got)
	if !value.Equal(d["coords"], value.List(pt(1, 2), pt(3, 4))) {
		t.Errorf("unexpected coords %s", d["coords"])
	}
	if !value.Equal(d["color"], value.Int(0x80402010)) {
		t.Errorf("unexpected color %s", d["color"])
	}
	if !value.Equal(d["lineCap"], value.String("butt")) {
		t.Errorf("unexpected lineCap %s", d["lineCap"])
	}

	_, err = svc.Invoke(ctx, "m1", call("getPathOverlay", map[string]value.Value{"id": value.String("nope")}))
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMapService_MarkerAlignQuirk(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Invoke(ctx, "m1", call("addMarker", map[string]value.Value{
		"id":            value.String("pin"),
		"position":      pt(37.5, 127.0),
		"captionAligns": value.List(value.String("topLeft"), value.String("bottom")),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Invoke(ctx, "m1", call("getMarker", map[string]value.Value{"id": value.String("pin")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := value.AsDict(got)
	want := value.List(value.String("bottomRight"), value.String("bottom"))
	if !value.Equal(d["captionAligns"], want) {
		t.Errorf("expected %s, got %s", want, d["captionAligns"])
	}

	_, err = svc.Invoke(ctx, "m1", call("addMarker", map[string]value.Value{
		"id":            value.String("pin2"),
		"position":      pt(37.5, 127.0),
		"captionAligns": value.List(value.String("middle")),
	}))
	if usecases.ErrorCode(err) != channel.CodeShapeError {
		t.Errorf("expected shape_error, got %v", err)
	}
}

func TestMapService_RemoveOverlay(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Invoke(ctx, "m1", call("addMarker", map[string]value.Value{
		"id":       value.String("pin"),
		"position": pt(1, 1),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Invoke(ctx, "m1", call("removeOverlay", map[string]value.Value{"id": value.String("pin")})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.Invoke(ctx, "m1", call("removeOverlay", map[string]value.Value{"id": value.String("pin")}))
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMapService_CacheReadThrough(t *testing.T) {
	repo := newMockStateRepo()
	cache := newMockCache()
	svc := usecases.NewMapService(repo, cache, nil, usecases.WithStateTTL(60))
	ctx := context.Background()

	if _, err := svc.Invoke(ctx, "m1", call("setMapType", map[string]value.Value{"mapType": value.String("hybrid")})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.data["mapstate:m1"]; !ok {
		t.Fatal("expected state to be cached")
	}
	if cache.ttls["mapstate:m1"] != 60 {
		t.Errorf("expected ttl 60, got %d", cache.ttls["mapstate:m1"])
	}

	// repository failures are invisible while the cache holds the state
	repo.getErr = errors.New("db down")
	got, err := svc.Invoke(ctx, "m1", call("getMapType", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(got, value.String("hybrid")) {
		t.Errorf("expected hybrid, got %s", got)
	}

	if err := svc.Reset(ctx, "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.Invoke(ctx, "m1", call("getMapType", nil))
	if usecases.ErrorCode(err) != channel.CodeInternal {
		t.Errorf("expected internal_error, got %v", err)
	}
	env := usecases.Reply(value.Null(), err)
	if env.Error.Message != "internal error" {
		t.Errorf("internal cause leaked: %q", env.Error.Message)
	}
}

func TestMapService_NativeEvents(t *testing.T) {
	repo := newMockStateRepo()
	pub := &mockPublisher{}
	svc := newService(repo, nil, pub)
	ctx := context.Background()
	h := svc.NativeHandlers()

	caption := "Gangnam"
	if err := h.SymbolTap(ctx, &domain.SymbolTapEvent{MapID: "m1", Symbol: domain.Symbol{Caption: &caption, Hash: 9}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.IndoorFocus(ctx, &domain.IndoorFocusEvent{MapID: "m1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := domain.CameraPosition{Target: domain.LatLng{Lat: 1, Lng: 2}, Zoom: 5}
	if err := h.CameraIdle(ctx, &domain.CameraIdleEvent{MapID: "m1", Position: pos}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := []string{channel.EventSymbolTapped, channel.EventSelectedIndoorChanged, channel.EventCameraIdle}
	if len(pub.events) != len(names) {
		t.Fatalf("expected %d events, got %d", len(names), len(pub.events))
	}
	for i, name := range names {
		if pub.events[i].Name != name {
			t.Errorf("event %d: expected %s, got %s", i, name, pub.events[i].Name)
		}
	}
	if !pub.events[1].Payload.IsNull() {
		t.Errorf("expected null indoor payload, got %s", pub.events[1].Payload)
	}
	if repo.states["m1"].Camera != pos {
		t.Errorf("camera idle not persisted: %+v", repo.states["m1"].Camera)
	}
}

func TestMapService_PublishFailureDoesNotFailCall(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newService(newMockStateRepo(), nil, pub)

	_, err := svc.Invoke(context.Background(), "m1", call("updateCamera", map[string]value.Value{
		"position": camera(0, 0, 1),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMapService_ConcurrentCalls(t *testing.T) {
	repo := newMockStateRepo()
	svc := newService(repo, nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := value.String("p" + string(rune('a'+i)))
			_, err := svc.Invoke(ctx, "m1", call("addPathOverlay", map[string]value.Value{
				"id":     id,
				"coords": value.List(pt(float64(i), 0)),
			}))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	st, _ := svc.State(ctx, "m1")
	if len(st.Paths) != 20 {
		t.Errorf("expected 20 paths, got %d", len(st.Paths))
	}
	if n := usecases.LockedMaps(svc); n != 0 {
		t.Errorf("expected lock entries to be released, %d left", n)
	}
}

func TestMapService_LocksReleasedPerMap(t *testing.T) {
	svc := newService(newMockStateRepo(), nil, nil)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		mapID := "m" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		if _, err := svc.Invoke(ctx, mapID, call("getMapType", nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := usecases.LockedMaps(svc); n != 0 {
		t.Errorf("expected no lock entries after calls return, got %d", n)
	}
}

func TestMapService_CacheSetFailureEvictsStaleState(t *testing.T) {
	repo := newMockStateRepo()
	cache := newMockCache()
	svc := newService(repo, cache, nil)
	ctx := context.Background()

	setType := func(name string) {
		t.Helper()
		if _, err := svc.Invoke(ctx, "m1", call("setMapType", map[string]value.Value{"mapType": value.String(name)})); err != nil {
			t.Fatalf("setMapType %s: %v", name, err)
		}
	}

	setType("satellite")
	if _, ok := cache.data["mapstate:m1"]; !ok {
		t.Fatal("expected state to be cached")
	}

	cache.setErr = errors.New("valkey down")
	setType("terrain")
	if _, ok := cache.data["mapstate:m1"]; ok {
		t.Error("expected stale cache entry to be evicted")
	}

	cache.setErr = nil
	got, err := svc.Invoke(ctx, "m1", call("getMapType", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(got, value.String("terrain")) {
		t.Errorf("expected terrain from repository, got %s", got)
	}
}
