//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/mapbridge/internal/adapters/http"
	"github.com/samirrijal/mapbridge/internal/adapters/postgres"
	"github.com/samirrijal/mapbridge/internal/core/usecases"
	"github.com/samirrijal/mapbridge/internal/pkg/config"
)

// setupTestDB connects to the test database. The map_states migration must
// have been applied.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("mapbridge-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

// setupTestDeps creates dependencies with the real repository, no cache.
func setupTestDeps(db *postgres.DB) *http.Dependencies {
	return &http.Dependencies{
		Maps: usecases.NewMapService(postgres.NewMapStateRepo(db), nil, nil),
		DB:   db,
	}
}

func testMapID(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102150405.000000")
}

// TestInvoke_Integration_StatePersists checks a call survives a fresh service
// reading the same database.
func TestInvoke_Integration_StatePersists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	mapID := testMapID("persist")
	app := setupApp(setupTestDeps(db))

	req := httptest.NewRequest("POST", "/v1/maps/"+mapID+"/invoke",
		strings.NewReader(`{"method":"addMarker","arguments":{"id":"home","position":{"lat":37.5,"lng":127.0},"captionAligns":["topLeft"]}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// A second app has no in-memory state; it must read from postgres.
	app2 := setupApp(setupTestDeps(db))
	resp, err = app2.Test(httptest.NewRequest("GET", "/v1/maps/"+mapID+"/state", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var state struct {
		Markers []struct {
			ID            string   `json:"id"`
			CaptionAligns []string `json:"captionAligns"`
		} `json:"markers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(state.Markers) != 1 || state.Markers[0].ID != "home" {
		t.Fatalf("expected marker home, got %+v", state.Markers)
	}
	if got := state.Markers[0].CaptionAligns; len(got) != 1 || got[0] != "topLeft" {
		t.Errorf("stored aligns must be canonical, got %v", got)
	}
}

// TestReset_Integration removes the row and falls back to defaults.
func TestReset_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	mapID := testMapID("reset")
	app := setupApp(setupTestDeps(db))

	req := httptest.NewRequest("POST", "/v1/maps/"+mapID+"/invoke",
		strings.NewReader(`{"method":"setMapType","arguments":{"mapType":"terrain"}}`))
	req.Header.Set("Content-Type", "application/json")
	if resp, _ := app.Test(req, -1); resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, _ := app.Test(httptest.NewRequest("DELETE", "/v1/maps/"+mapID+"/state", nil), -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	repo := postgres.NewMapStateRepo(db)
	if _, err := repo.Get(context.Background(), mapID); err == nil {
		t.Error("expected row to be gone")
	}
}

// TestReady_Integration_WithDB reports ready once the database answers.
func TestReady_Integration_WithDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	app := setupApp(setupTestDeps(db))
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
