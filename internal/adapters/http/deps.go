package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/mapbridge/internal/adapters/postgres"
	"github.com/samirrijal/mapbridge/internal/adapters/valkey"
	"github.com/samirrijal/mapbridge/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Maps  *usecases.MapService
	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}
