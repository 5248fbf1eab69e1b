package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/mapbridge/internal/adapters/nats"
	"github.com/samirrijal/mapbridge/internal/adapters/postgres"
	"github.com/samirrijal/mapbridge/internal/adapters/valkey"
	"github.com/samirrijal/mapbridge/internal/core/ports"
	"github.com/samirrijal/mapbridge/internal/core/usecases"
	"github.com/samirrijal/mapbridge/internal/pkg/config"
	"github.com/samirrijal/mapbridge/internal/pkg/logging"
	"github.com/samirrijal/mapbridge/internal/workflows"
)

// usage:
//
//	tourworker                 run the worker
//	tourworker start tour.json start a CameraTourWorkflow from a TourInput file
func main() {
	cfg, err := config.Load("mapbridge-tourworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	if len(os.Args) > 2 && os.Args[1] == "start" {
		startTour(c, cfg.Temporal.TaskQueue, os.Args[2])
		return
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var (
		cacheSvc  ports.CacheService
		publisher ports.EventPublisher
	)
	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, tour moves will not reach clients", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	maps := usecases.NewMapService(
		postgres.NewMapStateRepo(db),
		cacheSvc,
		publisher,
		usecases.WithStateTTL(cfg.Cache.StateTTL),
	)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.CameraTourWorkflow)
	w.RegisterActivity(&workflows.TourActivities{Maps: maps})

	slog.Info("tour worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func startTour(c client.Client, taskQueue, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read tour: %v", err)
	}
	var input workflows.TourInput
	if err := json.Unmarshal(data, &input); err != nil {
		log.Fatalf("parse tour: %v", err)
	}

	run, err := c.ExecuteWorkflow(context.Background(), client.StartWorkflowOptions{
		ID:        "camera-tour-" + input.MapID,
		TaskQueue: taskQueue,
	}, workflows.CameraTourWorkflow, input)
	if err != nil {
		log.Fatalf("start tour: %v", err)
	}
	slog.Info("tour started", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "stops", len(input.Stops))
}
