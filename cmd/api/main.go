package main

import (
	"context"
	"log"

	"lotogrid/adapters/postgres"
	"lotogrid/internal/config"
	"lotogrid/ports"
	"lotogrid/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var drawRepo ports.DrawRepository
	var runRepo ports.RunRepository
	if cfg.Database.URL != "" {
		ctx := context.Background()
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
		drawRepo = postgres.NewDrawRepository(db)
		runRepo = postgres.NewRunRepository(db)
	} else {
		log.Printf("[Server] no database configured; history and run endpoints disabled")
	}

	server := ui.NewServer(cfg, drawRepo, runRepo)
	if err := server.Start(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
