// Command seed loads demo data into the configured database.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/parkrow/backoffice/internal/config"
	"github.com/parkrow/backoffice/internal/seed"
	"github.com/parkrow/backoffice/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := seed.Demo(ctx, db); err != nil {
		log.Fatalf("seeding: %v", err)
	}
}
