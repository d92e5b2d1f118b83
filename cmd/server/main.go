package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/parkrow/backoffice/internal/auth"
	"github.com/parkrow/backoffice/internal/config"
	"github.com/parkrow/backoffice/internal/eventbus"
	"github.com/parkrow/backoffice/internal/lifecycle"
	"github.com/parkrow/backoffice/internal/server"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/storage/sqlite"
	"github.com/parkrow/backoffice/internal/sweeper"
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

	store := storage.Scoped(db)

	bus := eventbus.New(cfg.EventBufferSize)
	bus.Subscribe("audit", eventbus.NewAuditConsumer(db))
	feed := eventbus.NewFeedConsumer()
	bus.Subscribe("feed", feed)
	bus.Start(ctx)
	defer bus.Wait()

	leases := lifecycle.NewLeaseService(store, bus)
	payments := lifecycle.NewPaymentService(store, bus,
		lifecycle.ReplayPolicy(cfg.SettlementReplayPolicy))

	// The sweeper works across organizations, so it runs against the
	// unwrapped store.
	sw := sweeper.New(db, cfg.SweepExpireInterval, cfg.SweepOverdueInterval)
	go sw.Run(ctx)

	srvCfg := server.Config{
		Addr:         cfg.Addr,
		Store:        store,
		Leases:       leases,
		Payments:     payments,
		Feed:         feed,
		AuthDisabled: cfg.AuthDisabled,
	}
	if !cfg.AuthDisabled {
		srvCfg.Verifier = auth.NewVerifier([]byte(cfg.JWTSecret))
	}

	if err := server.Run(ctx, srvCfg); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
