// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkrow/backoffice/internal/auth"
	"github.com/parkrow/backoffice/internal/eventbus"
	"github.com/parkrow/backoffice/internal/handler"
	"github.com/parkrow/backoffice/internal/lifecycle"
	"github.com/parkrow/backoffice/internal/storage"
)

// Config holds server configuration.
type Config struct {
	Addr         string
	Store        storage.Store
	Leases       *lifecycle.LeaseService
	Payments     *lifecycle.PaymentService
	Feed         *eventbus.FeedConsumer
	Verifier     *auth.Verifier
	AuthDisabled bool
}

// Router builds the full route table.
func Router(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authMW := auth.HeaderMiddleware
	if !cfg.AuthDisabled {
		authMW = cfg.Verifier.Middleware
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)

		oh := handler.NewOrganizationHandler(cfg.Store)
		r.Post("/organizations", oh.CreateOrganization)
		r.Get("/organizations/{id}", oh.GetOrganization)
		r.Get("/organizations", oh.ListOrganizations)

		ph := handler.NewPropertyHandler(cfg.Store)
		r.Post("/properties", ph.CreateProperty)
		r.Get("/properties/{id}", ph.GetProperty)
		r.Get("/properties", ph.ListProperties)
		r.Post("/units", ph.CreateUnit)
		r.Get("/units/{id}", ph.GetUnit)
		r.Get("/units", ph.ListUnits)

		rh := handler.NewRenterHandler(cfg.Store)
		r.Post("/renters", rh.CreateRenter)
		r.Get("/renters/{id}", rh.GetRenter)
		r.Get("/renters", rh.ListRenters)

		lh := handler.NewLeaseHandler(cfg.Store, cfg.Leases)
		r.Post("/leases", lh.CreateLease)
		r.Get("/leases/{id}", lh.GetLease)
		r.Get("/leases", lh.ListLeases)
		r.Post("/leases/{id}/activate", lh.ActivateLease)

		payh := handler.NewPaymentHandler(cfg.Store, cfg.Payments)
		r.Post("/payments", payh.CreatePayment)
		r.Get("/payments/{id}", payh.GetPayment)
		r.Get("/payments", payh.ListPayments)
		r.Post("/payments/{id}/mark-paid", payh.MarkPaid)

		ah := handler.NewAuditHandler(cfg.Store, cfg.Feed)
		r.Get("/audit-logs", ah.ListAuditLogs)
		r.Get("/audit-logs/feed", ah.Feed)
	})

	return handler.Recovery(handler.Logging(r))
}

// Run starts the HTTP server and blocks until ctx is canceled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: Router(cfg),
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Printf("starting server on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
