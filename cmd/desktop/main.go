// rentdesk desktop server. The UI talks REST/WebSocket on localhost; all
// state lives in a local SQLite file replicated to a remote table endpoint
// in the background.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmoreira/rentdesk/cmd/desktop/handlers"
	"github.com/dmoreira/rentdesk/internal/auth"
	"github.com/dmoreira/rentdesk/internal/balance"
	"github.com/dmoreira/rentdesk/internal/config"
	"github.com/dmoreira/rentdesk/internal/db"
	"github.com/dmoreira/rentdesk/internal/ledger"
	"github.com/dmoreira/rentdesk/internal/logging"
	"github.com/dmoreira/rentdesk/internal/outbox"
	syncpkg "github.com/dmoreira/rentdesk/internal/sync"
	"github.com/dmoreira/rentdesk/internal/sync/scheduler"
	"github.com/dmoreira/rentdesk/internal/validate"
)

func main() {
	cfg := config.Load()
	logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	log := logging.WithComponent("main")

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer database.Close()

	if err := database.InitSchema(); err != nil {
		log.WithError(err).Fatal("failed to initialize schema")
	}

	ob := outbox.New(database.DB)
	store := db.NewStore(database, ob)
	validator := validate.New()

	authService := auth.NewService(store)
	if err := authService.EnsureDefaultAdmin(); err != nil {
		log.WithError(err).Fatal("failed to ensure admin account")
	}

	remote := syncpkg.NewClient(&syncpkg.RemoteConfig{
		BaseURL: cfg.RemoteURL,
		APIKey:  cfg.RemoteAPIKey,
		Timeout: cfg.RemoteTimeout,
	})
	engine := syncpkg.NewEngine(store, remote)
	sched := scheduler.New(engine, ob, &scheduler.Config{
		SyncInterval: cfg.SyncInterval,
		PushInterval: cfg.PushInterval,
		PushBatch:    cfg.PushBatchSize,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SyncConfigured() {
		sched.Start(ctx)
		defer sched.Stop()
	} else {
		log.Warn("remote sync not configured, running local-only")
	}

	hub := NewWSHub()
	mux := buildRoutes(store, validator, engine, sched, authService, hub)

	server := &http.Server{
		Addr:    "localhost:" + cfg.HTTPPort,
		Handler: mux,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("rentdesk server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("forced shutdown")
	}
}

func buildRoutes(store *db.Store, validator *validate.Validator, engine *syncpkg.Engine,
	sched *scheduler.Scheduler, authService *auth.Service, hub *WSHub) *http.ServeMux {

	lg := ledger.New(store)
	calc := balance.New(store)

	owners := handlers.NewOwnersHandler(store, validator)
	tenants := handlers.NewTenantsHandler(store, validator)
	properties := handlers.NewPropertiesHandler(store, validator)
	leases := handlers.NewLeasesHandler(store, lg, validator)
	payments := handlers.NewPaymentsHandler(store, calc, validator)
	syncHandler := handlers.NewSyncHandler(engine, sched)
	syncHandler.SetBroadcaster(hub)
	dashboard := handlers.NewDashboardHandler(store)
	authHandler := handlers.NewAuthHandler(authService, validator)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", dashboard.Health)
	mux.HandleFunc("GET /api/dashboard", dashboard.Stats)

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/password", authHandler.ChangePassword)

	mux.HandleFunc("GET /api/owners", owners.List)
	mux.HandleFunc("POST /api/owners", owners.Create)
	mux.HandleFunc("GET /api/owners/{id}", owners.Get)
	mux.HandleFunc("PUT /api/owners/{id}", owners.Update)
	mux.HandleFunc("DELETE /api/owners/{id}", owners.Delete)

	mux.HandleFunc("GET /api/tenants", tenants.List)
	mux.HandleFunc("POST /api/tenants", tenants.Create)
	mux.HandleFunc("GET /api/tenants/{id}", tenants.Get)
	mux.HandleFunc("PUT /api/tenants/{id}", tenants.Update)
	mux.HandleFunc("DELETE /api/tenants/{id}", tenants.Delete)

	mux.HandleFunc("GET /api/properties", properties.List)
	mux.HandleFunc("POST /api/properties", properties.Create)
	mux.HandleFunc("GET /api/properties/{id}", properties.Get)
	mux.HandleFunc("PUT /api/properties/{id}", properties.Update)
	mux.HandleFunc("DELETE /api/properties/{id}", properties.Delete)

	mux.HandleFunc("GET /api/leases", leases.List)
	mux.HandleFunc("POST /api/leases", leases.Create)
	mux.HandleFunc("GET /api/leases/due-for-adjustment", leases.DueForAdjustment)
	mux.HandleFunc("GET /api/leases/{id}", leases.Get)
	mux.HandleFunc("PUT /api/leases/{id}", leases.Update)
	mux.HandleFunc("DELETE /api/leases/{id}", leases.Delete)
	mux.HandleFunc("POST /api/leases/{id}/adjustments", leases.ApplyAdjustment)
	mux.HandleFunc("GET /api/leases/{id}/adjustments", leases.Adjustments)
	mux.HandleFunc("GET /api/leases/{id}/balance", payments.LeaseBalance)

	mux.HandleFunc("GET /api/payments", payments.List)
	mux.HandleFunc("POST /api/payments", payments.Create)
	mux.HandleFunc("GET /api/payments/balances", payments.Balances)
	mux.HandleFunc("GET /api/payments/{id}", payments.Get)
	mux.HandleFunc("DELETE /api/payments/{id}", payments.Delete)
	mux.HandleFunc("GET /api/payments/{id}/receipt", payments.Receipt)

	mux.HandleFunc("GET /api/sync/status", syncHandler.Status)
	mux.HandleFunc("POST /api/sync/test", syncHandler.Test)
	mux.HandleFunc("POST /api/sync/push", syncHandler.Push)
	mux.HandleFunc("POST /api/sync/run", syncHandler.Run)
	mux.HandleFunc("POST /api/sync/trigger", syncHandler.Trigger)

	mux.HandleFunc("/ws", HandleWebSocket(hub))

	return mux
}
