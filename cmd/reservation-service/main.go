package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	orchestratorconfig "github.com/orderflow/reservation-system/orchestrator-service/config"
	participantconfig "github.com/orderflow/reservation-system/participant-service/config"
	"github.com/orderflow/reservation-system/shared/config"
	"github.com/orderflow/reservation-system/shared/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Read()

	log.Printf("Starting %s as role %q in %s environment on port %s", cfg.ServiceName, cfg.Role, cfg.Env, cfg.Port)

	ctx := context.Background()
	tel, telShutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName + "-" + cfg.Role,
		ServiceVersion: "0.1.0",
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		log.Printf("Telemetry disabled: %v", err)
	} else {
		defer telShutdown()
	}

	router, err := setupRouter(ctx, cfg, tel)
	if err != nil {
		log.Fatalf("Failed to build dependencies: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down %s...", cfg.ServiceName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Printf("%s stopped", cfg.ServiceName)
}

// setupRouter builds the shared middleware stack and registers the routes
// for the configured role. Every role serves the health probe and metrics.
func setupRouter(ctx context.Context, cfg *config.Config, tel *telemetry.Telemetry) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	if tel != nil {
		r.Use(telemetry.Middleware(tel))
	}

	r.Get("/health", healthHandler(cfg.Role))
	r.Handle("/metrics", promhttp.Handler())

	if cfg.IsParticipant() {
		deps, err := participantconfig.BuildDependencies(cfg.Role)
		if err != nil {
			return nil, err
		}
		deps.ParticipantHandlers.RegisterRoutes(r)
		return r, nil
	}

	deps, err := orchestratorconfig.BuildDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps.OrderHandlers.RegisterRoutes(r)
	return r, nil
}

func healthHandler(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "role": role})
	}
}
