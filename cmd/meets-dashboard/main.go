package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/haru/meets-dashboard/pkg/collectors"
	"github.com/haru/meets-dashboard/pkg/config"
	"github.com/haru/meets-dashboard/pkg/integrations"
	"github.com/haru/meets-dashboard/pkg/interfaces"
)

func main() {
	log.Println("Starting meets-dashboard...")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config: %v. Using defaults.", err)
		cfg, _ = config.Load("")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize snapshot database
	db, err := collectors.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	snapshots, err := collectors.NewCatalogSnapshotStore(db)
	if err != nil {
		log.Fatalf("Failed to create snapshot store: %v", err)
	}

	// Initialize upstream clients
	upstreamTimeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
	catalogClient, err := integrations.NewFortuneMusicClient(integrations.FortuneMusicConfig{
		BaseURL:       cfg.Upstream.EventsURL,
		TargetArtists: cfg.TargetArtists,
		Timeout:       upstreamTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create events client: %v", err)
	}

	roomClient, err := integrations.NewWaitingRoomClient(integrations.WaitingRoomConfig{
		BaseURL: cfg.Upstream.WaitingRoomURL,
		Timeout: upstreamTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create waiting-room client: %v", err)
	}

	// Initialize service and handlers
	service := interfaces.NewDashboardService(catalogClient, roomClient, snapshots)
	handler := interfaces.NewDashboardHandler(service)

	// Setup router
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Background catalog refresh at the UI's poll cadence
	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	go pollCatalog(pollCtx, service, time.Duration(cfg.Poll.IntervalSeconds)*time.Second)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopPolling()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped.")
}

// pollCatalog refreshes the catalog immediately and then on every tick.
// Each refresh is independent; a failed one just leaves the previous
// catalog in place until the next tick.
func pollCatalog(ctx context.Context, service *interfaces.DashboardService, interval time.Duration) {
	refresh := func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, _, err := service.RefreshCatalog(refreshCtx); err != nil {
			log.Printf("Warning: catalog refresh failed: %v", err)
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
