package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/matchforgego/internal/config"
	"github.com/xelth-com/matchforgego/internal/database"
	"github.com/xelth-com/matchforgego/internal/handlers"
	"github.com/xelth-com/matchforgego/internal/matching"
	"github.com/xelth-com/matchforgego/internal/models"
	"github.com/xelth-com/matchforgego/internal/storage"
	"github.com/xelth-com/matchforgego/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.CatalogRecord{},
		&models.MatchGeneration{},
		&models.ProductMatch{},
		&models.MatchOverride{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire the matching engine to its store and event hub
	store := storage.NewStore(db)
	engine := matching.NewEngine(store, store)

	hub := websocket.NewHub()
	go hub.Run()
	engine.SetNotifier(hub)

	overrides, err := store.ListOverrides()
	if err != nil {
		log.Printf("⚠️ Failed to load overrides: %v", err)
	} else {
		engine.SetOverrides(overrides)
	}

	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start matching engine: %v", err)
	}

	// 5. Warm-load the last published generation so a restart serves queries
	// without waiting for a rebuild.
	if gen, err := store.CurrentGeneration(); err == nil && gen != nil {
		records, rerr := store.LoadRecords(context.Background())
		matches, merr := store.CurrentMatches(context.Background(), gen.ID)
		if rerr == nil && merr == nil {
			snap := matching.BuildIndex(records)
			engine.Restore(&matching.Generation{
				Meta:     *gen,
				Snapshot: snap,
				Set:      matching.NewMatchSet(snap, matches),
			})
			log.Printf("♻️  Restored generation %s (%d matches)", gen.ID, len(matches))
		}
	}

	// 6. First build. Synchronous so queries are answerable the moment the
	// port opens; disable via REBUILD_ON_STARTUP=false for fast restarts.
	if cfg.RebuildOnStartup {
		log.Println("🔄 Building initial match generation...")
		if _, err := engine.RunOnce(context.Background()); err != nil {
			log.Printf("⚠️ Initial rebuild failed: %v", err)
		}
	}

	// 7. Set up HTTP router
	router := handlers.NewRouter(db, cfg, engine, store, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s [env: %s]\n", cfg.Port, cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the rebuild worker
	engine.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
