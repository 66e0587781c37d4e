package main

import (
	"context"
	"log"

	"github.com/xelth-com/matchforgego/internal/config"
	"github.com/xelth-com/matchforgego/internal/database"
	"github.com/xelth-com/matchforgego/internal/matching"
	"github.com/xelth-com/matchforgego/internal/models"
	"github.com/xelth-com/matchforgego/internal/storage"
)

// One-shot rebuild for cron jobs and import pipelines. Builds and publishes
// a single generation, prints its counters and exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.CatalogRecord{},
		&models.MatchGeneration{},
		&models.ProductMatch{},
		&models.MatchOverride{},
	); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	}

	store := storage.NewStore(db)
	engine := matching.NewEngine(store, store)

	gen, err := engine.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("❌ Rebuild failed: %v", err)
	}

	m := gen.Meta
	log.Printf("✅ Generation %s published", m.ID)
	log.Printf("   Records A: %d, Records B: %d", m.CatalogACount, m.CatalogBCount)
	log.Printf("   Matches: %d, Conflicts: %d, Skipped: %d", m.MatchCount, m.ConflictCount, m.SkippedCount)
}
