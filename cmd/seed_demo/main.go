package main

import (
	"fmt"
	"log"
	"time"

	"github.com/xelth-com/matchforgego/internal/config"
	"github.com/xelth-com/matchforgego/internal/database"
	"github.com/xelth-com/matchforgego/internal/models"
	"github.com/xelth-com/matchforgego/internal/utils"
)

func main() {
	fmt.Println("🌱 MatchForge Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.CatalogRecord{},
		&models.MatchGeneration{},
		&models.ProductMatch{},
		&models.MatchOverride{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var recordCount int64
	db.Model(&models.CatalogRecord{}).Count(&recordCount)
	if recordCount > 0 {
		fmt.Printf("⚠️  Database already has %d catalog records. Clear it first? (y/N): ", recordCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		db.Where("1 = 1").Delete(&models.CatalogRecord{})
		fmt.Println("🗑  Existing records cleared")
	}

	now := time.Now().UTC()

	// Catalog A: shoes in two sizes plus an accessory. Catalog B carries the
	// same physical goods under its own skus; the pairs share barcodes but
	// never ids.
	records := []models.CatalogRecord{
		{
			Catalog: models.CatalogA, SKU: "A-SHOE-42", VendorCode: "SHOE",
			Barcodes:       models.BarcodeJSON([]string{"4006381333931", "111222333"}),
			PrimaryBarcode: "4006381333931",
			SizeLabel:      "42", Active: true, UpdatedAt: now, ImportedAt: now,
		},
		{
			Catalog: models.CatalogA, SKU: "A-SHOE-43", VendorCode: "SHOE",
			Barcodes:       models.BarcodeJSON([]string{"4006381333948"}),
			PrimaryBarcode: "4006381333948",
			SizeLabel:      "43", Active: true, UpdatedAt: now, ImportedAt: now,
		},
		{
			Catalog: models.CatalogA, SKU: "A-BELT-01", VendorCode: "BELT",
			Barcodes:       models.BarcodeJSON([]string{"7612345678900", "belt-alt-01"}),
			PrimaryBarcode: "7612345678900",
			Active:         true, UpdatedAt: now, ImportedAt: now,
		},
		{
			Catalog: models.CatalogA, SKU: "A-OLD-99",
			Barcodes:       models.BarcodeJSON([]string{"0000099"}),
			PrimaryBarcode: "0000099",
			Active:         false, UpdatedAt: now.Add(-90 * 24 * time.Hour), ImportedAt: now,
		},

		{
			Catalog: models.CatalogB, SKU: "B-9001",
			Barcodes:       models.BarcodeJSON([]string{"4006381333931"}),
			PrimaryBarcode: "4006381333931",
			SizeLabel:      "42", Active: true, UpdatedAt: now, ImportedAt: now,
		},
		{
			Catalog: models.CatalogB, SKU: "B-9002",
			Barcodes:       models.BarcodeJSON([]string{"4006381333948", "111222333"}),
			PrimaryBarcode: "4006381333948",
			SizeLabel:      "43", Active: true, UpdatedAt: now, ImportedAt: now,
		},
		{
			Catalog: models.CatalogB, SKU: "B-9050",
			Barcodes:       models.BarcodeJSON([]string{"belt-alt-01"}),
			PrimaryBarcode: "",
			Active:         true, UpdatedAt: now.Add(-24 * time.Hour), ImportedAt: now,
		},
		{
			Catalog: models.CatalogB, SKU: "B-9050-DUP",
			Barcodes:       models.BarcodeJSON([]string{"belt-alt-01"}),
			PrimaryBarcode: "belt-alt-01",
			Active:         true, UpdatedAt: now, ImportedAt: now,
		},
	}

	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create record %s/%s: %v", records[i].Catalog, records[i].SKU, err)
		}
	}
	fmt.Printf("✅ Seeded %d catalog records\n", len(records))

	// Demo operator for the protected endpoints
	var userCount int64
	db.Model(&models.UserAuth{}).Where("username = ?", "operator").Count(&userCount)
	if userCount == 0 {
		hash, err := utils.HashPassword("operator123")
		if err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		user := models.UserAuth{
			Username: "operator",
			Password: hash,
			Name:     "Demo Operator",
			Role:     "operator",
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("❌ Failed to create operator: %v", err)
		}
		fmt.Println("✅ Created demo operator (operator / operator123)")
	} else {
		fmt.Println("ℹ️  Demo operator already exists")
	}

	fmt.Println()
	fmt.Println("Done. Run cmd/rebuild or POST /api/rebuild to build the first generation.")
}
