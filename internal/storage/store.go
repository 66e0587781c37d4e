package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/xelth-com/matchforgego/internal/database"
	"github.com/xelth-com/matchforgego/internal/models"
	"gorm.io/gorm"
)

// Store is the persistence collaborator of the matching engine: catalog
// snapshot reads, atomic generation publishes and the override table.
type Store struct {
	db *database.DB
}

// NewStore wraps a database connection.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// LoadRecords returns a stable snapshot enumeration of both catalogs. The
// fixed (catalog, sku) order keeps index builds order-insensitive even when
// conflicting records tie on updated_at.
func (s *Store) LoadRecords(ctx context.Context) ([]models.CatalogRecord, error) {
	var records []models.CatalogRecord
	err := s.db.WithContext(ctx).
		Order("catalog, sku").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog records: %w", err)
	}
	return records, nil
}

// PublishGeneration durably swaps in a new generation in one transaction:
// the generation row, its match rows, the current flag and the removal of
// superseded match rows commit together or not at all. Older generation rows
// stay as build history.
func (s *Store) PublishGeneration(ctx context.Context, gen *models.MatchGeneration, matches []models.ProductMatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MatchGeneration{}).
			Where("current = ?", true).
			Update("current", false).Error; err != nil {
			return err
		}
		if err := tx.Create(gen).Error; err != nil {
			return err
		}
		if len(matches) > 0 {
			if err := tx.CreateInBatches(matches, 500).Error; err != nil {
				return err
			}
		}
		return tx.Where("generation_id <> ?", gen.ID).
			Delete(&models.ProductMatch{}).Error
	})
}

// CurrentGeneration returns the most recently published generation metadata.
func (s *Store) CurrentGeneration() (*models.MatchGeneration, error) {
	var gen models.MatchGeneration
	err := s.db.Where("current = ?", true).First(&gen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &gen, nil
}

// CurrentMatches returns one generation's match rows in build order, for
// warm-loading a previously published generation on startup.
func (s *Store) CurrentMatches(ctx context.Context, generationID string) ([]models.ProductMatch, error) {
	var rows []models.ProductMatch
	err := s.db.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Order("barcode_hit, sku_a, sku_b").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load generation matches: %w", err)
	}
	return rows, nil
}

// ListOverrides returns every live override, oldest first.
func (s *Store) ListOverrides() ([]models.MatchOverride, error) {
	var rows []models.MatchOverride
	if err := s.db.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return rows, nil
}

// CreateOverride records a confirmed pair. A live override for the same pair
// is an error; remove it first.
func (s *Store) CreateOverride(o *models.MatchOverride) error {
	var existing models.MatchOverride
	err := s.db.Where("sku_a = ? AND sku_b = ?", o.SkuA, o.SkuB).First(&existing).Error
	if err == nil {
		return fmt.Errorf("override for pair (%s, %s) already exists", o.SkuA, o.SkuB)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(o).Error
}

// DeleteOverride soft-deletes an override so history is preserved.
func (s *Store) DeleteOverride(id uint) error {
	res := s.db.Delete(&models.MatchOverride{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
