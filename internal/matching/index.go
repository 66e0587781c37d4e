package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/xelth-com/matchforgego/internal/models"
)

// IndexEntry is the owner of one (catalog, barcode) pair inside a snapshot.
type IndexEntry struct {
	SKU        string    `json:"sku"`
	VendorCode string    `json:"vendorCode,omitempty"`
	IsPrimary  bool      `json:"isPrimary"`
	SizeLabel  string    `json:"sizeLabel,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RecordMeta keeps the per-sku attributes needed for ranking tie-breaks and
// API responses.
type RecordMeta struct {
	VendorCode string    `json:"vendorCode,omitempty"`
	SizeLabel  string    `json:"sizeLabel,omitempty"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IndexSnapshot is an immutable barcode index over both catalogs. It is built
// once per rebuild generation and then only read, so concurrent lookups need
// no locking.
type IndexSnapshot struct {
	entries   map[models.Catalog]map[string]IndexEntry
	meta      map[models.Catalog]map[string]RecordMeta
	byVendor  map[models.Catalog]map[string][]string
	conflicts int
	skipped   int
}

// BuildIndex replays the normalized barcodes of every record into a fresh
// snapshot. A malformed record is counted and skipped, never fatal. A barcode
// colliding with a different sku inside the same catalog keeps the record
// with the newer updated_at, independent of input order, and bumps the
// conflict counter.
func BuildIndex(records []models.CatalogRecord) *IndexSnapshot {
	snap := &IndexSnapshot{
		entries: map[models.Catalog]map[string]IndexEntry{
			models.CatalogA: {},
			models.CatalogB: {},
		},
		meta: map[models.Catalog]map[string]RecordMeta{
			models.CatalogA: {},
			models.CatalogB: {},
		},
		byVendor: map[models.Catalog]map[string][]string{
			models.CatalogA: {},
			models.CatalogB: {},
		},
	}

	for _, rec := range records {
		if err := snap.add(rec); err != nil {
			snap.skipped++
		}
	}
	return snap
}

func (s *IndexSnapshot) add(rec models.CatalogRecord) error {
	if !rec.Catalog.Valid() {
		return fmt.Errorf("%w: record %d has unknown catalog %q", ErrValidation, rec.ID, rec.Catalog)
	}
	if strings.TrimSpace(rec.SKU) == "" {
		return fmt.Errorf("%w: record %d has empty sku", ErrValidation, rec.ID)
	}
	raw, err := rec.BarcodeList()
	if err != nil {
		return fmt.Errorf("%w: record %s/%s barcodes are not a string array: %v", ErrValidation, rec.Catalog, rec.SKU, err)
	}

	tokens, primary := NormalizeTokens(raw, rec.PrimaryBarcode)

	if _, known := s.meta[rec.Catalog][rec.SKU]; !known {
		if vc := strings.TrimSpace(rec.VendorCode); vc != "" {
			s.byVendor[rec.Catalog][vc] = append(s.byVendor[rec.Catalog][vc], rec.SKU)
		}
	}
	s.meta[rec.Catalog][rec.SKU] = RecordMeta{
		VendorCode: rec.VendorCode,
		SizeLabel:  rec.SizeLabel,
		Active:     rec.Active,
		UpdatedAt:  rec.UpdatedAt,
	}

	for _, tok := range tokens {
		entry := IndexEntry{
			SKU:        rec.SKU,
			VendorCode: rec.VendorCode,
			IsPrimary:  tok == primary,
			SizeLabel:  rec.SizeLabel,
			UpdatedAt:  rec.UpdatedAt,
		}
		existing, ok := s.entries[rec.Catalog][tok]
		if ok && existing.SKU != rec.SKU {
			s.conflicts++
			// Newer updated_at wins; on an exact tie the already indexed
			// record stays, which is deterministic given the ordered read.
			if !entry.UpdatedAt.After(existing.UpdatedAt) {
				continue
			}
		}
		s.entries[rec.Catalog][tok] = entry
	}
	return nil
}

// Lookup resolves a (catalog, barcode) pair. The barcode may be raw; it is
// canonicalized before probing.
func (s *IndexSnapshot) Lookup(catalog models.Catalog, barcode string) (IndexEntry, bool) {
	entry, ok := s.entries[catalog][CanonicalToken(barcode)]
	return entry, ok
}

// Meta returns the record attributes for a sku in one catalog.
func (s *IndexSnapshot) Meta(catalog models.Catalog, sku string) (RecordMeta, bool) {
	m, ok := s.meta[catalog][sku]
	return m, ok
}

// SkusForVendorCode resolves a vendor code to the skus that carry it.
func (s *IndexSnapshot) SkusForVendorCode(catalog models.Catalog, vendorCode string) []string {
	return s.byVendor[catalog][strings.TrimSpace(vendorCode)]
}

// RecordCount is the number of indexed records in one catalog.
func (s *IndexSnapshot) RecordCount(catalog models.Catalog) int {
	return len(s.meta[catalog])
}

// EntryCount is the number of distinct barcodes owned in one catalog.
func (s *IndexSnapshot) EntryCount(catalog models.Catalog) int {
	return len(s.entries[catalog])
}

// Conflicts is the number of per-catalog barcode collisions observed while
// building, resolved by the newer-record policy.
func (s *IndexSnapshot) Conflicts() int {
	return s.conflicts
}

// Skipped is the number of records rejected by validation.
func (s *IndexSnapshot) Skipped() int {
	return s.skipped
}
