package models

import "time"

// MatchedBy values describe which side of the barcode hit carried the
// primary flag.
const (
	MatchedPrimaryPrimary = "primary-primary"
	MatchedPrimaryAny     = "primary-any"
	MatchedAnyPrimary     = "any-primary"
	MatchedAnyAny         = "any-any"
)

// ProductMatch is one scored candidate pair, keyed by the shared barcode that
// produced it. The same (sku_a, sku_b) pair reached through several distinct
// barcodes keeps one row per barcode. Rows are regenerated wholesale by every
// rebuild generation, never patched in place.
type ProductMatch struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	GenerationID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_matches_provenance,priority:1" json:"generationId"`
	SkuA           string    `gorm:"column:sku_a;not null;uniqueIndex:idx_matches_provenance,priority:2;index:idx_matches_sku_a" json:"skuA"`
	SkuB           string    `gorm:"column:sku_b;not null;uniqueIndex:idx_matches_provenance,priority:3;index:idx_matches_sku_b" json:"skuB"`
	BarcodeHit     string    `gorm:"not null;uniqueIndex:idx_matches_provenance,priority:4" json:"barcodeHit"`
	MatchedBy      string    `gorm:"not null" json:"matchedBy"`
	MatchScore     int       `gorm:"not null" json:"matchScore"`
	ConfidenceNote string    `json:"confidenceNote,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (ProductMatch) TableName() string {
	return "product_matches"
}
