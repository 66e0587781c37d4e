package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Catalog identifies one of the two independently keyed product sources.
type Catalog string

const (
	CatalogA Catalog = "A"
	CatalogB Catalog = "B"
)

// Valid reports whether c names a known catalog.
func (c Catalog) Valid() bool {
	return c == CatalogA || c == CatalogB
}

// Opposite returns the other catalog.
func (c Catalog) Opposite() Catalog {
	if c == CatalogA {
		return CatalogB
	}
	return CatalogA
}

// ParseCatalog accepts the path/query spelling of a catalog ("a", "A", ...).
func ParseCatalog(s string) (Catalog, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return CatalogA, nil
	case "B":
		return CatalogB, nil
	}
	return "", fmt.Errorf("unknown catalog %q", s)
}

// CatalogRecord is one product row as imported from a marketplace catalog.
// The matching engine treats these as read-only input; importers own writes.
type CatalogRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Catalog        Catalog        `gorm:"type:varchar(1);not null;uniqueIndex:idx_records_catalog_sku,priority:1" json:"catalog"`
	SKU            string         `gorm:"column:sku;not null;uniqueIndex:idx_records_catalog_sku,priority:2" json:"sku"`
	VendorCode     string         `gorm:"index" json:"vendorCode,omitempty"`
	Barcodes       datatypes.JSON `gorm:"type:jsonb" json:"barcodes"`
	PrimaryBarcode string         `json:"primaryBarcode,omitempty"`
	SizeLabel      string         `json:"sizeLabel,omitempty"`
	Active         bool           `gorm:"default:true" json:"active"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	ImportedAt     time.Time      `json:"importedAt"`
}

// TableName specifies the table name
func (CatalogRecord) TableName() string {
	return "catalog_records"
}

// BarcodeList decodes the JSONB barcode array into raw strings.
func (r CatalogRecord) BarcodeList() ([]string, error) {
	if len(r.Barcodes) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(r.Barcodes, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BarcodeJSON encodes a barcode list for storage. Helper for importers and
// seeders; the engine never writes records.
func BarcodeJSON(barcodes []string) datatypes.JSON {
	data, err := json.Marshal(barcodes)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}
