package models

import (
	"time"

	"gorm.io/gorm"
)

// MatchOverride is a human-confirmed pair. It supersedes every automatic
// match for the same pair regardless of score, and survives across rebuild
// generations. Removal is a soft delete so the store keeps its history.
type MatchOverride struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SkuA      string         `gorm:"column:sku_a;not null;index:idx_overrides_pair,priority:1" json:"skuA"`
	SkuB      string         `gorm:"column:sku_b;not null;index:idx_overrides_pair,priority:2" json:"skuB"`
	Reason    string         `json:"reason,omitempty"`
	Author    string         `json:"author,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (MatchOverride) TableName() string {
	return "match_overrides"
}
