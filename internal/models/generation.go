package models

import "time"

// MatchGeneration records one complete, atomically published (index,
// match-set) build. Exactly one row is current at a time; older rows stay as
// build history after their match rows are dropped.
type MatchGeneration struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	BuiltAt       time.Time `json:"builtAt"`
	CatalogACount int       `json:"catalogACount"`
	CatalogBCount int       `json:"catalogBCount"`
	ConflictCount int       `json:"conflictCount"`
	SkippedCount  int       `json:"skippedCount"`
	MatchCount    int       `json:"matchCount"`
	Current       bool      `gorm:"default:false;index" json:"current"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (MatchGeneration) TableName() string {
	return "match_generations"
}
