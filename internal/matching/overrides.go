package matching

import "github.com/xelth-com/matchforgego/internal/models"

type pairKey struct {
	skuA string
	skuB string
}

// OverrideSet is an immutable read view over the authoritative override
// table. It is consulted as the final filter stage of every candidate query;
// the engine only consumes overrides and never creates them.
type OverrideSet struct {
	byPair map[pairKey]models.MatchOverride
	bySkuA map[string][]models.MatchOverride
	bySkuB map[string][]models.MatchOverride
}

// NewOverrideSet builds the view from the stored rows. On duplicate live
// pairs the earliest row wins, matching the store's append-only intent.
func NewOverrideSet(rows []models.MatchOverride) *OverrideSet {
	os := &OverrideSet{
		byPair: make(map[pairKey]models.MatchOverride, len(rows)),
		bySkuA: make(map[string][]models.MatchOverride),
		bySkuB: make(map[string][]models.MatchOverride),
	}
	for _, o := range rows {
		key := pairKey{skuA: o.SkuA, skuB: o.SkuB}
		if _, dup := os.byPair[key]; dup {
			continue
		}
		os.byPair[key] = o
		os.bySkuA[o.SkuA] = append(os.bySkuA[o.SkuA], o)
		os.bySkuB[o.SkuB] = append(os.bySkuB[o.SkuB], o)
	}
	return os
}

// Get resolves a confirmed pair.
func (os *OverrideSet) Get(skuA, skuB string) (models.MatchOverride, bool) {
	o, ok := os.byPair[pairKey{skuA: skuA, skuB: skuB}]
	return o, ok
}

// For lists the overrides recorded for a sku on the querying side.
func (os *OverrideSet) For(sku string, dir Direction) []models.MatchOverride {
	if dir == DirectionBToA {
		return os.bySkuB[sku]
	}
	return os.bySkuA[sku]
}

// Len is the number of live confirmed pairs.
func (os *OverrideSet) Len() int {
	return len(os.byPair)
}
