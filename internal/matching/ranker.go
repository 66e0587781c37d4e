package matching

import (
	"sort"

	"github.com/xelth-com/matchforgego/internal/models"
)

// Direction selects which catalog the querying sku belongs to.
type Direction string

const (
	DirectionAToB Direction = "a_to_b"
	DirectionBToA Direction = "b_to_a"
)

// DirectionFromCatalog maps the querying side's catalog to a direction.
func DirectionFromCatalog(c models.Catalog) Direction {
	if c == models.CatalogB {
		return DirectionBToA
	}
	return DirectionAToB
}

// Source returns the catalog the queried sku lives in.
func (d Direction) Source() models.Catalog {
	if d == DirectionBToA {
		return models.CatalogB
	}
	return models.CatalogA
}

// Target returns the catalog candidates come from.
func (d Direction) Target() models.Catalog {
	return d.Source().Opposite()
}

// MatchSet groups one generation's match rows for per-sku candidate queries.
// Like the snapshot it is immutable after construction.
type MatchSet struct {
	snap   *IndexSnapshot
	rows   []models.ProductMatch
	bySkuA map[string][]int
	bySkuB map[string][]int
}

// NewMatchSet indexes sorted matcher output by both sku columns.
func NewMatchSet(snap *IndexSnapshot, matches []models.ProductMatch) *MatchSet {
	ms := &MatchSet{
		snap:   snap,
		rows:   matches,
		bySkuA: make(map[string][]int),
		bySkuB: make(map[string][]int),
	}
	for i, m := range matches {
		ms.bySkuA[m.SkuA] = append(ms.bySkuA[m.SkuA], i)
		ms.bySkuB[m.SkuB] = append(ms.bySkuB[m.SkuB], i)
	}
	return ms
}

// Rows returns the full match set in generation order.
func (ms *MatchSet) Rows() []models.ProductMatch {
	return ms.rows
}

// Len is the number of match rows in the set.
func (ms *MatchSet) Len() int {
	return len(ms.rows)
}

// CandidatesFor returns every match involving sku on the querying side,
// ordered by match_score descending, then the candidate record's active flag,
// then its updated_at (freshest first). Remaining ties keep the generation's
// stable order, so repeated queries return identical sequences. A sku that
// shares barcodes with several records surfaces all of them; collapsing
// many-to-many here would hide legitimate size variants. limit <= 0 means
// unlimited.
func (ms *MatchSet) CandidatesFor(sku string, dir Direction, limit int) []models.ProductMatch {
	var idxs []int
	if dir == DirectionBToA {
		idxs = ms.bySkuB[sku]
	} else {
		idxs = ms.bySkuA[sku]
	}
	if len(idxs) == 0 {
		return nil
	}

	target := dir.Target()
	out := make([]models.ProductMatch, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, ms.rows[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		mi, okI := ms.snap.Meta(target, ms.candidateSku(out[i], target))
		mj, okJ := ms.snap.Meta(target, ms.candidateSku(out[j], target))
		if !okI || !okJ {
			return false
		}
		if mi.Active != mj.Active {
			return mi.Active
		}
		if !mi.UpdatedAt.Equal(mj.UpdatedAt) {
			return mi.UpdatedAt.After(mj.UpdatedAt)
		}
		return false
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (ms *MatchSet) candidateSku(m models.ProductMatch, target models.Catalog) string {
	if target == models.CatalogA {
		return m.SkuA
	}
	return m.SkuB
}

// MatchesForBarcodes probes both catalog partitions with a raw barcode list
// and emits one match per token owned on both sides. Output follows the
// normalized input order. limit <= 0 means unlimited.
func (ms *MatchSet) MatchesForBarcodes(raw []string, limit int) []models.ProductMatch {
	tokens, _ := NormalizeTokens(raw, "")
	var out []models.ProductMatch
	for _, tok := range tokens {
		a, okA := ms.snap.Lookup(models.CatalogA, tok)
		b, okB := ms.snap.Lookup(models.CatalogB, tok)
		if !okA || !okB {
			continue
		}
		score, matchedBy := Score(a.IsPrimary, b.IsPrimary)
		m := models.ProductMatch{
			SkuA:       a.SKU,
			SkuB:       b.SKU,
			BarcodeHit: tok,
			MatchedBy:  matchedBy,
			MatchScore: score,
		}
		if len(ms.rows) > 0 {
			m.GenerationID = ms.rows[0].GenerationID
			m.CreatedAt = ms.rows[0].CreatedAt
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
