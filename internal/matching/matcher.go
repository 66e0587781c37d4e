package matching

import (
	"sort"
	"time"

	"github.com/xelth-com/matchforgego/internal/models"
)

// Score computes the fixed confidence score from the two primary flags. No
// other signal takes part in the base score.
func Score(aPrimary, bPrimary bool) (int, string) {
	switch {
	case aPrimary && bPrimary:
		return 100, models.MatchedPrimaryPrimary
	case aPrimary:
		return 80, models.MatchedPrimaryAny
	case bPrimary:
		return 80, models.MatchedAnyPrimary
	default:
		return 60, models.MatchedAnyAny
	}
}

// MatchAll hash-joins the two catalog partitions of a snapshot on equal
// barcode value in a single batched pass. Each shared barcode yields exactly
// one row; a pair reached through several distinct barcodes keeps every row
// (provenance is not collapsed). Output is sorted by (barcode, sku_a, sku_b)
// so repeated runs over the same snapshot are byte-for-byte identical.
func MatchAll(snap *IndexSnapshot, generationID string, builtAt time.Time) []models.ProductMatch {
	side := snap.entries[models.CatalogA]
	probe := snap.entries[models.CatalogB]

	matches := make([]models.ProductMatch, 0, len(side)/4)
	for barcode, a := range side {
		b, ok := probe[barcode]
		if !ok {
			continue
		}
		score, matchedBy := Score(a.IsPrimary, b.IsPrimary)
		matches = append(matches, models.ProductMatch{
			GenerationID: generationID,
			SkuA:         a.SKU,
			SkuB:         b.SKU,
			BarcodeHit:   barcode,
			MatchedBy:    matchedBy,
			MatchScore:   score,
			CreatedAt:    builtAt,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].BarcodeHit != matches[j].BarcodeHit {
			return matches[i].BarcodeHit < matches[j].BarcodeHit
		}
		if matches[i].SkuA != matches[j].SkuA {
			return matches[i].SkuA < matches[j].SkuA
		}
		return matches[i].SkuB < matches[j].SkuB
	})
	return matches
}
