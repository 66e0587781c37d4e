package matching

import (
	"reflect"
	"testing"
	"time"

	"github.com/xelth-com/matchforgego/internal/models"
)

func TestScoreTable(t *testing.T) {
	cases := []struct {
		aPrimary, bPrimary bool
		wantScore          int
		wantMatchedBy      string
	}{
		{true, true, 100, models.MatchedPrimaryPrimary},
		{true, false, 80, models.MatchedPrimaryAny},
		{false, true, 80, models.MatchedAnyPrimary},
		{false, false, 60, models.MatchedAnyAny},
	}

	for _, c := range cases {
		score, matchedBy := Score(c.aPrimary, c.bPrimary)
		if score != c.wantScore || matchedBy != c.wantMatchedBy {
			t.Errorf("Score(%v, %v) = (%d, %s), want (%d, %s)",
				c.aPrimary, c.bPrimary, score, matchedBy, c.wantScore, c.wantMatchedBy)
		}
	}
}

func TestMatchAll_SharedNonPrimaryBarcode(t *testing.T) {
	// A1 primary "111" and B1 primary "333" do not overlap; "222" overlaps
	// but is primary on neither side.
	now := time.Now()
	snap := BuildIndex([]models.CatalogRecord{
		record(models.CatalogA, "A1", []string{"111", "222"}, "111", now),
		record(models.CatalogB, "B1", []string{"222", "333"}, "333", now),
	})

	matches := MatchAll(snap, "gen-1", now)
	if len(matches) != 1 {
		t.Fatalf("Expected exactly 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.SkuA != "A1" || m.SkuB != "B1" || m.BarcodeHit != "222" {
		t.Errorf("Unexpected match row: %+v", m)
	}
	if m.MatchScore != 60 || m.MatchedBy != models.MatchedAnyAny {
		t.Errorf("Expected any-any score 60, got %d %s", m.MatchScore, m.MatchedBy)
	}
}

func TestMatchAll_PrimaryOnOneSide(t *testing.T) {
	// A1's primary "111" appears on B1 only as a non-primary barcode.
	now := time.Now()
	snap := BuildIndex([]models.CatalogRecord{
		record(models.CatalogA, "A1", []string{"111"}, "111", now),
		record(models.CatalogB, "B1", []string{"111", "444"}, "444", now),
	})

	matches := MatchAll(snap, "gen-1", now)
	if len(matches) != 1 {
		t.Fatalf("Expected exactly 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.BarcodeHit != "111" || m.MatchScore != 80 || m.MatchedBy != models.MatchedPrimaryAny {
		t.Errorf("Expected primary-any score 80 on barcode 111, got %+v", m)
	}
}

func TestMatchAll_BothPrimary(t *testing.T) {
	now := time.Now()
	snap := BuildIndex([]models.CatalogRecord{
		record(models.CatalogA, "A1", []string{"111"}, "111", now),
		record(models.CatalogB, "B1", []string{"111"}, "111", now),
	})

	matches := MatchAll(snap, "gen-1", now)
	if len(matches) != 1 || matches[0].MatchScore != 100 || matches[0].MatchedBy != models.MatchedPrimaryPrimary {
		t.Fatalf("Expected one primary-primary match with score 100, got %+v", matches)
	}
}

func TestMatchAll_ProvenancePreserved(t *testing.T) {
	// Same pair reached through two distinct shared barcodes keeps both rows.
	now := time.Now()
	snap := BuildIndex([]models.CatalogRecord{
		record(models.CatalogA, "A1", []string{"111", "222"}, "", now),
		record(models.CatalogB, "B1", []string{"111", "222"}, "", now),
	})

	matches := MatchAll(snap, "gen-1", now)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 rows for 2 shared barcodes, got %d", len(matches))
	}
	if matches[0].BarcodeHit != "111" || matches[1].BarcodeHit != "222" {
		t.Errorf("Expected deterministic barcode order, got %s then %s",
			matches[0].BarcodeHit, matches[1].BarcodeHit)
	}
}

func TestMatchAll_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []models.CatalogRecord{
		record(models.CatalogA, "A1", []string{"111", "222"}, "111", now),
		record(models.CatalogA, "A2", []string{"333"}, "", now),
		record(models.CatalogB, "B1", []string{"222", "333"}, "333", now),
		record(models.CatalogB, "B2", []string{"111"}, "", now),
	}

	first := MatchAll(BuildIndex(records), "gen-x", now)
	second := MatchAll(BuildIndex(records), "gen-x", now)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated build+match over unchanged input must be identical:\n%v\nvs\n%v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("Expected 3 matches, got %d", len(first))
	}
}
