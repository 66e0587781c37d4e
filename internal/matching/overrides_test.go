package matching

import (
	"testing"
	"time"

	"github.com/xelth-com/matchforgego/internal/models"
)

func TestOverrideSet_GetAndDirection(t *testing.T) {
	set := NewOverrideSet([]models.MatchOverride{
		{ID: 1, SkuA: "A1", SkuB: "B1", Reason: "confirmed by hand", Author: "ops"},
		{ID: 2, SkuA: "A1", SkuB: "B2"},
		{ID: 3, SkuA: "A2", SkuB: "B1"},
	})

	if o, ok := set.Get("A1", "B1"); !ok || o.Reason != "confirmed by hand" {
		t.Errorf("Expected pair (A1, B1), got %+v ok=%v", o, ok)
	}
	if _, ok := set.Get("A1", "B9"); ok {
		t.Error("Did not expect an override for (A1, B9)")
	}

	if got := set.For("A1", DirectionAToB); len(got) != 2 {
		t.Errorf("Expected 2 overrides for A1 in a_to_b, got %d", len(got))
	}
	if got := set.For("B1", DirectionBToA); len(got) != 2 {
		t.Errorf("Expected 2 overrides for B1 in b_to_a, got %d", len(got))
	}
	if got := set.For("B1", DirectionAToB); len(got) != 0 {
		t.Errorf("B1 is not a catalog-A sku, got %v", got)
	}
}

func TestOverrideSet_DuplicatePairKeepsEarliest(t *testing.T) {
	earlier := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	set := NewOverrideSet([]models.MatchOverride{
		{ID: 1, SkuA: "A1", SkuB: "B1", Author: "first", CreatedAt: earlier},
		{ID: 2, SkuA: "A1", SkuB: "B1", Author: "second", CreatedAt: earlier.Add(time.Hour)},
	})

	if set.Len() != 1 {
		t.Fatalf("Expected 1 live pair, got %d", set.Len())
	}
	if o, _ := set.Get("A1", "B1"); o.Author != "first" {
		t.Errorf("Expected earliest row to win, got %+v", o)
	}
}
