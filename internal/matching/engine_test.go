package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/xelth-com/matchforgego/internal/models"
)

type staticSource struct {
	records []models.CatalogRecord
	err     error
}

func (s *staticSource) LoadRecords(ctx context.Context) ([]models.CatalogRecord, error) {
	return s.records, s.err
}

type memStore struct {
	published []models.MatchGeneration
	failures  int
}

func (m *memStore) PublishGeneration(ctx context.Context, gen *models.MatchGeneration, matches []models.ProductMatch) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("simulated storage outage")
	}
	m.published = append(m.published, *gen)
	return nil
}

func demoRecords(now time.Time) []models.CatalogRecord {
	return []models.CatalogRecord{
		record(models.CatalogA, "A1", []string{"111", "222"}, "111", now),
		record(models.CatalogA, "A2", []string{"333"}, "333", now),
		record(models.CatalogB, "B1", []string{"222", "333"}, "333", now),
		record(models.CatalogB, "B2", []string{"111"}, "", now),
	}
}

func stripVolatile(rows []models.ProductMatch) []models.ProductMatch {
	out := make([]models.ProductMatch, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].GenerationID = ""
		out[i].CreatedAt = time.Time{}
	}
	return out
}

func TestEngine_RunOnceIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(&staticSource{records: demoRecords(now)}, nil)

	gen1, err := engine.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("First rebuild failed: %v", err)
	}
	gen2, err := engine.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("Second rebuild failed: %v", err)
	}

	if gen1.Meta.MatchCount != gen2.Meta.MatchCount {
		t.Errorf("Match cardinality drifted: %d vs %d", gen1.Meta.MatchCount, gen2.Meta.MatchCount)
	}
	if !reflect.DeepEqual(stripVolatile(gen1.Set.Rows()), stripVolatile(gen2.Set.Rows())) {
		t.Errorf("Rebuild over unchanged input must reproduce the same match set")
	}
	if engine.State() != StateIdle {
		t.Errorf("Expected idle after rebuild, got %s", engine.State())
	}
}

func TestEngine_FailureKeepsPublishedGeneration(t *testing.T) {
	now := time.Now()
	source := &staticSource{records: demoRecords(now)}
	engine := NewEngine(source, nil)

	gen1, err := engine.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	source.err = errors.New("source unavailable")
	if _, err := engine.RunOnce(context.Background()); err == nil {
		t.Fatal("Expected rebuild to fail when the source errors")
	}

	if engine.State() != StateFailed {
		t.Errorf("Expected failed state, got %s", engine.State())
	}
	if got := engine.CurrentGeneration(); got != gen1 {
		t.Error("Failed rebuild must not touch the published generation")
	}
	// Queries keep answering from the old generation.
	if rows := engine.FindMatches("A1", DirectionAToB, 0); len(rows) == 0 {
		t.Error("Queries must keep serving the last published generation after a failure")
	}
}

func TestEngine_PublishFailureRetriesWholeRebuild(t *testing.T) {
	now := time.Now()
	store := &memStore{failures: 1}
	engine := NewEngine(&staticSource{records: demoRecords(now)}, store)

	gen, err := engine.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("Expected retry to recover from a single publish failure: %v", err)
	}
	if len(store.published) != 1 {
		t.Fatalf("Expected exactly one published generation, got %d", len(store.published))
	}
	if store.published[0].ID != gen.Meta.ID {
		t.Errorf("Published generation id mismatch: %s vs %s", store.published[0].ID, gen.Meta.ID)
	}
}

func TestEngine_PublishFailureTwiceFails(t *testing.T) {
	now := time.Now()
	store := &memStore{failures: 2}
	engine := NewEngine(&staticSource{records: demoRecords(now)}, store)

	if _, err := engine.RunOnce(context.Background()); !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("Expected ErrPublishFailed after exhausted retry, got %v", err)
	}
	if engine.CurrentGeneration() != nil {
		t.Error("Nothing must be published when every swap attempt fails")
	}
}

func TestEngine_TriggerRebuildCoalesces(t *testing.T) {
	engine := NewEngine(&staticSource{}, nil)
	// Worker not started: both triggers land while the request is queued.
	first := engine.TriggerRebuild()
	second := engine.TriggerRebuild()

	if first == "" {
		t.Fatal("Expected a generation id from TriggerRebuild")
	}
	if first != second {
		t.Errorf("Concurrent triggers must coalesce into one generation: %s vs %s", first, second)
	}
}

func TestEngine_OverrideOutranksAutomaticMatch(t *testing.T) {
	// A1 has a score-100 automatic match with B2, plus an override pointing
	// at B9. The override must come first and be annotated.
	now := time.Now()
	records := demoRecords(now)
	// Make A1 <-> B2 a primary-primary hit on "111".
	records[3] = record(models.CatalogB, "B2", []string{"111"}, "111", now)

	engine := NewEngine(&staticSource{records: records}, nil)
	if _, err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	engine.SetOverrides([]models.MatchOverride{
		{ID: 1, SkuA: "A1", SkuB: "B9", Reason: "manual pairing", Author: "ops"},
	})

	got := engine.FindMatches("A1", DirectionAToB, 0)
	if len(got) < 2 {
		t.Fatalf("Expected override plus automatic candidates, got %v", got)
	}
	if got[0].Source != "override" || got[0].SkuB != "B9" {
		t.Errorf("Override must be the confirmed first result, got %+v", got[0])
	}
	for _, c := range got[1:] {
		if c.Source != "auto" {
			t.Errorf("Automatic rows must be annotated auto, got %+v", c)
		}
	}
}

func TestEngine_OverriddenPairFoldsAutomaticRows(t *testing.T) {
	now := time.Now()
	engine := NewEngine(&staticSource{records: demoRecords(now)}, nil)
	if _, err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	engine.SetOverrides([]models.MatchOverride{
		{ID: 1, SkuA: "A1", SkuB: "B1", Reason: "confirmed"},
	})

	got := engine.FindMatches("A1", DirectionAToB, 0)
	var b1Rows int
	for _, c := range got {
		if c.SkuB == "B1" {
			b1Rows++
			if c.Source != "override" {
				t.Errorf("Overridden pair must report as override-sourced, got %+v", c)
			}
		}
	}
	if b1Rows != 1 {
		t.Errorf("Expected the overridden pair reported exactly once, got %d rows", b1Rows)
	}
}

func TestEngine_QueriesBeforeFirstRebuild(t *testing.T) {
	engine := NewEngine(&staticSource{}, nil)

	if got := engine.FindMatches("A1", DirectionAToB, 0); len(got) != 0 {
		t.Errorf("Expected empty result before first rebuild, got %v", got)
	}
	if got := engine.FindBySharedBarcodes([]string{"111"}, 0); got != nil {
		t.Errorf("Expected nil barcode result before first rebuild, got %v", got)
	}
	if _, ok := engine.Stats()["generation_id"]; ok {
		t.Error("Stats must not report a generation before one is published")
	}
}

func TestEngine_RestoreServesQueries(t *testing.T) {
	now := time.Now()
	snap := BuildIndex(demoRecords(now))
	matches := MatchAll(snap, "gen-restored", now)

	engine := NewEngine(&staticSource{}, nil)
	engine.Restore(&Generation{
		Meta:     models.MatchGeneration{ID: "gen-restored", MatchCount: len(matches)},
		Snapshot: snap,
		Set:      NewMatchSet(snap, matches),
	})

	if got := engine.FindMatches("A1", DirectionAToB, 0); len(got) == 0 {
		t.Error("Restored generation must answer queries without a rebuild")
	}
	if engine.Stats()["generation_id"] != "gen-restored" {
		t.Errorf("Stats must report the restored generation, got %v", engine.Stats()["generation_id"])
	}
}

func TestEngine_VendorCodeQuery(t *testing.T) {
	now := time.Now()
	records := demoRecords(now)
	records[0].VendorCode = "VC-1"

	engine := NewEngine(&staticSource{records: records}, nil)
	if _, err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	direct := engine.FindMatches("A1", DirectionAToB, 0)
	viaVendor := engine.FindMatches("VC-1", DirectionAToB, 0)
	if !reflect.DeepEqual(direct, viaVendor) {
		t.Errorf("Vendor code must resolve to the owning sku's candidates:\n%v\nvs\n%v", direct, viaVendor)
	}
}
