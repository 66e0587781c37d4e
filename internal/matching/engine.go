package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/matchforgego/internal/models"
)

// State of the rebuild pipeline.
type State string

const (
	StateIdle     State = "idle"
	StateIndexing State = "indexing"
	StateMatching State = "matching"
	StateSwapping State = "swapping"
	StateFailed   State = "failed"
)

// RecordSource yields a stable point-in-time enumeration of both catalogs.
// Implementations must not mutate the set mid-enumeration.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]models.CatalogRecord, error)
}

// GenerationStore durably publishes one complete generation at a time.
// Publish must be all-or-nothing; a partial write is the only path to
// observable inconsistency.
type GenerationStore interface {
	PublishGeneration(ctx context.Context, gen *models.MatchGeneration, matches []models.ProductMatch) error
}

// Notifier receives rebuild state transitions, e.g. a websocket hub.
type Notifier interface {
	Broadcast(v interface{})
}

// Generation is one published (index, match-set) pair. Readers always see a
// whole generation or none; the engine swaps the pointer, never mutates one.
type Generation struct {
	Meta     models.MatchGeneration
	Snapshot *IndexSnapshot
	Set      *MatchSet
}

// Candidate is a match or an override as returned to callers. Overrides are
// annotated with Source "override" and rank ahead of every automatic row.
type Candidate struct {
	Source     string    `json:"source"` // auto | override
	SkuA       string    `json:"skuA"`
	SkuB       string    `json:"skuB"`
	BarcodeHit string    `json:"barcodeHit,omitempty"`
	MatchedBy  string    `json:"matchedBy,omitempty"`
	MatchScore int       `json:"matchScore,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Author     string    `json:"author,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Engine owns the rebuild pipeline and the currently published generation.
// Queries are lock-free against the immutable generation once the pointer is
// read; rebuilds run one at a time and extra triggers coalesce.
type Engine struct {
	mu sync.RWMutex

	source   RecordSource
	store    GenerationStore
	notifier Notifier

	state     State
	lastError string
	published *Generation
	overrides *OverrideSet

	isRunning bool
	pendingID string
	rebuildCh chan string
	stopCh    chan struct{}
}

// NewEngine creates an engine over a record source and a generation store.
// The store may be nil for purely in-memory use.
func NewEngine(source RecordSource, store GenerationStore) *Engine {
	return &Engine{
		source:    source,
		store:     store,
		state:     StateIdle,
		overrides: NewOverrideSet(nil),
		rebuildCh: make(chan string, 1),
		stopCh:    make(chan struct{}),
	}
}

// SetNotifier attaches a state-transition broadcaster. Call before Start.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// Start launches the rebuild worker.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isRunning {
		return fmt.Errorf("matching engine already running")
	}
	e.isRunning = true

	go e.worker()
	log.Println("🔄 Matching engine started")
	return nil
}

// Stop stops the rebuild worker. A rebuild already in Swapping runs to
// completion.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isRunning {
		return
	}
	e.isRunning = false
	close(e.stopCh)
	log.Println("🛑 Matching engine stopped")
}

// TriggerRebuild queues a rebuild and returns its generation id. A trigger
// that arrives while another request is still queued coalesces into it and
// returns the already assigned id; two builds never race to publish.
func (e *Engine) TriggerRebuild() string {
	e.mu.Lock()
	if e.pendingID != "" {
		id := e.pendingID
		e.mu.Unlock()
		log.Printf("⏳ Rebuild already queued as generation %s", id)
		return id
	}
	id := uuid.NewString()
	e.pendingID = id
	e.mu.Unlock()

	e.rebuildCh <- id
	log.Printf("📥 Rebuild queued as generation %s", id)
	return id
}

// RunOnce executes a single rebuild synchronously and returns the published
// generation. Used by the one-shot CLI and on startup.
func (e *Engine) RunOnce(ctx context.Context) (*Generation, error) {
	genID := uuid.NewString()
	if err := e.runRebuild(ctx, genID); err != nil {
		return nil, err
	}
	return e.CurrentGeneration(), nil
}

func (e *Engine) worker() {
	for {
		select {
		case genID := <-e.rebuildCh:
			e.mu.Lock()
			if e.pendingID == genID {
				e.pendingID = ""
			}
			e.mu.Unlock()

			if err := e.runRebuild(context.Background(), genID); err != nil {
				log.Printf("❌ Rebuild %s failed: %v", genID, err)
			}
		case <-e.stopCh:
			return
		}
	}
}

// runRebuild drives Indexing → Matching → Swapping. A publish failure is the
// only error worth retrying: the transaction rolled back, so the whole
// pipeline restarts from Indexing rather than retrying the swap in place.
func (e *Engine) runRebuild(ctx context.Context, genID string) error {
	err := e.rebuildOnce(ctx, genID)
	if err != nil && errors.Is(err, ErrPublishFailed) {
		log.Printf("⚠️ Publish failed for generation %s, restarting rebuild: %v", genID, err)
		err = e.rebuildOnce(ctx, genID)
	}
	if err != nil {
		e.setState(StateFailed, genID, err)
		return err
	}
	return nil
}

func (e *Engine) rebuildOnce(ctx context.Context, genID string) error {
	start := time.Now()

	e.setState(StateIndexing, genID, nil)
	records, err := e.source.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog records: %w", err)
	}
	snap := BuildIndex(records)

	e.setState(StateMatching, genID, nil)
	builtAt := time.Now().UTC()
	matches := MatchAll(snap, genID, builtAt)

	meta := models.MatchGeneration{
		ID:            genID,
		BuiltAt:       builtAt,
		CatalogACount: snap.RecordCount(models.CatalogA),
		CatalogBCount: snap.RecordCount(models.CatalogB),
		ConflictCount: snap.Conflicts(),
		SkippedCount:  snap.Skipped(),
		MatchCount:    len(matches),
		Current:       true,
	}

	e.setState(StateSwapping, genID, nil)
	if e.store != nil {
		if err := e.store.PublishGeneration(ctx, &meta, matches); err != nil {
			return fmt.Errorf("%w: %v", ErrPublishFailed, err)
		}
	}

	gen := &Generation{
		Meta:     meta,
		Snapshot: snap,
		Set:      NewMatchSet(snap, matches),
	}

	e.mu.Lock()
	e.published = gen
	e.state = StateIdle
	e.lastError = ""
	e.mu.Unlock()
	e.notify(StateIdle, genID)

	log.Printf("✅ Generation %s published in %v: %d matches, %d conflicts, %d skipped",
		genID, time.Since(start).Round(time.Millisecond), meta.MatchCount, meta.ConflictCount, meta.SkippedCount)
	return nil
}

func (e *Engine) setState(s State, genID string, err error) {
	e.mu.Lock()
	e.state = s
	if err != nil {
		e.lastError = err.Error()
	}
	e.mu.Unlock()
	e.notify(s, genID)
}

func (e *Engine) notify(s State, genID string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Broadcast(map[string]interface{}{
		"type":         "rebuild_state",
		"state":        s,
		"generationId": genID,
	})
}

// State returns the pipeline state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Restore installs a generation published by an earlier process so queries
// are answerable before this process runs its first rebuild.
func (e *Engine) Restore(gen *Generation) {
	e.mu.Lock()
	e.published = gen
	e.mu.Unlock()
}

// CurrentGeneration returns the published generation, or nil before the
// first successful rebuild. The returned value is immutable.
func (e *Engine) CurrentGeneration() *Generation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// SetOverrides swaps in a fresh override view, e.g. after a write through
// the API. Passing the full table keeps the view authoritative.
func (e *Engine) SetOverrides(rows []models.MatchOverride) {
	set := NewOverrideSet(rows)
	e.mu.Lock()
	e.overrides = set
	e.mu.Unlock()
}

// Overrides returns the current override view.
func (e *Engine) Overrides() *OverrideSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.overrides
}

// FindMatches merges automatic candidates with authoritative overrides for
// one sku. Confirmed pairs come first, annotated as override-sourced; their
// automatic rows are folded into that single confirmed entry. For catalog A
// the sku may also be a vendor code, which resolves to every owning sku.
// limit <= 0 means unlimited. An unknown sku yields an empty, non-error
// result.
func (e *Engine) FindMatches(sku string, dir Direction, limit int) []Candidate {
	e.mu.RLock()
	gen := e.published
	ovr := e.overrides
	e.mu.RUnlock()

	skus := []string{sku}
	if gen != nil {
		if _, known := gen.Snapshot.Meta(dir.Source(), sku); !known {
			if resolved := gen.Snapshot.SkusForVendorCode(dir.Source(), sku); len(resolved) > 0 {
				skus = resolved
			}
		}
	}

	var out []Candidate
	for _, s := range skus {
		for _, o := range ovr.For(s, dir) {
			out = append(out, Candidate{
				Source:    "override",
				SkuA:      o.SkuA,
				SkuB:      o.SkuB,
				Reason:    o.Reason,
				Author:    o.Author,
				CreatedAt: o.CreatedAt,
			})
		}
	}
	if gen != nil {
		for _, s := range skus {
			for _, m := range gen.Set.CandidatesFor(s, dir, 0) {
				if _, confirmed := ovr.Get(m.SkuA, m.SkuB); confirmed {
					continue
				}
				out = append(out, Candidate{
					Source:     "auto",
					SkuA:       m.SkuA,
					SkuB:       m.SkuB,
					BarcodeHit: m.BarcodeHit,
					MatchedBy:  m.MatchedBy,
					MatchScore: m.MatchScore,
					CreatedAt:  m.CreatedAt,
				})
			}
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FindBySharedBarcodes resolves a raw barcode list against the published
// generation. Empty before the first rebuild.
func (e *Engine) FindBySharedBarcodes(barcodes []string, limit int) []models.ProductMatch {
	gen := e.CurrentGeneration()
	if gen == nil {
		return nil
	}
	return gen.Set.MatchesForBarcodes(barcodes, limit)
}

// Stats reports the index statistics of the published generation plus the
// pipeline state.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := map[string]interface{}{
		"state":          e.state,
		"override_count": e.overrides.Len(),
	}
	if e.lastError != "" {
		stats["last_error"] = e.lastError
	}
	if e.published != nil {
		m := e.published.Meta
		stats["generation_id"] = m.ID
		stats["built_at"] = m.BuiltAt
		stats["catalog_a_count"] = m.CatalogACount
		stats["catalog_b_count"] = m.CatalogBCount
		stats["conflict_count"] = m.ConflictCount
		stats["skipped_count"] = m.SkippedCount
		stats["match_count"] = m.MatchCount
		stats["barcodes_a"] = e.published.Snapshot.EntryCount(models.CatalogA)
		stats["barcodes_b"] = e.published.Snapshot.EntryCount(models.CatalogB)
	}
	return stats
}
