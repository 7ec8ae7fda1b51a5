package sentiment

import (
	"context"
	"sync"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

// AnalyzeFunc runs the full pipeline for one passage.
type AnalyzeFunc func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error)

// Orchestrator drives single-item and batch analysis over a fixed arena of
// items. Each item moves Unanalyzed -> Analyzing -> Analyzed|Failed; a
// settled item may be re-dispatched, which simply overwrites its slot. The
// arena never grows or shrinks mid-batch.
//
// All slot mutation goes through one mutex, so concurrent completions
// within a chunk cannot clobber each other's phase transitions.
type Orchestrator struct {
	mu        sync.Mutex
	items     []types.AnalysisItem
	analyze   AnalyzeFunc
	chunkSize int
}

// NewOrchestrator creates an orchestrator over the given requests. Every
// item starts in PhaseUnanalyzed.
func NewOrchestrator(requests []types.AnalyzeRequest, analyze AnalyzeFunc, chunkSize int) *Orchestrator {
	if chunkSize <= 0 {
		chunkSize = 5
	}
	items := make([]types.AnalysisItem, len(requests))
	for i, req := range requests {
		items[i] = types.AnalysisItem{
			Text:  req.Text,
			Title: req.Title,
			Phase: types.PhaseUnanalyzed,
		}
	}
	return &Orchestrator{
		items:     items,
		analyze:   analyze,
		chunkSize: chunkSize,
	}
}

// Len returns the arena size.
func (o *Orchestrator) Len() int {
	return len(o.items)
}

// Items returns a snapshot of the per-item state.
func (o *Orchestrator) Items() []types.AnalysisItem {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := make([]types.AnalysisItem, len(o.items))
	copy(snapshot, o.items)
	return snapshot
}

// Item returns a snapshot of one slot.
func (o *Orchestrator) Item(index int) (types.AnalysisItem, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if index < 0 || index >= len(o.items) {
		return types.AnalysisItem{}, false
	}
	return o.items[index], true
}

// AnalyzeOne dispatches a single item. An item already in PhaseAnalyzing is
// a no-op; any other phase (including Analyzed and Failed) is re-dispatched.
// The call never returns an error: every outcome is reflected in the slot.
func (o *Orchestrator) AnalyzeOne(ctx context.Context, index int) {
	o.mu.Lock()
	if index < 0 || index >= len(o.items) {
		o.mu.Unlock()
		return
	}
	if o.items[index].Phase == types.PhaseAnalyzing {
		o.mu.Unlock()
		return
	}
	text, title := o.items[index].Text, o.items[index].Title
	o.items[index].Phase = types.PhaseAnalyzing
	o.items[index].Err = ""
	o.mu.Unlock()

	result, outcome, err := o.analyze(ctx, text, title)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.items[index].Phase = types.PhaseFailed
		o.items[index].Sentiment = nil
		o.items[index].Outcome = types.OutcomeError
		o.items[index].Err = err.Error()
		return
	}

	o.items[index].Phase = types.PhaseAnalyzed
	o.items[index].Sentiment = &result
	o.items[index].Outcome = outcome
}

// AnalyzeAll processes the whole arena in fixed-size chunks. Items within a
// chunk run concurrently and settle independently; chunk k+1 never starts
// before every item of chunk k has settled. Cancelling the context stops
// dispatch of new chunks; in-flight items always run to completion.
func (o *Orchestrator) AnalyzeAll(ctx context.Context) {
	total := len(o.items)
	logger.Info(ctx, "Starting batch analysis", "items", total, "chunk_size", o.chunkSize)

	for start := 0; start < total; start += o.chunkSize {
		if ctx.Err() != nil {
			logger.Warn(ctx, "Batch analysis cancelled", "dispatched", start, "items", total)
			return
		}

		end := start + o.chunkSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				o.AnalyzeOne(ctx, index)
			}(i)
		}
		wg.Wait()
	}

	logger.Info(ctx, "Batch analysis completed", "items", total)
}
