package sentiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

func okResult() types.SentimentResult {
	return types.SentimentResult{
		Sentiment:      types.SentimentPositive,
		Score:          0.5,
		Confidence:     0.8,
		Recommendation: types.RecommendationBuy,
	}
}

func makeRequests(n int) []types.AnalyzeRequest {
	reqs := make([]types.AnalyzeRequest, n)
	for i := range reqs {
		reqs[i] = types.AnalyzeRequest{Text: fmt.Sprintf("item-%d", i)}
	}
	return reqs
}

func TestAnalyzeAllOneFailureDoesNotBlockSiblings(t *testing.T) {
	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		if text == "item-4" {
			return types.SentimentResult{}, types.OutcomeError, errors.New("connection refused")
		}
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(7), analyze, 5)
	o.AnalyzeAll(context.Background())

	items := o.Items()
	if len(items) != 7 {
		t.Fatalf("Expected 7 items, got %d", len(items))
	}
	for i, item := range items {
		if i == 4 {
			if item.Phase != types.PhaseFailed {
				t.Errorf("Item 4: expected phase failed, got %s", item.Phase)
			}
			if item.Outcome != types.OutcomeError {
				t.Errorf("Item 4: expected outcome error, got %s", item.Outcome)
			}
			if item.Err == "" {
				t.Error("Item 4: expected error message")
			}
			if item.Sentiment != nil {
				t.Error("Item 4: expected no result")
			}
			continue
		}
		if item.Phase != types.PhaseAnalyzed {
			t.Errorf("Item %d: expected phase analyzed, got %s", i, item.Phase)
		}
		if item.Sentiment == nil {
			t.Errorf("Item %d: expected result", i)
		}
		if item.Outcome != types.OutcomeOK {
			t.Errorf("Item %d: expected outcome ok, got %s", i, item.Outcome)
		}
	}
}

func TestAnalyzeAllChunkConcurrencyBound(t *testing.T) {
	var current, peak int64
	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(12), analyze, 5)
	o.AnalyzeAll(context.Background())

	if p := atomic.LoadInt64(&peak); p > 5 {
		t.Errorf("Expected at most 5 concurrent analyses, observed %d", p)
	}
	for i, item := range o.Items() {
		if item.Phase != types.PhaseAnalyzed {
			t.Errorf("Item %d: expected phase analyzed, got %s", i, item.Phase)
		}
	}
}

func TestAnalyzeAllChunkOrdering(t *testing.T) {
	var mu sync.Mutex
	var order []string

	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		mu.Lock()
		order = append(order, text)
		mu.Unlock()
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(7), analyze, 5)
	o.AnalyzeAll(context.Background())

	if len(order) != 7 {
		t.Fatalf("Expected 7 calls, got %d", len(order))
	}
	// The second chunk (items 5, 6) must start only after the first settles.
	firstChunk := map[string]bool{}
	for _, text := range order[:5] {
		firstChunk[text] = true
	}
	for i := 0; i < 5; i++ {
		if !firstChunk[fmt.Sprintf("item-%d", i)] {
			t.Errorf("Expected items 0-4 before items 5-6, got order %v", order)
			break
		}
	}
}

func TestAnalyzeOneRedispatchOverwrites(t *testing.T) {
	var calls int64
	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			return types.SentimentResult{}, types.OutcomeError, errors.New("timeout")
		}
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(1), analyze, 5)
	ctx := context.Background()

	o.AnalyzeOne(ctx, 0)
	item, _ := o.Item(0)
	if item.Phase != types.PhaseFailed {
		t.Fatalf("Expected phase failed after first dispatch, got %s", item.Phase)
	}

	o.AnalyzeOne(ctx, 0)
	item, _ = o.Item(0)
	if item.Phase != types.PhaseAnalyzed {
		t.Errorf("Expected phase analyzed after re-dispatch, got %s", item.Phase)
	}
	if item.Err != "" {
		t.Errorf("Expected cleared error, got %q", item.Err)
	}
	if item.Sentiment == nil {
		t.Error("Expected result after re-dispatch")
	}
}

func TestAnalyzeOneInFlightGuard(t *testing.T) {
	var calls int64
	release := make(chan struct{})
	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(1), analyze, 5)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		o.AnalyzeOne(ctx, 0)
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		item, _ := o.Item(0)
		if item.Phase == types.PhaseAnalyzing {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Item never entered analyzing phase")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// A second dispatch while in flight must be a no-op.
	o.AnalyzeOne(ctx, 0)
	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Errorf("Expected 1 call while in flight, got %d", n)
	}

	close(release)
	<-done

	item, _ := o.Item(0)
	if item.Phase != types.PhaseAnalyzed {
		t.Errorf("Expected phase analyzed, got %s", item.Phase)
	}
}

func TestAnalyzeOneOutOfRange(t *testing.T) {
	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		t.Error("Analyze should not be called for out-of-range index")
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(2), analyze, 5)
	o.AnalyzeOne(context.Background(), -1)
	o.AnalyzeOne(context.Background(), 2)

	if _, ok := o.Item(5); ok {
		t.Error("Expected Item to report out-of-range index")
	}
}

func TestAnalyzeAllCancelledBeforeStart(t *testing.T) {
	var calls int64
	analyze := func(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		atomic.AddInt64(&calls, 1)
		return okResult(), types.OutcomeOK, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(makeRequests(7), analyze, 5)
	o.AnalyzeAll(ctx)

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("Expected no dispatches after cancellation, got %d", n)
	}
	for i, item := range o.Items() {
		if item.Phase != types.PhaseUnanalyzed {
			t.Errorf("Item %d: expected phase unanalyzed, got %s", i, item.Phase)
		}
	}
}

func TestAnalyzeAllCancelledBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int64
	analyze := func(c context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
		atomic.AddInt64(&calls, 1)
		cancel()
		return okResult(), types.OutcomeOK, nil
	}

	o := NewOrchestrator(makeRequests(7), analyze, 5)
	o.AnalyzeAll(ctx)

	// The first chunk runs to completion; the second never starts.
	if n := atomic.LoadInt64(&calls); n != 5 {
		t.Errorf("Expected exactly the first chunk dispatched, got %d calls", n)
	}
	items := o.Items()
	for i := 0; i < 5; i++ {
		if items[i].Phase != types.PhaseAnalyzed {
			t.Errorf("Item %d: expected phase analyzed, got %s", i, items[i].Phase)
		}
	}
	for i := 5; i < 7; i++ {
		if items[i].Phase != types.PhaseUnanalyzed {
			t.Errorf("Item %d: expected phase unanalyzed, got %s", i, items[i].Phase)
		}
	}
}

func TestNewOrchestratorDefaultChunkSize(t *testing.T) {
	o := NewOrchestrator(makeRequests(3), nil, 0)
	if o.chunkSize != 5 {
		t.Errorf("Expected default chunk size 5, got %d", o.chunkSize)
	}
	if o.Len() != 3 {
		t.Errorf("Expected arena of 3, got %d", o.Len())
	}
}
