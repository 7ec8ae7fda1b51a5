// Package sentiment exposes the consumer-facing analysis API and the batch
// orchestrator that drives it.
package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/classifier"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/interfaces"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/lexicon"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/xai"
)

// ErrEmptyText is returned when analysis is requested for empty or
// whitespace-only text. It is raised before any network activity.
var ErrEmptyText = errors.New("text is required for sentiment analysis")

// ErrEmptyBatch is returned when a batch request carries no items.
var ErrEmptyBatch = errors.New("items must be a non-empty array")

// Service provides single-shot and batch sentiment analysis with caching.
type Service struct {
	classifier interfaces.Classifier
	synth      *xai.Synthesizer
	lex        *lexicon.Lexicon
	cache      *resultCache
	cfg        *store.Config
}

// NewService wires the analysis pipeline from config. The lexicon and
// classifier are injected so tests can substitute doubles.
func NewService(cfg *store.Config, cls interfaces.Classifier, lex *lexicon.Lexicon) *Service {
	analyzer := xai.NewAnalyzer(lex, cfg.Analysis.MaxWordImportances, cfg.Analysis.MinImportance)
	return &Service{
		classifier: cls,
		synth:      xai.NewSynthesizer(analyzer, cfg.Analysis.TopWords),
		lex:        lex,
		cache:      newResultCache(cfg.CacheTTL()),
		cfg:        cfg,
	}
}

// AnalyzeSentiment analyzes a single passage. Validation failures return an
// error before any network call; a transport failure at the classifier
// boundary is propagated; a malformed classifier reply resolves to the
// neutral fallback with a locally synthesized explanation.
func (s *Service) AnalyzeSentiment(ctx context.Context, text, title string) (types.SentimentResult, error) {
	result, _, err := s.analyze(ctx, text, title)
	if err != nil {
		return types.SentimentResult{}, err
	}
	return result, nil
}

// AnalyzeBatch analyzes every item and resolves once all of them have
// settled. The returned slice is positionally aligned with the input; one
// item's failure never blocks its siblings.
func (s *Service) AnalyzeBatch(ctx context.Context, items []types.AnalyzeRequest) ([]types.BatchEntry, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	orch := s.NewBatch(items)
	orch.AnalyzeAll(ctx)

	state := orch.Items()
	entries := make([]types.BatchEntry, len(state))
	for i, item := range state {
		entry := types.BatchEntry{Outcome: item.Outcome}
		if item.Sentiment != nil {
			entry.Result = item.Sentiment
		}
		if item.Err != "" {
			entry.Error = item.Err
		}
		entries[i] = entry
	}
	return entries, nil
}

// NewBatch creates an orchestrator over the given items, sharing this
// service's pipeline and cache.
func (s *Service) NewBatch(items []types.AnalyzeRequest) *Orchestrator {
	return NewOrchestrator(items, s.analyze, s.cfg.Analysis.ChunkSize)
}

// Keywords returns the lexicon tables for transparency and testing.
func (s *Service) Keywords() (positive, negative []string) {
	return s.lex.Positive(), s.lex.Negative()
}

// analyze is the shared pipeline: cache lookup, remote classification,
// local explanation synthesis, cache store.
func (s *Service) analyze(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return types.SentimentResult{}, types.OutcomeError, ErrEmptyText
	}

	key := cacheKey(text, title)
	if cached, ok := s.cache.get(key); ok {
		logger.Debug(ctx, "Using cached sentiment", "key", key[:12])
		return cached, types.OutcomeOK, nil
	}

	result, outcome, err := s.classifier.Classify(ctx, text, title)
	if err != nil {
		return types.SentimentResult{}, types.OutcomeError, err
	}

	result.XAI = s.synth.Synthesize(classifier.FullText(text, title), result)

	if outcome == types.OutcomeOK {
		s.cache.set(key, result)
	}
	return result, outcome, nil
}

func cacheKey(text, title string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// resultCache stores analysis results temporarily, keyed by text digest.
type resultCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	result    types.SentimentResult
	timestamp time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	cache := &resultCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *resultCache) get(key string) (types.SentimentResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return types.SentimentResult{}, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return types.SentimentResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) set(key string, result types.SentimentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}
}

func (c *resultCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *resultCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}

// ClearCache removes all cached analysis results.
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}
