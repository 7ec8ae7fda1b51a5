package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

func TestParseResultCleanJSON(t *testing.T) {
	raw := `{"sentiment":"positive","score":0.8,"confidence":0.9,"recommendation":"BUY","analysis":"Strong quarter."}`

	result, outcome, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != types.OutcomeOK {
		t.Errorf("Expected outcome ok, got %s", outcome)
	}
	if result.Sentiment != types.SentimentPositive || result.Score != 0.8 ||
		result.Confidence != 0.9 || result.Recommendation != types.RecommendationBuy {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestParseResultFencedJSON(t *testing.T) {
	raw := "Sure! Here's the analysis:\n```json\n" +
		`{"sentiment":"negative","score":-0.6,"confidence":0.8,"recommendation":"SELL","analysis":"Weak guidance."}` +
		"\n```\nLet me know if you need more."

	result, outcome, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != types.OutcomeOK {
		t.Errorf("Expected outcome ok, got %s", outcome)
	}
	if result.Sentiment != types.SentimentNegative {
		t.Errorf("Expected negative sentiment, got %q", result.Sentiment)
	}
	if result.Recommendation != types.RecommendationSell {
		t.Errorf("Expected SELL, got %q", result.Recommendation)
	}
}

func TestParseResultNoJSONObject(t *testing.T) {
	result, outcome, err := ParseResult("I cannot analyze this text.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != types.OutcomeFallback {
		t.Errorf("Expected outcome fallback, got %s", outcome)
	}
	want := FallbackResult()
	if result.Sentiment != want.Sentiment || result.Score != want.Score ||
		result.Confidence != want.Confidence || result.Recommendation != want.Recommendation ||
		result.Analysis != want.Analysis {
		t.Errorf("Expected neutral fallback, got %+v", result)
	}
}

func TestParseResultMalformedJSON(t *testing.T) {
	result, outcome, err := ParseResult(`{"sentiment": "positive", "score": }`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != types.OutcomeFallback {
		t.Errorf("Expected outcome fallback, got %s", outcome)
	}
	if result.Sentiment != types.SentimentNeutral || result.Confidence != 0.5 {
		t.Errorf("Expected neutral fallback, got %+v", result)
	}
}

func TestFallbackResultShape(t *testing.T) {
	r := FallbackResult()
	if r.Sentiment != types.SentimentNeutral {
		t.Errorf("Expected neutral, got %q", r.Sentiment)
	}
	if r.Score != 0 {
		t.Errorf("Expected score 0, got %f", r.Score)
	}
	if r.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", r.Confidence)
	}
	if r.Recommendation != types.RecommendationHold {
		t.Errorf("Expected HOLD, got %q", r.Recommendation)
	}
	if r.Analysis == "" {
		t.Error("Expected non-empty analysis")
	}
}

func TestNormalizeClampsAndRepairs(t *testing.T) {
	r := types.SentimentResult{
		Sentiment:      "  POSITIVE ",
		Score:          3.2,
		Confidence:     1.5,
		Recommendation: "strong buy",
	}
	Normalize(&r)

	if r.Sentiment != types.SentimentPositive {
		t.Errorf("Expected positive, got %q", r.Sentiment)
	}
	if r.Score != 1 {
		t.Errorf("Expected score clamped to 1, got %f", r.Score)
	}
	if r.Confidence != 1 {
		t.Errorf("Expected confidence clamped to 1, got %f", r.Confidence)
	}
	// "strong buy" is not a valid enum value so the guard rederives.
	if r.Recommendation != types.RecommendationBuy {
		t.Errorf("Expected rederived BUY, got %q", r.Recommendation)
	}
	if r.Analysis == "" {
		t.Error("Expected narrative fill for empty analysis")
	}
}

func TestNormalizeUnknownSentiment(t *testing.T) {
	r := types.SentimentResult{Sentiment: "bullish", Score: 0.9, Confidence: 0.9}
	Normalize(&r)

	if r.Sentiment != types.SentimentNeutral {
		t.Errorf("Expected neutral for unknown label, got %q", r.Sentiment)
	}
	if r.Recommendation != types.RecommendationHold {
		t.Errorf("Expected HOLD for neutral sentiment, got %q", r.Recommendation)
	}
}

func TestDeriveRecommendation(t *testing.T) {
	tests := []struct {
		name       string
		sentiment  string
		score      float64
		confidence float64
		want       string
	}{
		{"low confidence holds", types.SentimentPositive, 0.9, 0.5, types.RecommendationHold},
		{"confident positive buys", types.SentimentPositive, 0.5, 0.8, types.RecommendationBuy},
		{"weak positive holds", types.SentimentPositive, 0.2, 0.8, types.RecommendationHold},
		{"confident negative sells", types.SentimentNegative, -0.5, 0.8, types.RecommendationSell},
		{"weak negative holds", types.SentimentNegative, -0.2, 0.8, types.RecommendationHold},
		{"neutral holds", types.SentimentNeutral, 0, 0.9, types.RecommendationHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveRecommendation(tt.sentiment, tt.score, tt.confidence)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFullText(t *testing.T) {
	if got := FullText("body", "Title"); got != "Title. body" {
		t.Errorf("Expected 'Title. body', got %q", got)
	}
	if got := FullText("body", ""); got != "body" {
		t.Errorf("Expected 'body', got %q", got)
	}
}

func testConfig(baseURL string) *store.Config {
	cfg := store.Default()
	cfg.Classifier.BaseURL = baseURL
	cfg.Classifier.APIKeyEnv = "TEST_CLASSIFIER_KEY"
	cfg.Classifier.TimeoutSeconds = 5
	return cfg
}

func TestClassifySuccess(t *testing.T) {
	content := "Here you go:\n" +
		`{"sentiment":"positive","score":0.65,"confidence":0.88,"recommendation":"BUY","analysis":"Upbeat results."}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_CLASSIFIER_KEY", "test-key")
	c, err := NewOpenAIClassifier(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, outcome, err := c.Classify(context.Background(), "Apple beats estimates", "Earnings")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != types.OutcomeOK {
		t.Errorf("Expected outcome ok, got %s", outcome)
	}
	if result.Sentiment != types.SentimentPositive || result.Recommendation != types.RecommendationBuy {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestClassifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	t.Setenv("TEST_CLASSIFIER_KEY", "test-key")
	c, err := NewOpenAIClassifier(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, outcome, err := c.Classify(context.Background(), "some text", "")
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if outcome != types.OutcomeError {
		t.Errorf("Expected outcome error, got %s", outcome)
	}
}

func TestClassifyEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "test",
			"object":  "chat.completion",
			"choices": []map[string]any{},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_CLASSIFIER_KEY", "test-key")
	c, err := NewOpenAIClassifier(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, outcome, err := c.Classify(context.Background(), "some text", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != types.OutcomeFallback {
		t.Errorf("Expected outcome fallback, got %s", outcome)
	}
	if result.Sentiment != types.SentimentNeutral {
		t.Errorf("Expected neutral fallback, got %+v", result)
	}
}

func TestNewOpenAIClassifierMissingKey(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_KEY", "")
	if _, err := NewOpenAIClassifier(testConfig("http://localhost")); err == nil {
		t.Fatal("Expected error when API key env is empty")
	}
}
