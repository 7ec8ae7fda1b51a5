// Package classifier implements the sentiment classification boundary over
// an OpenAI-compatible chat-completions endpoint.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/trace"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

const systemPrompt = `You are a FinBERT-based financial sentiment analyzer. Analyze financial news and provide:
1. Sentiment classification (positive/negative/neutral)
2. Sentiment score (-1 to 1, where -1 is very negative, 0 is neutral, 1 is very positive)
3. Confidence level (0 to 1)
4. Investment recommendation (BUY/SELL/HOLD)
5. Brief analysis explaining the sentiment

Respond ONLY with valid JSON in this exact format:
{
  "sentiment": "positive" | "negative" | "neutral",
  "score": <number between -1 and 1>,
  "confidence": <number between 0 and 1>,
  "recommendation": "BUY" | "SELL" | "HOLD",
  "analysis": "<brief explanation>"
}`

const fallbackAnalysis = "Unable to perform detailed sentiment analysis. Please try again."

// OpenAIClassifier calls a chat-completions endpoint and parses the JSON
// object embedded in the model's reply.
type OpenAIClassifier struct {
	client *openai.Client
	cfg    *store.Config
}

// NewOpenAIClassifier creates a classifier from config. The API key is read
// from the environment variable named by classifier.api_key_env.
func NewOpenAIClassifier(cfg *store.Config) (*OpenAIClassifier, error) {
	apiKey := os.Getenv(cfg.Classifier.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s missing", cfg.Classifier.APIKeyEnv)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.Classifier.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.ClassifierTimeout()}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Classify sends the passage to the external boundary. Transport failures
// are returned as errors; a reply without a parseable JSON object becomes
// the fixed neutral fallback result.
func (c *OpenAIClassifier) Classify(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
	ctx, span := trace.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ClassifierTimeout())
	defer cancel()

	fullText := FullText(text, title)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Classifier.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Analyze this financial text:\n\n" + fullText,
			},
		},
		MaxTokens:   c.cfg.Classifier.MaxTokens,
		Temperature: c.cfg.Classifier.Temperature,
	})
	if err != nil {
		return types.SentimentResult{}, types.OutcomeError, fmt.Errorf("classifier request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return FallbackResult(), types.OutcomeFallback, nil
	}

	return ParseResult(resp.Choices[0].Message.Content)
}

// FullText joins an optional title with the body text.
func FullText(text, title string) string {
	if title != "" {
		return title + ". " + text
	}
	return text
}

// FallbackResult is the fixed neutral result substituted when the external
// reply cannot be parsed.
func FallbackResult() types.SentimentResult {
	return types.SentimentResult{
		Sentiment:      types.SentimentNeutral,
		Score:          0,
		Confidence:     0.5,
		Recommendation: types.RecommendationHold,
		Analysis:       fallbackAnalysis,
	}
}

// ParseResult locates the first well-formed JSON object in raw model output,
// tolerating surrounding prose and markdown fences, and normalizes the
// decoded fields. No object, or a decode failure, yields the neutral
// fallback rather than an error.
func ParseResult(raw string) (types.SentimentResult, types.Outcome, error) {
	t := strings.TrimSpace(raw)

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return FallbackResult(), types.OutcomeFallback, nil
	}

	var r types.SentimentResult
	if err := json.Unmarshal([]byte(t[start:end+1]), &r); err != nil {
		return FallbackResult(), types.OutcomeFallback, nil
	}

	Normalize(&r)
	return r, types.OutcomeOK, nil
}

// Normalize clamps ranges and repairs enum fields in place. An unusable
// recommendation is rederived from sentiment, score, and confidence.
func Normalize(r *types.SentimentResult) {
	r.Sentiment = strings.ToLower(strings.TrimSpace(r.Sentiment))
	switch r.Sentiment {
	case types.SentimentPositive, types.SentimentNegative, types.SentimentNeutral:
	default:
		r.Sentiment = types.SentimentNeutral
	}

	if r.Score < -1 {
		r.Score = -1
	} else if r.Score > 1 {
		r.Score = 1
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	} else if r.Confidence > 1 {
		r.Confidence = 1
	}

	r.Recommendation = strings.ToUpper(strings.TrimSpace(r.Recommendation))
	switch r.Recommendation {
	case types.RecommendationBuy, types.RecommendationSell, types.RecommendationHold:
	default:
		r.Recommendation = deriveRecommendation(r.Sentiment, r.Score, r.Confidence)
	}

	if strings.TrimSpace(r.Analysis) == "" {
		r.Analysis = analysisText(r.Sentiment, r.Score, r.Recommendation)
	}
}

// deriveRecommendation applies the deterministic guard used when the model
// omits or garbles its recommendation: low confidence always holds.
func deriveRecommendation(sentiment string, score, confidence float64) string {
	if confidence < 0.6 {
		return types.RecommendationHold
	}
	switch {
	case sentiment == types.SentimentPositive && score > 0.3:
		return types.RecommendationBuy
	case sentiment == types.SentimentNegative && score < -0.3:
		return types.RecommendationSell
	default:
		return types.RecommendationHold
	}
}

// analysisText fills in a narrative when the model returned none.
func analysisText(sentiment string, score float64, recommendation string) string {
	switch sentiment {
	case types.SentimentPositive:
		return fmt.Sprintf("The financial text shows %s sentiment with a score of %.2f. Market indicators suggest %s based on favorable conditions and growth signals.", sentiment, score, recommendation)
	case types.SentimentNegative:
		return fmt.Sprintf("The financial text shows %s sentiment with a score of %.2f. Market indicators suggest %s due to concerning factors and potential risks.", sentiment, score, recommendation)
	default:
		return fmt.Sprintf("The financial text shows %s sentiment with a score of %.2f. Market indicators suggest %s as the situation remains balanced.", sentiment, score, recommendation)
	}
}
