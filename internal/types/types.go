package types

// Sentiment labels reported by the classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Trade recommendations derived from sentiment.
const (
	RecommendationBuy  = "BUY"
	RecommendationSell = "SELL"
	RecommendationHold = "HOLD"
)

// WordImportance is a single entry of the local explainability output.
// Word is lowercased and longer than 3 characters; Importance is in (0, 1].
type WordImportance struct {
	Word       string  `json:"word"`
	Importance float64 `json:"importance"`
	Sentiment  string  `json:"sentiment"`
}

// XAIData is the locally computed explanation layered on top of the
// classifier's output. WordImportances is sorted descending by importance.
type XAIData struct {
	Method           string           `json:"method"`
	WordImportances  []WordImportance `json:"wordImportances"`
	TopPositiveWords []string         `json:"topPositiveWords"`
	TopNegativeWords []string         `json:"topNegativeWords"`
	Explanation      string           `json:"explanation"`
}

// SentimentResult is the immutable per-article analysis result.
type SentimentResult struct {
	Sentiment      string  `json:"sentiment"`
	Score          float64 `json:"score"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
	Analysis       string  `json:"analysis"`
	XAI            XAIData `json:"xai"`
}

// Outcome tags how a SentimentResult was produced, so a fallback neutral
// result stays distinguishable from a genuinely neutral classification.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
	OutcomeError    Outcome = "error"
)

// Phase is the lifecycle state of an item under orchestration.
type Phase string

const (
	PhaseUnanalyzed Phase = "unanalyzed"
	PhaseAnalyzing  Phase = "analyzing"
	PhaseAnalyzed   Phase = "analyzed"
	PhaseFailed     Phase = "failed"
)

// AnalysisItem is the per-article orchestration state. Sentiment is nil
// until the item reaches PhaseAnalyzed.
type AnalysisItem struct {
	Text      string           `json:"text"`
	Title     string           `json:"title,omitempty"`
	Phase     Phase            `json:"phase"`
	Sentiment *SentimentResult `json:"sentiment,omitempty"`
	Outcome   Outcome          `json:"outcome,omitempty"`
	Err       string           `json:"error,omitempty"`
}

// AnalyzeRequest is the body of POST /api/sentiment/analyze and one entry
// of a batch request.
type AnalyzeRequest struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// BatchRequest is the body of POST /api/sentiment/batch.
type BatchRequest struct {
	Items []AnalyzeRequest `json:"items"`
}

// BatchEntry is one positional result of a batch analysis. Exactly one of
// Result or Error is meaningful.
type BatchEntry struct {
	Result  *SentimentResult `json:"result,omitempty"`
	Outcome Outcome          `json:"outcome"`
	Error   string           `json:"error,omitempty"`
}

// NewsArticle is a fetched headline plus whatever body text was recovered.
type NewsArticle struct {
	Title       string           `json:"title"`
	Summary     string           `json:"summary"`
	Source      string           `json:"source"`
	URL         string           `json:"url"`
	PublishedAt string           `json:"publishedAt,omitempty"`
	Sentiment   *SentimentResult `json:"sentiment,omitempty"`
}
