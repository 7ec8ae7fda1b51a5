package xai

import (
	"fmt"
	"strings"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

// Synthesizer combines the classifier's label with the analyzer's word
// ranking into a human-readable rationale.
type Synthesizer struct {
	analyzer *Analyzer
	topWords int
}

// NewSynthesizer creates a synthesizer. topWords bounds the top positive and
// negative word lists.
func NewSynthesizer(analyzer *Analyzer, topWords int) *Synthesizer {
	return &Synthesizer{analyzer: analyzer, topWords: topWords}
}

// Synthesize builds the XAI block for a classified passage. The word lists
// keep the analyzer's importance ordering; an empty polarity bucket omits
// its clause from the explanation entirely.
func (s *Synthesizer) Synthesize(fullText string, result types.SentimentResult) types.XAIData {
	importances := s.analyzer.Analyze(fullText)

	var topPositive, topNegative []string
	for _, wi := range importances {
		switch wi.Sentiment {
		case types.SentimentPositive:
			if len(topPositive) < s.topWords {
				topPositive = append(topPositive, wi.Word)
			}
		case types.SentimentNegative:
			if len(topNegative) < s.topWords {
				topNegative = append(topNegative, wi.Word)
			}
		}
	}

	var b strings.Builder
	b.WriteString("This sentiment analysis is based on FinBERT model interpretations. ")
	if len(topPositive) > 0 {
		fmt.Fprintf(&b, "Key positive indicators: %s. ", strings.Join(topPositive, ", "))
	}
	if len(topNegative) > 0 {
		fmt.Fprintf(&b, "Key negative indicators: %s. ", strings.Join(topNegative, ", "))
	}
	fmt.Fprintf(&b, "The model's confidence in this %s sentiment is %.0f%%.",
		result.Sentiment, result.Confidence*100)

	return types.XAIData{
		Method:           "LIME",
		WordImportances:  importances,
		TopPositiveWords: topPositive,
		TopNegativeWords: topNegative,
		Explanation:      b.String(),
	}
}
