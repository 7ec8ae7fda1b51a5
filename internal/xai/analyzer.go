// Package xai computes local, deterministic word-importance explanations
// layered on top of the remote classifier's output.
package xai

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/lexicon"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

const minTokenLength = 4

// Analyzer ranks the words of a passage by their contribution to financial
// sentiment. Output is deterministic: the same text and lexicon always
// produce the same ranking.
type Analyzer struct {
	lex           *lexicon.Lexicon
	maxEntries    int
	minImportance float64
}

// NewAnalyzer creates an analyzer over the given lexicon. maxEntries bounds
// the returned list; entries at or below minImportance are dropped.
func NewAnalyzer(lex *lexicon.Lexicon, maxEntries int, minImportance float64) *Analyzer {
	return &Analyzer{
		lex:           lex,
		maxEntries:    maxEntries,
		minImportance: minImportance,
	}
}

// Analyze returns word importances sorted descending, truncated to the
// configured maximum. Duplicate words collapse into one entry whose
// importance incorporates occurrence frequency. Ties keep the order in
// which words first appear in the text.
func (a *Analyzer) Analyze(text string) []types.WordImportance {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	freq := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
	}

	importances := make([]types.WordImportance, 0, len(order))
	for _, word := range order {
		n := freq[word]

		var importance float64
		sentiment := types.SentimentNeutral

		switch {
		case a.lex.MatchesPositive(word):
			importance = keywordImportance(n)
			sentiment = types.SentimentPositive
		case a.lex.MatchesNegative(word):
			importance = keywordImportance(n)
			sentiment = types.SentimentNegative
		case n > 1:
			importance = neutralImportance(n)
		}

		if importance <= a.minImportance {
			continue
		}

		importances = append(importances, types.WordImportance{
			Word:       word,
			Importance: round3(importance),
			Sentiment:  sentiment,
		})
	}

	sort.SliceStable(importances, func(i, j int) bool {
		return importances[i].Importance > importances[j].Importance
	})

	if len(importances) > a.maxEntries {
		importances = importances[:a.maxEntries]
	}
	return importances
}

// keywordImportance scores a lexicon hit. The frequency bonus stays in
// [0, 0.3), so the total never exceeds the 0.9 cap for small frequencies.
func keywordImportance(freq int) float64 {
	bonus := 0.3 * float64(freq) / float64(freq+1)
	return math.Min(0.9, 0.3+0.1*float64(freq)+bonus)
}

// neutralImportance scores a repeated non-lexicon word, bonus in [0, 0.15).
func neutralImportance(freq int) float64 {
	bonus := 0.15 * float64(freq) / float64(freq+1)
	return math.Min(0.4, 0.1+0.05*float64(freq)+bonus)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// tokenize lowercases, strips punctuation, and discards tokens shorter than
// four characters.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() >= minTokenLength {
			tokens = append(tokens, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
