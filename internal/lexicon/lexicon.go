// Package lexicon holds the curated financial vocabulary used for local
// word-importance heuristics.
package lexicon

import "strings"

// Lexicon is a pair of bullish/bearish financial term sets. Matching is by
// substring containment in either direction, so "profits" hits "profit" and
// "high" hits "highs".
type Lexicon struct {
	positive []string
	negative []string
}

// Default returns the lexicon with the standard financial keyword tables.
func Default() *Lexicon {
	return &Lexicon{
		positive: []string{
			"growth", "profit", "gain", "surge", "rally", "bullish", "strong",
			"increase", "rise", "boost", "success", "positive", "upgrade",
			"outperform", "beat", "exceed", "record", "high", "soar", "jump",
			"revenue", "earnings", "expansion", "momentum", "optimistic",
		},
		negative: []string{
			"loss", "decline", "fall", "drop", "bearish", "weak", "decrease",
			"plunge", "crash", "negative", "downgrade", "underperform", "miss",
			"concern", "risk", "low", "tumble", "slump", "warning", "debt",
			"deficit", "bankruptcy", "recession", "volatility", "uncertainty",
		},
	}
}

// New builds a lexicon from caller-supplied tables. Used by tests and by
// deployments that override the vocabulary in config.
func New(positive, negative []string) *Lexicon {
	return &Lexicon{positive: positive, negative: negative}
}

// MatchesPositive reports whether word matches any bullish term.
func (l *Lexicon) MatchesPositive(word string) bool {
	return matches(l.positive, word)
}

// MatchesNegative reports whether word matches any bearish term.
func (l *Lexicon) MatchesNegative(word string) bool {
	return matches(l.negative, word)
}

// Positive returns a copy of the bullish terms in table order.
func (l *Lexicon) Positive() []string {
	out := make([]string, len(l.positive))
	copy(out, l.positive)
	return out
}

// Negative returns a copy of the bearish terms in table order.
func (l *Lexicon) Negative() []string {
	out := make([]string, len(l.negative))
	copy(out, l.negative)
	return out
}

func matches(table []string, word string) bool {
	for _, kw := range table {
		if strings.Contains(word, kw) || strings.Contains(kw, word) {
			return true
		}
	}
	return false
}
