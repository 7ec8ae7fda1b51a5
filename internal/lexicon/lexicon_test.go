package lexicon

import "testing"

func TestDefaultTables(t *testing.T) {
	l := Default()

	if len(l.Positive()) != 25 {
		t.Errorf("Expected 25 positive terms, got %d", len(l.Positive()))
	}
	if len(l.Negative()) != 25 {
		t.Errorf("Expected 25 negative terms, got %d", len(l.Negative()))
	}
}

func TestSubstringMatchingBothDirections(t *testing.T) {
	l := Default()

	// Token contains the keyword.
	if !l.MatchesPositive("profits") {
		t.Error("Expected 'profits' to match 'profit'")
	}
	if !l.MatchesNegative("losses") {
		t.Error("Expected 'losses' to match 'loss'")
	}
	// Keyword contains the token.
	if !l.MatchesPositive("earning") {
		t.Error("Expected 'earning' to match 'earnings'")
	}

	if l.MatchesPositive("tuesday") {
		t.Error("Expected 'tuesday' to match nothing")
	}
	if l.MatchesNegative("committee") {
		t.Error("Expected 'committee' to match nothing")
	}
}

func TestIntrospectionReturnsCopies(t *testing.T) {
	l := Default()

	p := l.Positive()
	p[0] = "mutated"
	if l.Positive()[0] == "mutated" {
		t.Error("Expected Positive to return a copy")
	}

	n := l.Negative()
	n[0] = "mutated"
	if l.Negative()[0] == "mutated" {
		t.Error("Expected Negative to return a copy")
	}
}

func TestCustomTables(t *testing.T) {
	l := New([]string{"moon"}, []string{"rug"})

	if !l.MatchesPositive("mooning") {
		t.Error("Expected custom positive term to match")
	}
	if !l.MatchesNegative("rugged") {
		t.Error("Expected custom negative term to match")
	}
	if l.MatchesPositive("profit") {
		t.Error("Expected default terms absent from custom lexicon")
	}
}
