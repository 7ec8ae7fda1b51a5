package interfaces

import (
	"context"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

// Classifier sends a passage to the external text-classification boundary
// and returns the parsed result. A transport failure is returned as an
// error with Outcome=OutcomeError; a received-but-unparseable response is
// absorbed into the fixed neutral fallback with Outcome=OutcomeFallback and
// a nil error. The returned result never carries an XAI block; that is
// synthesized locally by the caller.
type Classifier interface {
	Classify(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error)
}
