package classifierobs

import (
	"context"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/interfaces"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/trace"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

// observableClassifier wraps a Classifier with observability (logging & tracing)
type observableClassifier struct {
	classifier interfaces.Classifier
}

// Compile-time interface check
var _ interfaces.Classifier = (*observableClassifier)(nil)

// Wrap wraps a classifier with observability middleware
func Wrap(classifier interfaces.Classifier) interfaces.Classifier {
	return &observableClassifier{
		classifier: classifier,
	}
}

// Classify runs a classification with observability
func (oc *observableClassifier) Classify(ctx context.Context, text, title string) (types.SentimentResult, types.Outcome, error) {
	ctx, span := trace.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	// Skip(1) reports the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting sentiment classification",
		"text_length", len(text),
		"has_title", title != "",
	)

	result, outcome, err := oc.classifier.Classify(ctx, text, title)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Classification failed", err,
			"text_length", len(text),
		)
		return types.SentimentResult{}, outcome, err
	}

	logger.Classification(ctx, result.Sentiment, result.Recommendation,
		result.Confidence, string(outcome))

	return result, outcome, nil
}
