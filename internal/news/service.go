package news

import (
	"context"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/sentiment"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

// Service ties the feed fetcher to the sentiment pipeline: every fetched
// headline comes back annotated with an analysis result where one could be
// produced.
type Service struct {
	fetcher   *Fetcher
	sentiment *sentiment.Service
}

// NewService creates a news service over the given sentiment service.
func NewService(cfg *store.Config, sentimentSvc *sentiment.Service) *Service {
	return &Service{
		fetcher:   NewFetcher(cfg),
		sentiment: sentimentSvc,
	}
}

// LatestWithSentiment fetches current headlines and analyzes them as one
// batch. An article whose analysis failed is returned with a nil Sentiment;
// the rest of the batch is unaffected.
func (s *Service) LatestWithSentiment(ctx context.Context) ([]types.NewsArticle, error) {
	articles, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return articles, nil
	}

	requests := make([]types.AnalyzeRequest, len(articles))
	for i, article := range articles {
		text := article.Summary
		if text == "" {
			text = article.Title
		}
		requests[i] = types.AnalyzeRequest{Text: text, Title: article.Title}
	}

	entries, err := s.sentiment.AnalyzeBatch(ctx, requests)
	if err != nil {
		return nil, err
	}

	for i, entry := range entries {
		if entry.Result != nil {
			articles[i].Sentiment = entry.Result
		}
	}
	return articles, nil
}

// Latest fetches current headlines without sentiment annotation.
func (s *Service) Latest(ctx context.Context) ([]types.NewsArticle, error) {
	return s.fetcher.Fetch(ctx)
}
