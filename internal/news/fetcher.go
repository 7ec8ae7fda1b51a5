// Package news fetches financial headlines for sentiment analysis.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

// Fetcher pulls articles from configured RSS feeds, optionally enriching
// short summaries by scraping the article page.
type Fetcher struct {
	feeds         []string
	parser        *gofeed.Parser
	scraper       *Scraper
	limiter       *rateLimiter
	maxArticles   int
	scrapeContent bool
}

// NewFetcher creates a fetcher from config.
func NewFetcher(cfg *store.Config) *Fetcher {
	timeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second
	return &Fetcher{
		feeds:         cfg.News.Feeds,
		parser:        gofeed.NewParser(),
		scraper:       NewScraper(timeout),
		limiter:       newRateLimiter(2, 500*time.Millisecond),
		maxArticles:   cfg.News.MaxArticles,
		scrapeContent: cfg.News.ScrapeContent,
	}
}

// Fetch retrieves headlines from every configured feed. A feed that fails
// is skipped; the remaining feeds still contribute.
func (f *Fetcher) Fetch(ctx context.Context) ([]types.NewsArticle, error) {
	logger.Info(ctx, "Fetching news feeds", "feeds", len(f.feeds))

	articles := []types.NewsArticle{}
	for _, feedURL := range f.feeds {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to parse feed", err, "feed", feedURL)
			continue
		}

		source := feed.Title
		if source == "" {
			source = feedURL
		}

		for _, item := range feed.Items {
			if len(articles) >= f.maxArticles {
				break
			}
			article := types.NewsArticle{
				Title:   strings.TrimSpace(item.Title),
				Summary: stripHTML(item.Description),
				Source:  source,
				URL:     item.Link,
			}
			if item.PublishedParsed != nil {
				article.PublishedAt = item.PublishedParsed.Format(time.RFC3339)
			} else {
				article.PublishedAt = item.Published
			}
			if article.Title == "" {
				continue
			}
			articles = append(articles, article)
		}

		if len(articles) >= f.maxArticles {
			break
		}
	}

	if f.scrapeContent {
		articles = f.enrich(ctx, articles)
	}

	logger.Info(ctx, "News fetch completed", "articles", len(articles))
	return articles, nil
}

// enrich scrapes the article page when the feed only carried a stub summary.
func (f *Fetcher) enrich(ctx context.Context, articles []types.NewsArticle) []types.NewsArticle {
	for i := range articles {
		if len(articles[i].Summary) >= 100 || articles[i].URL == "" {
			continue
		}
		if err := f.limiter.wait(ctx); err != nil {
			break
		}
		content := f.scraper.FetchArticleContent(ctx, articles[i].URL)
		if content != "" {
			articles[i].Summary = content
		}
	}
	return articles
}

// stripHTML flattens feed descriptions that carry markup into plain text.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
