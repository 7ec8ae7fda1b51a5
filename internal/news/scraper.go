package news

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper fetches full article text from news pages.
type Scraper struct {
	timeout time.Duration
}

// NewScraper creates a scraper with the given per-page timeout.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{timeout: timeout}
}

// FetchArticleContent fetches the body text of an article page. Returns ""
// when the page cannot be fetched or no article body is found.
func (s *Scraper) FetchArticleContent(ctx context.Context, articleURL string) string {
	c := colly.NewCollector()
	c.SetRequestTimeout(s.timeout)

	var content string

	c.OnHTML("article, div.article-body, div.content-body, div.story-content", func(e *colly.HTMLElement) {
		// Extract all paragraph text
		paragraphs := []string{}
		e.ForEach("p", func(_ int, el *colly.HTMLElement) {
			text := strings.TrimSpace(el.Text)
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		content = strings.Join(paragraphs, "\n\n")
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	err := c.Visit(articleURL)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article content", err, "url", articleURL)
		return ""
	}

	return content
}
