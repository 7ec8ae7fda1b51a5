package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/sentiment"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "FinRLX Sentiment API",
		"version": Version,
		"endpoints": []string{
			"/api/sentiment/analyze (POST)",
			"/api/sentiment/batch (POST)",
			"/api/sentiment/keywords (GET)",
			"/api/news (GET)",
		},
	})
}

// handleAnalyze serves POST /api/sentiment/analyze. Validation failures are
// rejected before any network activity; a classifier transport failure
// surfaces as 502 so the consumer can offer a retry.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: text"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text cannot be empty"})
		return
	}

	result, err := s.sentiment.AnalyzeSentiment(c.Request.Context(), req.Text, req.Title)
	if err != nil {
		if errors.Is(err, sentiment.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text cannot be empty"})
			return
		}
		logger.ErrorWithErr(c.Request.Context(), "Analysis failed", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to analyze sentiment: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleBatch serves POST /api/sentiment/batch. The response array is
// positionally aligned with the request items; individual failures appear
// as error entries rather than failing the whole request.
func (s *Server) handleBatch(c *gin.Context) {
	var req types.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: items"})
		return
	}

	entries, err := s.sentiment.AnalyzeBatch(c.Request.Context(), req.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]gin.H, len(entries))
	for i, entry := range entries {
		if entry.Error != "" {
			results[i] = gin.H{"error": entry.Error, "outcome": entry.Outcome}
			continue
		}
		results[i] = gin.H{"result": entry.Result, "outcome": entry.Outcome}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleKeywords(c *gin.Context) {
	positive, negative := s.sentiment.Keywords()
	c.JSON(http.StatusOK, gin.H{
		"positive_keywords": positive,
		"negative_keywords": negative,
	})
}

func (s *Server) handleNews(c *gin.Context) {
	articles, err := s.news.LatestWithSentiment(c.Request.Context())
	if err != nil {
		logger.ErrorWithErr(c.Request.Context(), "News fetch failed", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch news: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}
