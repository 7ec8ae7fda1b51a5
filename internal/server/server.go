// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/news"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/sentiment"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	sentiment *sentiment.Service
	news      *news.Service
	cfg       *store.Config
}

// New creates a server over the given services.
func New(cfg *store.Config, sentimentSvc *sentiment.Service, newsSvc *news.Service) *Server {
	return &Server{
		sentiment: sentimentSvc,
		news:      newsSvc,
		cfg:       cfg,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/sentiment/analyze", s.handleAnalyze)
		api.POST("/sentiment/batch", s.handleBatch)
		api.GET("/sentiment/keywords", s.handleKeywords)
		api.GET("/news", s.handleNews)
	}

	return r
}
