// Package ui exposes the analysis engine over a JSON HTTP API.
package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lotogrid/internal/config"
	"lotogrid/ports"
)

// Server represents the web server for the analysis API
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	draws  ports.DrawRepository // nil disables the history endpoints
	runs   ports.RunRepository  // nil disables the run endpoints
}

// NewServer creates a new API server instance. Repositories may be nil when
// running without a database; the corresponding endpoints then answer 503.
func NewServer(cfg *config.Config, draws ports.DrawRepository, runs ports.RunRepository) *Server {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	s := &Server{
		router: gin.Default(),
		cfg:    cfg,
		draws:  draws,
		runs:   runs,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.GET("/shapes", s.handleListShapes)
		api.POST("/features", s.handleExtractFeatures)
		api.POST("/baseline", s.handleComputeBaseline)

		api.GET("/draws/:shape", s.handleGetDraws)
		api.POST("/runs", s.handleCreateRun)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.GET("/runs/:id/report.md", s.handleRunReportMarkdown)
		api.GET("/runs/:id/report.html", s.handleRunReportHTML)
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server on the configured port.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	log.Printf("[Server] listening on %s", addr)
	return s.router.Run(addr)
}
