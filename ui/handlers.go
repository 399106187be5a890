package ui

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lotogrid/adapters/report"
	"lotogrid/adapters/stats/montecarlo"
	"lotogrid/adapters/stats/validate"
	"lotogrid/app"
	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

// handleListShapes returns the built-in lottery shape catalog.
func (s *Server) handleListShapes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shapes": grid.Shapes()})
}

// drawInput is the wire form of one draw in feature and run requests.
type drawInput struct {
	Contest int   `json:"contest"`
	Numbers []int `json:"numbers"`
}

type featuresRequest struct {
	Shape string      `json:"shape" binding:"required"`
	Draws []drawInput `json:"draws" binding:"required"`
}

// handleExtractFeatures computes the feature table for a submitted draw
// list. Stateless: nothing is persisted.
func (s *Server) handleExtractFeatures(c *gin.Context) {
	var req featuresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shape, err := grid.ShapeBySlug(req.Shape)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	draws := make([]draw.Draw, 0, len(req.Draws))
	for _, in := range req.Draws {
		d, err := draw.New(shape, in.Contest, in.Numbers)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		draws = append(draws, d)
	}

	service, err := app.NewAnalysisService(shape, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	table, err := service.ExtractTable(draws)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shape":    shape.Slug,
		"features": table.FeatureNames,
		"rows":     table.Rows,
		"contests": table.RowIDs,
	})
}

// baselineRequest asks for a fresh Monte Carlo baseline. Zero-valued
// parameters fall back to the configured defaults.
type baselineRequest struct {
	Shape               string `json:"shape"`
	NSimulations        int    `json:"n_simulations"`
	NDrawsPerSimulation int    `json:"n_draws_per_simulation" binding:"required,min=1"`
	Seed                *int64 `json:"seed"`
	Shards              int    `json:"shards"`
}

// handleComputeBaseline runs a simulation and returns the per-feature
// baseline statistics. Stateless: nothing is persisted.
func (s *Server) handleComputeBaseline(c *gin.Context) {
	var req baselineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	defaults := s.cfg.Analysis
	if req.Shape == "" {
		req.Shape = defaults.Shape
	}
	shape, err := grid.ShapeBySlug(req.Shape)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if req.NSimulations == 0 {
		req.NSimulations = defaults.NSimulations
	}
	if req.Seed == nil {
		req.Seed = &defaults.Seed
	}
	if req.Shards == 0 {
		req.Shards = defaults.Shards
	}

	simulator, err := montecarlo.New(shape)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	baseline, err := simulator.Run(c.Request.Context(), montecarlo.Params{
		NSimulations:        req.NSimulations,
		NDrawsPerSimulation: req.NDrawsPerSimulation,
		Seed:                *req.Seed,
		Shards:              req.Shards,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch core.GetCode(err) {
		case core.CodeConfigInvalid, core.CodeInsufficientBaseline:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shape":         shape.Slug,
		"n_simulations": req.NSimulations,
		"stats":         baseline.Stats,
	})
}

// handleGetDraws returns the stored history for a shape.
func (s *Server) handleGetDraws(c *gin.Context) {
	if s.draws == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "draw storage not configured"})
		return
	}
	shape, err := grid.ShapeBySlug(c.Param("shape"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	history, err := s.draws.History(c.Request.Context(), shape)
	if err != nil {
		log.Printf("[API] failed to load draw history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draw history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shape": shape.Slug, "count": len(history), "draws": history})
}

// runRequest triggers a full analysis over the stored history. Zero-valued
// parameters fall back to the configured defaults.
type runRequest struct {
	Shape               string  `json:"shape"`
	NSimulations        int     `json:"n_simulations"`
	NDrawsPerSimulation int     `json:"n_draws_per_simulation"`
	Seed                *int64  `json:"seed"`
	Shards              int     `json:"shards"`
	Alpha               float64 `json:"alpha"`
	Correction          string  `json:"correction"`
	EffectSizeThreshold float64 `json:"effect_size_threshold"`
}

// handleCreateRun runs the full pipeline synchronously and returns the
// report. Large simulations belong on the CLI; the API is sized for
// interactive exploration.
func (s *Server) handleCreateRun(c *gin.Context) {
	if s.draws == nil || s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run storage not configured"})
		return
	}
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	defaults := s.cfg.Analysis
	if req.Shape == "" {
		req.Shape = defaults.Shape
	}
	shape, err := grid.ShapeBySlug(req.Shape)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if req.NSimulations == 0 {
		req.NSimulations = defaults.NSimulations
	}
	if req.Seed == nil {
		req.Seed = &defaults.Seed
	}
	if req.Shards == 0 {
		req.Shards = defaults.Shards
	}
	if req.Alpha == 0 {
		req.Alpha = defaults.Alpha
	}
	if req.Correction == "" {
		req.Correction = defaults.Correction
	}
	if req.EffectSizeThreshold == 0 {
		req.EffectSizeThreshold = defaults.EffectSizeThreshold
	}
	correction, err := features.ParseCorrectionMethod(req.Correction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := s.draws.History(c.Request.Context(), shape)
	if err != nil {
		log.Printf("[API] failed to load draw history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draw history"})
		return
	}
	if len(history) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "no draw history ingested for shape " + shape.Slug})
		return
	}

	service, err := app.NewAnalysisService(shape, s.runs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	result, err := service.Run(c.Request.Context(), app.AnalysisRequest{
		Draws: history,
		Simulation: montecarlo.Params{
			NSimulations:        req.NSimulations,
			NDrawsPerSimulation: req.NDrawsPerSimulation,
			Seed:                *req.Seed,
			Shards:              req.Shards,
			RawSampleSize:       defaults.RawSampleSize,
		},
		Validation: validate.Config{
			Alpha:               req.Alpha,
			Correction:          correction,
			EffectSizeThreshold: req.EffectSizeThreshold,
		},
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch core.GetCode(err) {
		case core.CodeInsufficientBaseline, core.CodeConfigInvalid:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"run": result.Run, "runtime_ms": result.RuntimeMs})
}

// handleListRuns returns run manifests newest first, reports omitted.
func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run storage not configured"})
		return
	}
	shapeSlug := c.DefaultQuery("shape", s.cfg.Analysis.Shape)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	runs, err := s.runs.ListRuns(c.Request.Context(), shapeSlug, limit)
	if err != nil {
		log.Printf("[API] failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleRunReportMarkdown(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report_"+string(run.ID)+".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(run)))
}

func (s *Server) handleRunReportHTML(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(run))
}

func (s *Server) lookupRun(c *gin.Context) (*features.RunRecord, bool) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run storage not configured"})
		return nil, false
	}
	run, err := s.runs.GetRun(c.Request.Context(), core.RunID(c.Param("id")))
	if err != nil {
		if core.IsCode(err, core.CodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			log.Printf("[API] failed to load run: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		}
		return nil, false
	}
	return run, true
}
