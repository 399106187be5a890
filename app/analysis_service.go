package app

import (
	"context"
	"log"
	"time"

	"lotogrid/adapters/stats/extract"
	"lotogrid/adapters/stats/montecarlo"
	"lotogrid/adapters/stats/validate"
	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
	"lotogrid/ports"
)

// AnalysisService runs the full pipeline: extract observed features,
// simulate the uniform baseline, validate, and persist the run record.
type AnalysisService struct {
	shape     grid.Shape
	extractor *extract.Extractor
	simulator *montecarlo.Simulator
	runs      ports.RunRepository // optional; nil disables persistence
}

// AnalysisRequest defines the inputs of one deterministic analysis run.
type AnalysisRequest struct {
	Draws      []draw.Draw
	Simulation montecarlo.Params
	Validation validate.Config
	RunID      core.RunID // optional, generated when empty
}

// AnalysisResult bundles the run record with the intermediate artifacts
// callers may want to inspect or export.
type AnalysisResult struct {
	Run      *features.RunRecord
	Observed *features.Table
	Baseline *features.Baseline

	RuntimeMs int64
}

// NewAnalysisService creates the pipeline service. The run repository may
// be nil for file-in, report-out runs.
func NewAnalysisService(shape grid.Shape, runs ports.RunRepository) (*AnalysisService, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	simulator, err := montecarlo.New(shape)
	if err != nil {
		return nil, err
	}
	return &AnalysisService{
		shape:     shape,
		extractor: extract.New(shape),
		simulator: simulator,
		runs:      runs,
	}, nil
}

// Simulator exposes the underlying simulator so callers can attach a
// progress callback before Run.
func (s *AnalysisService) Simulator() *montecarlo.Simulator {
	return s.simulator
}

// ExtractTable computes the observed feature table for a draw history.
func (s *AnalysisService) ExtractTable(draws []draw.Draw) (*features.Table, error) {
	return s.extractor.Table(draws)
}

// Run executes the full pipeline. When NDrawsPerSimulation is zero it is
// set to the observed history length, so each simulated mean aggregates
// exactly as many draws as the observed one.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	startTime := time.Now()

	if len(req.Draws) == 0 {
		return nil, core.DomainError("analysis needs at least one draw")
	}
	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}
	if req.Simulation.NDrawsPerSimulation == 0 {
		req.Simulation.NDrawsPerSimulation = len(req.Draws)
	}

	log.Printf("[Analysis] run %s: %d draws on shape %s", runID, len(req.Draws), s.shape.Slug)

	observed, err := s.extractor.Table(req.Draws)
	if err != nil {
		return nil, err
	}

	baseline, err := s.simulator.Run(ctx, req.Simulation)
	if err != nil {
		return nil, err
	}

	validator, err := validate.New(baseline, req.Validation)
	if err != nil {
		return nil, err
	}
	report, err := validator.Run(runID, observed)
	if err != nil {
		return nil, err
	}

	run := &features.RunRecord{
		ID:        runID,
		ShapeSlug: s.shape.Slug,
		CreatedAt: time.Now().UTC(),
		DrawCount: len(req.Draws),

		NSimulations:        req.Simulation.NSimulations,
		NDrawsPerSimulation: req.Simulation.NDrawsPerSimulation,
		Seed:                req.Simulation.Seed,
		Shards:              req.Simulation.Shards,
		Alpha:               req.Validation.Alpha,
		Correction:          string(req.Validation.Correction),
		EffectSizeThreshold: req.Validation.EffectSizeThreshold,

		Report: report,
	}

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, run); err != nil {
			return nil, err
		}
	}

	runtime := time.Since(startTime).Milliseconds()
	log.Printf("[Analysis] run %s complete in %dms: %d/%d features significant",
		runID, runtime, report.Summary.SignificantCount, report.Summary.TestedCount)

	return &AnalysisResult{
		Run:       run,
		Observed:  observed,
		Baseline:  baseline,
		RuntimeMs: runtime,
	}, nil
}
