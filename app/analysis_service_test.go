package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotogrid/adapters/stats/montecarlo"
	"lotogrid/adapters/stats/validate"
	"lotogrid/domain/core"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
	"lotogrid/internal/testkit"
)

// recordingRunRepo captures saved runs in memory.
type recordingRunRepo struct {
	saved []*features.RunRecord
}

func (r *recordingRunRepo) SaveRun(_ context.Context, run *features.RunRecord) error {
	r.saved = append(r.saved, run)
	return nil
}

func (r *recordingRunRepo) GetRun(_ context.Context, id core.RunID) (*features.RunRecord, error) {
	for _, run := range r.saved {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, core.NotFound("validation run " + string(id))
}

func (r *recordingRunRepo) ListRuns(_ context.Context, _ string, _ int) ([]*features.RunRecord, error) {
	return r.saved, nil
}

func defaultRequest(t *testing.T, drawCount int, weights []float64) AnalysisRequest {
	t.Helper()
	cfg := testkit.DefaultConfig()
	cfg.DrawCount = drawCount
	cfg.ColumnWeights = weights
	draws, err := testkit.NewGenerator(grid.MegaSena(), cfg).Generate()
	require.NoError(t, err)

	return AnalysisRequest{
		Draws: draws,
		Simulation: montecarlo.Params{
			NSimulations: 200,
			Seed:         42,
			Shards:       4,
		},
		Validation: validate.Config{
			Alpha:               0.05,
			Correction:          features.CorrectionFDR,
			EffectSizeThreshold: 0.5,
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	repo := &recordingRunRepo{}
	service, err := NewAnalysisService(grid.MegaSena(), repo)
	require.NoError(t, err)

	req := defaultRequest(t, 300, nil)
	result, err := service.Run(context.Background(), req)
	require.NoError(t, err)

	// NDrawsPerSimulation defaults to the history length.
	assert.Equal(t, 300, result.Run.NDrawsPerSimulation)
	assert.Equal(t, 300, result.Run.DrawCount)
	assert.Equal(t, "megasena", result.Run.ShapeSlug)
	assert.NotEmpty(t, result.Run.ID)
	assert.Equal(t, features.Count, result.Run.Report.Summary.TestedCount)
	assert.Equal(t, 300, result.Observed.Len())
	assert.Equal(t, 200, result.Baseline.SimulationMeans.Len())

	// Persisted exactly once with the same ID.
	require.Len(t, repo.saved, 1)
	assert.Equal(t, result.Run.ID, repo.saved[0].ID)
}

func TestRun_BiasedHistoryIsFlagged(t *testing.T) {
	service, err := NewAnalysisService(grid.MegaSena(), nil)
	require.NoError(t, err)

	// All numbers confined to the left half of the card.
	req := defaultRequest(t, 300, []float64{1, 1, 1, 0, 0, 0})
	result, err := service.Run(context.Background(), req)
	require.NoError(t, err)

	summary := result.Run.Report.Summary
	assert.Greater(t, summary.SignificantCount, 0)
	assert.Contains(t, summary.SignificantFeatures, "centroid_col")
}

func TestRun_RejectsEmptyHistory(t *testing.T) {
	service, err := NewAnalysisService(grid.MegaSena(), nil)
	require.NoError(t, err)

	_, err = service.Run(context.Background(), AnalysisRequest{
		Simulation: montecarlo.Params{NSimulations: 10, NDrawsPerSimulation: 5, Seed: 1, Shards: 1},
		Validation: validate.Config{Alpha: 0.05, Correction: features.CorrectionFDR, EffectSizeThreshold: 0.5},
	})
	assert.True(t, core.IsCode(err, core.CodeDomainError))
}

func TestRun_PropagatesCancellation(t *testing.T) {
	service, err := NewAnalysisService(grid.MegaSena(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.Run(ctx, defaultRequest(t, 50, nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ExplicitRunIDIsKept(t *testing.T) {
	service, err := NewAnalysisService(grid.MegaSena(), nil)
	require.NoError(t, err)

	req := defaultRequest(t, 50, nil)
	req.RunID = core.RunID("fixed-run-id")
	result, err := service.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, core.RunID("fixed-run-id"), result.Run.ID)
	assert.Equal(t, core.RunID("fixed-run-id"), result.Run.Report.RunID)
}
