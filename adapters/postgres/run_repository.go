package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"lotogrid/domain/core"
	"lotogrid/domain/features"
	"lotogrid/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new validation run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// runParams is the JSONB shape of the reproducibility manifest.
type runParams struct {
	DrawCount           int     `json:"draw_count"`
	NSimulations        int     `json:"n_simulations"`
	NDrawsPerSimulation int     `json:"n_draws_per_simulation"`
	Seed                int64   `json:"seed"`
	Shards              int     `json:"shards"`
	Alpha               float64 `json:"alpha"`
	Correction          string  `json:"correction"`
	EffectSizeThreshold float64 `json:"effect_size_threshold"`
}

// SaveRun inserts a completed run with its manifest and report.
func (r *runRepository) SaveRun(ctx context.Context, run *features.RunRecord) error {
	paramsJSON, err := json.Marshal(runParams{
		DrawCount:           run.DrawCount,
		NSimulations:        run.NSimulations,
		NDrawsPerSimulation: run.NDrawsPerSimulation,
		Seed:                run.Seed,
		Shards:              run.Shards,
		Alpha:               run.Alpha,
		Correction:          run.Correction,
		EffectSizeThreshold: run.EffectSizeThreshold,
	})
	if err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to marshal run params")
	}
	reportJSON, err := json.Marshal(run.Report)
	if err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to marshal run report")
	}

	query := `INSERT INTO validation_runs (id, shape_slug, created_at, draw_count, params, report)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		string(run.ID), run.ShapeSlug, run.CreatedAt, run.DrawCount, paramsJSON, reportJSON)
	if err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to insert validation run")
	}
	return nil
}

// GetRun retrieves one run with its full report.
func (r *runRepository) GetRun(ctx context.Context, id core.RunID) (*features.RunRecord, error) {
	query := `SELECT id, shape_slug, created_at, draw_count, params, report
		FROM validation_runs WHERE id = $1`

	var run features.RunRecord
	var paramsJSON, reportJSON []byte
	err := r.db.QueryRowContext(ctx, query, string(id)).Scan(
		&run.ID, &run.ShapeSlug, &run.CreatedAt, &run.DrawCount, &paramsJSON, &reportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NotFound("validation run " + string(id))
		}
		return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to get validation run")
	}

	if err := unmarshalParams(paramsJSON, &run); err != nil {
		return nil, err
	}
	if len(reportJSON) > 0 {
		run.Report = &features.ValidationReport{}
		if err := json.Unmarshal(reportJSON, run.Report); err != nil {
			return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to unmarshal run report")
		}
	}
	return &run, nil
}

// ListRuns returns run manifests newest first, reports omitted.
func (r *runRepository) ListRuns(ctx context.Context, shapeSlug string, limit int) ([]*features.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, shape_slug, created_at, draw_count, params
		FROM validation_runs WHERE shape_slug = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, shapeSlug, limit)
	if err != nil {
		return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to list validation runs")
	}
	defer rows.Close()

	var runs []*features.RunRecord
	for rows.Next() {
		var run features.RunRecord
		var paramsJSON []byte
		if err := rows.Scan(&run.ID, &run.ShapeSlug, &run.CreatedAt, &run.DrawCount, &paramsJSON); err != nil {
			return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to scan validation run")
		}
		if err := unmarshalParams(paramsJSON, &run); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to iterate validation runs")
	}
	return runs, nil
}

func unmarshalParams(data []byte, run *features.RunRecord) error {
	if len(data) == 0 {
		return nil
	}
	var params runParams
	if err := json.Unmarshal(data, &params); err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to unmarshal run params")
	}
	run.NSimulations = params.NSimulations
	run.NDrawsPerSimulation = params.NDrawsPerSimulation
	run.Seed = params.Seed
	run.Shards = params.Shards
	run.Alpha = params.Alpha
	run.Correction = params.Correction
	run.EffectSizeThreshold = params.EffectSizeThreshold
	return nil
}
