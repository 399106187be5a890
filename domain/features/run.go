package features

import (
	"time"

	"lotogrid/domain/core"
)

// RunRecord is the persistent manifest of one validation run: the exact
// parameters needed to reproduce it plus the resulting report. Listing
// queries omit the report.
type RunRecord struct {
	ID        core.RunID `json:"id"`
	ShapeSlug string     `json:"shape_slug"`
	CreatedAt time.Time  `json:"created_at"`
	DrawCount int        `json:"draw_count"`

	NSimulations        int     `json:"n_simulations"`
	NDrawsPerSimulation int     `json:"n_draws_per_simulation"`
	Seed                int64   `json:"seed"`
	Shards              int     `json:"shards"`
	Alpha               float64 `json:"alpha"`
	Correction          string  `json:"correction"`
	EffectSizeThreshold float64 `json:"effect_size_threshold"`

	Report *ValidationReport `json:"report,omitempty"`
}
