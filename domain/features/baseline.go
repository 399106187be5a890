package features

import (
	"lotogrid/domain/core"
)

// SummaryStat summarizes one feature's null distribution over the
// per-simulation means.
type SummaryStat struct {
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	P2p5        float64 `json:"percentile_2_5"`
	P50         float64 `json:"percentile_50"`
	P97p5       float64 `json:"percentile_97_5"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	SampleCount int     `json:"sample_count"`
}

// Baseline is the Monte Carlo null distribution: per-feature summary
// statistics plus the raw per-simulation mean table used for empirical
// p-values. Immutable once computed for a given parameter set.
type Baseline struct {
	Stats           map[string]SummaryStat `json:"stats"`
	SimulationMeans *Table                 `json:"simulation_means"`

	// RawDrawSample is a bounded draw-level feature sample retained for
	// distribution-shape tests. Optional: validation falls back to
	// mean-level tests only when it is absent.
	RawDrawSample *Table `json:"raw_draw_sample,omitempty"`
}

// Stat looks up one feature's summary, failing on schema mismatch.
func (b *Baseline) Stat(name string) (SummaryStat, error) {
	stat, ok := b.Stats[name]
	if !ok {
		return SummaryStat{}, core.SchemaMismatchError("feature " + name + " missing from baseline")
	}
	return stat, nil
}

// Validate checks the baseline is usable for validation: at least two
// simulated samples per feature and a schema-complete stats map.
func (b *Baseline) Validate() error {
	if b.SimulationMeans == nil || b.SimulationMeans.Len() < 2 {
		return core.InsufficientBaselineError("baseline needs at least 2 simulations for percentile computation")
	}
	for _, name := range Names() {
		stat, ok := b.Stats[name]
		if !ok {
			return core.SchemaMismatchError("feature " + name + " missing from baseline")
		}
		if stat.SampleCount < 2 {
			return core.InsufficientBaselineError("feature " + name + " has fewer than 2 baseline samples")
		}
	}
	return nil
}
