package validate

import (
	"log"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"lotogrid/domain/core"
	"lotogrid/domain/features"
)

// Config are the decision parameters of a validation pass.
type Config struct {
	Alpha               float64                   `json:"alpha"`
	Correction          features.CorrectionMethod `json:"correction"`
	EffectSizeThreshold float64                   `json:"effect_size_threshold"`
}

// Validate checks the decision parameters.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return core.ConfigInvalid("alpha must be in (0, 1)")
	}
	if _, err := features.ParseCorrectionMethod(string(c.Correction)); err != nil {
		return err
	}
	if c.EffectSizeThreshold < 0 {
		return core.ConfigInvalid("effect_size_threshold must be non-negative")
	}
	return nil
}

// Validator compares observed feature distributions against a Monte Carlo
// baseline and reports which features deviate from spatial uniformity. A
// feature is only declared significant when three independent gates agree:
// the corrected p-value clears alpha, the effect size clears the threshold,
// and the observed mean falls outside the empirical percentile interval.
type Validator struct {
	baseline *features.Baseline
	cfg      Config
}

// New builds a validator over a computed baseline. Fails fast on a baseline
// too small to support percentile computation.
func New(baseline *features.Baseline, cfg Config) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if baseline == nil {
		return nil, core.InsufficientBaselineError("baseline is required")
	}
	if err := baseline.Validate(); err != nil {
		return nil, err
	}
	return &Validator{baseline: baseline, cfg: cfg}, nil
}

// Run validates every feature of the observed table against the baseline
// and assembles the report, sorted by effect size descending.
func (v *Validator) Run(runID core.RunID, observed *features.Table) (*features.ValidationReport, error) {
	if observed == nil || observed.Len() == 0 {
		return nil, core.DomainErrorf("observed feature table is empty")
	}
	if !observed.SameSchema(v.baseline.SimulationMeans) {
		return nil, core.SchemaMismatchError("observed table schema does not match baseline schema")
	}

	names := observed.FeatureNames
	results := make([]features.ValidationResult, 0, len(names))
	rawPValues := make([]float64, 0, len(names))

	for idx, name := range names {
		stat, err := v.baseline.Stat(name)
		if err != nil {
			return nil, err
		}

		obsCol := finiteOnly(observed.Column(idx))
		simCol := finiteOnly(v.baseline.SimulationMeans.Column(idx))

		res := features.ValidationResult{
			Feature:      name,
			BaselineMean: stat.Mean,
			BaselineStd:  stat.Std,

			CIPercentileLower: stat.P2p5,
			CIPercentileUpper: stat.P97p5,
		}

		if len(obsCol) == 0 {
			// Every observed value was non-finite. Record the feature
			// as degenerate rather than abort the whole run.
			res.BaselineDegenerate = true
			res.PValueRaw = 1
			res.EffectLabel = features.EffectInterpretation(0)
			results = append(results, res)
			rawPValues = append(rawPValues, 1)
			continue
		}

		res.ObservedMean, _ = stats.Mean(obsCol)
		if len(obsCol) > 1 {
			res.ObservedStd, _ = stats.StandardDeviationSample(obsCol)
		}

		res.PValueRaw = empiricalPValueTwoSided(res.ObservedMean, simCol)
		res.EffectSize = effectSize(res.ObservedMean, stat.Mean, stat.Std)
		res.EffectLabel = features.EffectInterpretation(res.EffectSize)

		res.CINormalLower, res.CINormalUpper = normalInterval(stat.Mean, stat.Std)
		res.InConfidenceInterval = res.ObservedMean >= stat.P2p5 && res.ObservedMean <= stat.P97p5
		res.InNormalInterval = res.ObservedMean >= res.CINormalLower && res.ObservedMean <= res.CINormalUpper

		if stat.Std == 0 {
			res.BaselineDegenerate = true
		}

		if raw := v.rawColumn(name); len(raw) > 1 && len(obsCol) > 1 {
			res.KSStatistic, res.KSPValue = ksTwoSample(obsCol, raw)
			res.MannWhitneyU, res.MannWhitneyP = mannWhitneyU(obsCol, raw)
		}

		results = append(results, res)
		rawPValues = append(rawPValues, res.PValueRaw)
	}

	adjusted, err := adjustPValues(rawPValues, v.cfg.Correction)
	if err != nil {
		return nil, err
	}

	summary := features.ReportSummary{
		TestedCount:         len(results),
		CorrectionMethod:    string(v.cfg.Correction),
		Alpha:               v.cfg.Alpha,
		EffectSizeThreshold: v.cfg.EffectSizeThreshold,
	}
	for i := range results {
		res := &results[i]
		res.PValueAdjusted = adjusted[i]
		res.Significant = !res.BaselineDegenerate &&
			res.PValueAdjusted < v.cfg.Alpha &&
			res.EffectSize >= v.cfg.EffectSizeThreshold &&
			!res.InConfidenceInterval

		if res.Significant {
			summary.SignificantCount++
		}
		if res.EffectLabel == "large" && !res.BaselineDegenerate {
			summary.LargeEffectCount++
		}
		if res.BaselineDegenerate {
			summary.DegenerateCount++
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].EffectSize > results[b].EffectSize
	})
	for _, res := range results {
		if res.Significant {
			summary.SignificantFeatures = append(summary.SignificantFeatures, res.Feature)
		}
	}

	log.Printf("[Validator] run %s: %d/%d features significant (%s, alpha=%.3f)",
		runID, summary.SignificantCount, summary.TestedCount, summary.CorrectionMethod, v.cfg.Alpha)

	return &features.ValidationReport{
		RunID:   runID,
		Results: results,
		Summary: summary,
	}, nil
}

// rawColumn returns the finite draw-level baseline sample for a feature, or
// nil when the baseline carries no raw sample.
func (v *Validator) rawColumn(name string) []float64 {
	raw := v.baseline.RawDrawSample
	if raw == nil || raw.Len() == 0 {
		return nil
	}
	col, err := raw.ColumnByName(name)
	if err != nil {
		return nil
	}
	return finiteOnly(col)
}

func finiteOnly(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
