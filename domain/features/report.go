package features

import (
	"lotogrid/domain/core"
)

// CorrectionMethod selects the multiple-comparison correction.
type CorrectionMethod string

const (
	CorrectionFDR        CorrectionMethod = "fdr"        // Benjamini-Hochberg
	CorrectionBonferroni CorrectionMethod = "bonferroni" // alpha / k
	CorrectionNone       CorrectionMethod = "none"       // raw p-values
)

// ParseCorrectionMethod validates a configuration string.
func ParseCorrectionMethod(s string) (CorrectionMethod, error) {
	switch CorrectionMethod(s) {
	case CorrectionFDR, CorrectionBonferroni, CorrectionNone:
		return CorrectionMethod(s), nil
	default:
		return "", core.ConfigInvalid("correction_method must be one of fdr, bonferroni, none")
	}
}

// EffectInterpretation buckets an absolute z-score effect size.
func EffectInterpretation(effectSize float64) string {
	switch {
	case effectSize >= 0.5:
		return "large"
	case effectSize >= 0.2:
		return "medium"
	default:
		return "small"
	}
}

// ValidationResult is one feature's comparison against the baseline.
type ValidationResult struct {
	Feature      string  `json:"feature"`
	ObservedMean float64 `json:"observed_mean"`
	ObservedStd  float64 `json:"observed_std"`
	BaselineMean float64 `json:"baseline_mean"`
	BaselineStd  float64 `json:"baseline_std"`

	PValueRaw      float64 `json:"p_value_raw"`
	PValueAdjusted float64 `json:"p_value_adjusted"`
	EffectSize     float64 `json:"effect_size"`
	EffectLabel    string  `json:"effect_label"`

	// Both interval styles are exposed; the percentile interval drives
	// InConfidenceInterval (see DESIGN.md).
	CIPercentileLower float64 `json:"ci_percentile_lower"`
	CIPercentileUpper float64 `json:"ci_percentile_upper"`
	CINormalLower     float64 `json:"ci_normal_lower"`
	CINormalUpper     float64 `json:"ci_normal_upper"`

	InConfidenceInterval bool `json:"in_confidence_interval"`
	InNormalInterval     bool `json:"in_normal_interval"`

	// Supplementary two-sample tests over the raw distributions.
	KSStatistic  float64 `json:"ks_statistic"`
	KSPValue     float64 `json:"ks_p_value"`
	MannWhitneyU float64 `json:"mann_whitney_u"`
	MannWhitneyP float64 `json:"mann_whitney_p"`

	// BaselineDegenerate flags baseline_std == 0: effect size and interval
	// membership are undefined for this feature but the run continues.
	BaselineDegenerate bool `json:"baseline_degenerate"`
	Significant        bool `json:"significant"`
}

// ReportSummary is the executive view of a validation pass.
type ReportSummary struct {
	TestedCount         int      `json:"tested_count"`
	SignificantCount    int      `json:"significant_count"`
	SignificantFeatures []string `json:"significant_features"`
	LargeEffectCount    int      `json:"large_effect_count"`
	DegenerateCount     int      `json:"degenerate_count"`
	CorrectionMethod    string   `json:"correction_method"`
	Alpha               float64  `json:"alpha"`
	EffectSizeThreshold float64  `json:"effect_size_threshold"`
}

// ValidationReport is the full output of the Validator: one result per
// feature, sorted by effect size descending, plus the summary.
type ValidationReport struct {
	RunID   core.RunID         `json:"run_id"`
	Results []ValidationResult `json:"results"`
	Summary ReportSummary      `json:"summary"`
}
