// Package report renders a validation run as a human-readable document.
// Markdown is the canonical format; HTML is derived from it.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lotogrid/domain/features"
)

// Markdown renders the full run record as a markdown document: the
// reproducibility manifest, the summary verdict, and the per-feature table
// sorted as the validator left it (effect size descending).
func Markdown(run *features.RunRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Spatial Validation Report\n\n")
	fmt.Fprintf(&b, "Run `%s` on shape `%s`.\n\n", run.ID, run.ShapeSlug)

	b.WriteString("## Manifest\n\n")
	fmt.Fprintf(&b, "| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Draws analyzed | %d |\n", run.DrawCount)
	fmt.Fprintf(&b, "| Simulations | %d × %d draws |\n", run.NSimulations, run.NDrawsPerSimulation)
	fmt.Fprintf(&b, "| Seed / shards | %d / %d |\n", run.Seed, run.Shards)
	fmt.Fprintf(&b, "| Alpha | %g |\n", run.Alpha)
	fmt.Fprintf(&b, "| Correction | %s |\n", run.Correction)
	fmt.Fprintf(&b, "| Effect threshold | %g |\n", run.EffectSizeThreshold)
	b.WriteString("\n")

	if run.Report == nil {
		b.WriteString("_No report attached._\n")
		return b.String()
	}
	summary := run.Report.Summary

	b.WriteString("## Summary\n\n")
	if summary.SignificantCount == 0 {
		fmt.Fprintf(&b, "No feature deviates from spatial uniformity at alpha %g (%s-corrected, effect ≥ %g).\n\n",
			summary.Alpha, summary.CorrectionMethod, summary.EffectSizeThreshold)
	} else {
		fmt.Fprintf(&b, "**%d of %d features** deviate from spatial uniformity: %s.\n\n",
			summary.SignificantCount, summary.TestedCount,
			strings.Join(summary.SignificantFeatures, ", "))
	}
	if summary.DegenerateCount > 0 {
		fmt.Fprintf(&b, "%d feature(s) had degenerate baselines and were excluded from the verdict.\n\n",
			summary.DegenerateCount)
	}

	b.WriteString("## Features\n\n")
	b.WriteString("| Feature | Observed | Baseline | Effect | p (raw) | p (adj) | 95% CI | Verdict |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, res := range run.Report.Results {
		verdict := "null"
		switch {
		case res.BaselineDegenerate:
			verdict = "degenerate"
		case res.Significant:
			verdict = "**significant**"
		}
		fmt.Fprintf(&b, "| %s | %.4f | %.4f ± %.4f | %.2f (%s) | %.4g | %.4g | [%.4f, %.4f] | %s |\n",
			res.Feature, res.ObservedMean, res.BaselineMean, res.BaselineStd,
			res.EffectSize, res.EffectLabel, res.PValueRaw, res.PValueAdjusted,
			res.CIPercentileLower, res.CIPercentileUpper, verdict)
	}
	b.WriteString("\n")

	return b.String()
}

// HTML renders the markdown report to a standalone HTML fragment.
func HTML(run *features.RunRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(run)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
