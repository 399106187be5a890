package validate

import (
	"math"
	"sort"

	"lotogrid/domain/core"
	"lotogrid/domain/features"
)

// adjustPValues applies the configured multiple-comparison correction and
// returns adjusted p-values in the input order.
func adjustPValues(raw []float64, method features.CorrectionMethod) ([]float64, error) {
	switch method {
	case features.CorrectionFDR:
		return benjaminiHochberg(raw), nil
	case features.CorrectionBonferroni:
		return bonferroni(raw), nil
	case features.CorrectionNone:
		return append([]float64(nil), raw...), nil
	default:
		return nil, core.ConfigInvalid("unknown correction method: " + string(method))
	}
}

// benjaminiHochberg computes BH step-up q-values: q_i = p_(i) * m / i over
// ascending p-values, followed by a monotonicity pass from the largest rank
// down so q never decreases with p.
func benjaminiHochberg(raw []float64) []float64 {
	m := len(raw)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return raw[order[a]] < raw[order[b]] })

	q := make([]float64, m)
	prev := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		val := raw[idx] * float64(m) / float64(rank)
		prev = math.Min(prev, val)
		q[idx] = prev
	}
	return q
}

func bonferroni(raw []float64) []float64 {
	m := float64(len(raw))
	out := make([]float64, len(raw))
	for i, p := range raw {
		out[i] = math.Min(p*m, 1)
	}
	return out
}
