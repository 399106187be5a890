package validate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// empiricalPValueTwoSided computes a two-sided empirical p-value for an
// observed mean against the simulated null sample:
//
//	p = 2 * min(P(sim <= obs), P(sim >= obs))
//
// clipped to [0, 1]. With n simulated samples the resolution floor is 2/n,
// so p can never be exactly zero once obs falls inside the sample support.
func empiricalPValueTwoSided(observed float64, simulated []float64) float64 {
	n := len(simulated)
	if n == 0 {
		return 1
	}
	lower, upper := 0, 0
	for _, v := range simulated {
		if v <= observed {
			lower++
		}
		if v >= observed {
			upper++
		}
	}
	p := 2 * math.Min(float64(lower), float64(upper)) / float64(n)
	return math.Min(p, 1)
}

// effectSize is the absolute standardized distance of the observed mean from
// the null mean. Returns 0 when the null distribution is degenerate.
func effectSize(observed, nullMean, nullStd float64) float64 {
	if nullStd == 0 {
		return 0
	}
	return math.Abs(observed-nullMean) / nullStd
}

// normalInterval is the 95% normal-approximation interval around the null
// mean. Supplementary to the empirical percentile interval: it assumes the
// null is Gaussian, which several geometric features are not.
func normalInterval(mean, std float64) (lo, hi float64) {
	const z = 1.959963984540054
	return mean - z*std, mean + z*std
}

// ksTwoSample runs the two-sample Kolmogorov-Smirnov test. Returns the
// statistic and an asymptotic p-value. Inputs must be finite.
func ksTwoSample(x, y []float64) (statistic, p float64) {
	if len(x) == 0 || len(y) == 0 {
		return 0, 1
	}
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)
	d := stat.KolmogorovSmirnov(xs, nil, ys, nil)

	nx, ny := float64(len(xs)), float64(len(ys))
	ne := nx * ny / (nx + ny)
	lambda := (math.Sqrt(ne) + 0.12 + 0.11/math.Sqrt(ne)) * d
	return d, ksProbability(lambda)
}

// ksProbability evaluates the Kolmogorov distribution tail
// Q(lambda) = 2 * sum_{k>=1} (-1)^(k-1) exp(-2 k^2 lambda^2).
func ksProbability(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	return math.Max(0, math.Min(1, p))
}

// mannWhitneyU runs the two-sample Mann-Whitney U test with the normal
// approximation and tie correction. Returns the U statistic of the first
// sample and a two-sided p-value.
func mannWhitneyU(x, y []float64) (u, p float64) {
	nx, ny := len(x), len(y)
	if nx == 0 || ny == 0 {
		return 0, 1
	}

	type ranked struct {
		value float64
		isX   bool
	}
	all := make([]ranked, 0, nx+ny)
	for _, v := range x {
		all = append(all, ranked{v, true})
	}
	for _, v := range y {
		all = append(all, ranked{v, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	// Assign midranks to ties and accumulate the tie correction term.
	n := float64(nx + ny)
	rankSumX := 0.0
	tieTerm := 0.0
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		midrank := float64(i+j+1) / 2 // ranks are 1-based
		t := float64(j - i)
		if t > 1 {
			tieTerm += t*t*t - t
		}
		for k := i; k < j; k++ {
			if all[k].isX {
				rankSumX += midrank
			}
		}
		i = j
	}

	fx, fy := float64(nx), float64(ny)
	u = rankSumX - fx*(fx+1)/2

	mu := fx * fy / 2
	sigma2 := fx * fy / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if sigma2 <= 0 {
		return u, 1
	}
	z := (u - mu) / math.Sqrt(sigma2)
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	p = 2 * norm.Survival(math.Abs(z))
	return u, math.Min(p, 1)
}
