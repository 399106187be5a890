package extract

import (
	"math"

	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

// eccentricity is the aspect ratio of the draw's spread, rowStd / colStd.
// A zero column spread with nonzero row spread is a degenerate vertical
// line: the ratio is +Inf, surfaced as-is rather than silently divided.
// A draw collapsed in both axes is impossible for distinct numbers, but the
// ratio is defined as 1 for completeness.
func eccentricity(rowStd, colStd float64) float64 {
	if colStd == 0 {
		if rowStd > 0 {
			return math.Inf(1)
		}
		return 1
	}
	return rowStd / colStd
}

// compactness is the occupied-cell count over the perimeter of the
// positions' bounding box. This is the area/perimeter proxy rather than a
// convex-hull perimeter; it only needs to be internally comparable between
// the observed and baseline tables, which both use this definition.
func compactness(n, rowMin, rowMax, colMin, colMax int) float64 {
	height := rowMax - rowMin + 1
	width := colMax - colMin + 1
	perimeter := 2 * (height + width)
	return float64(n) / float64(perimeter)
}

// fillSymmetryAndRings computes the center-relative features: the
// count imbalance across the horizontal and vertical card midlines, and the
// occupancy of three concentric distance rings around the card center.
func (e *Extractor) fillSymmetryAndRings(positions []grid.Position, v features.Vector) {
	centerRow := e.shape.CenterRow()
	centerCol := e.shape.CenterCol()

	upper, left := 0, 0
	var rings [3]int
	for _, p := range positions {
		if float64(p.Row) < centerRow {
			upper++
		}
		if float64(p.Col) < centerCol {
			left++
		}

		dr := float64(p.Row) - centerRow
		dc := float64(p.Col) - centerCol
		switch dist := math.Sqrt(dr*dr + dc*dc); {
		case dist <= 2:
			rings[0]++
		case dist <= 4:
			rings[1]++
		default:
			rings[2]++
		}
	}
	n := len(positions)

	v[features.SymmetryHorizontal] = math.Abs(float64(upper) - float64(n-upper))
	v[features.SymmetryVertical] = math.Abs(float64(left) - float64(n-left))
	v[features.Ring1] = float64(rings[0])
	v[features.Ring2] = float64(rings[1])
	v[features.Ring3] = float64(rings[2])
}
