// Package extract computes the spatial feature vector of a draw: where the
// played numbers land on the card and how they cluster. Every function is
// deterministic and allocation-light because the Monte Carlo simulator runs
// the same kernels tens of millions of times.
package extract

import (
	"math"

	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

// Extractor turns validated draws into feature vectors for one lottery
// shape. It is stateless after construction and safe for concurrent use.
type Extractor struct {
	shape grid.Shape
}

// New creates a feature extractor for the given card shape.
func New(shape grid.Shape) *Extractor {
	return &Extractor{shape: shape}
}

// Shape returns the card shape this extractor was built for.
func (e *Extractor) Shape() grid.Shape {
	return e.shape
}

// Extract computes the feature vector for one draw. The draw is re-validated
// defensively: a malformed draw fails fast with a domain error instead of
// producing silently wrong features.
func (e *Extractor) Extract(d draw.Draw) (features.Vector, error) {
	if err := d.Validate(e.shape); err != nil {
		return nil, core.Wrap(err, "feature extraction rejected draw")
	}
	positions, err := d.Positions(e.shape)
	if err != nil {
		return nil, err
	}
	v := features.NewVector()
	e.ExtractPositions(positions, v)
	return v, nil
}

// Table computes the observed feature table for an ordered draw sequence.
func (e *Extractor) Table(draws []draw.Draw) (*features.Table, error) {
	table := features.NewTable(len(draws))
	for _, d := range draws {
		v, err := e.Extract(d)
		if err != nil {
			return nil, err
		}
		if err := table.Append(d.Contest, v); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// ExtractPositions fills v with the features of already-validated positions.
// This is the bulk entry point used by the simulator; it performs no
// validation and no allocation beyond what the caller passed in.
func (e *Extractor) ExtractPositions(positions []grid.Position, v features.Vector) {
	n := len(positions)
	fn := float64(n)

	// Centroid, min/max and quadrant/border/corner counts in one pass.
	var sumRow, sumCol float64
	rowMin, rowMax := positions[0].Row, positions[0].Row
	colMin, colMax := positions[0].Col, positions[0].Col
	var quads [4]int
	border, corner := 0, 0
	for _, p := range positions {
		sumRow += float64(p.Row)
		sumCol += float64(p.Col)
		if p.Row < rowMin {
			rowMin = p.Row
		}
		if p.Row > rowMax {
			rowMax = p.Row
		}
		if p.Col < colMin {
			colMin = p.Col
		}
		if p.Col > colMax {
			colMax = p.Col
		}
		quads[e.shape.Quadrant(p.Row, p.Col)]++
		if e.shape.IsBorder(p.Row, p.Col) {
			border++
		}
		if e.shape.IsCorner(p.Row, p.Col) {
			corner++
		}
	}
	meanRow := sumRow / fn
	meanCol := sumCol / fn

	// Spread (population std) and inertia share the centroid deviations.
	var varRow, varCol, inertia float64
	for _, p := range positions {
		dr := float64(p.Row) - meanRow
		dc := float64(p.Col) - meanCol
		varRow += dr * dr
		varCol += dc * dc
		inertia += dr*dr + dc*dc
	}
	rowStd := math.Sqrt(varRow / fn)
	colStd := math.Sqrt(varCol / fn)

	// Pairwise pass: Manhattan dispersion plus 4-/8-adjacency counts.
	var totalManhattan float64
	adj4, adj8 := 0, 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dr := absInt(positions[i].Row - positions[j].Row)
			dc := absInt(positions[i].Col - positions[j].Col)
			totalManhattan += float64(dr + dc)
			if dr+dc == 1 {
				adj4++
			}
			if dr <= 1 && dc <= 1 {
				adj8++
			}
		}
	}
	pairs := float64(n*(n-1)) / 2
	dispersion := totalManhattan / pairs

	conn4 := connectedComponents(positions, false)
	conn8 := connectedComponents(positions, true)

	v[features.CentroidRow] = meanRow
	v[features.CentroidCol] = meanCol
	v[features.Dispersion] = dispersion
	v[features.Q1] = float64(quads[0])
	v[features.Q2] = float64(quads[1])
	v[features.Q3] = float64(quads[2])
	v[features.Q4] = float64(quads[3])
	v[features.BorderCount] = float64(border)
	v[features.CornerCount] = float64(corner)
	v[features.RowStd] = rowStd
	v[features.ColStd] = colStd
	v[features.RowMin] = float64(rowMin)
	v[features.RowMax] = float64(rowMax)
	v[features.ColMin] = float64(colMin)
	v[features.ColMax] = float64(colMax)
	v[features.Adjacencies4] = float64(adj4)
	v[features.Adjacencies8] = float64(adj8)
	v[features.Connectivity4] = float64(conn4)
	v[features.Connectivity8] = float64(conn8)
	v[features.Inertia] = inertia
	v[features.Eccentricity] = eccentricity(rowStd, colStd)
	v[features.Compactness] = compactness(n, rowMin, rowMax, colMin, colMax)
	e.fillSymmetryAndRings(positions, v)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
