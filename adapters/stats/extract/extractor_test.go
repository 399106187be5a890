package extract

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

func extractNumbers(t *testing.T, numbers []int) features.Vector {
	t.Helper()
	shape := grid.MegaSena()
	d, err := draw.New(shape, 1, numbers)
	require.NoError(t, err)
	v, err := New(shape).Extract(d)
	require.NoError(t, err)
	return v
}

func TestExtract_VerticalLine(t *testing.T) {
	// 1..6 occupy rows 0-5 of column 0.
	v := extractNumbers(t, []int{1, 2, 3, 4, 5, 6})

	assert.InDelta(t, 2.5, v[features.CentroidRow], 1e-12)
	assert.Equal(t, 0.0, v[features.CentroidCol])
	assert.Equal(t, 0.0, v[features.ColStd])
	// Pairwise row distances over 0..5 sum to 35 across the 15 pairs.
	assert.InDelta(t, 35.0/15.0, v[features.Dispersion], 1e-12)
	assert.Equal(t, 5.0, v[features.Adjacencies4])
	assert.Equal(t, 1.0, v[features.Connectivity4])
	assert.Equal(t, 1.0, v[features.Connectivity8])
	// Vertical line with zero column spread: eccentricity is +Inf.
	assert.True(t, math.IsInf(v[features.Eccentricity], 1))
	// Bounding box 6x1, perimeter 14.
	assert.InDelta(t, 6.0/14.0, v[features.Compactness], 1e-12)
}

func TestExtract_Block(t *testing.T) {
	// 1..3 and 11..13 form a 3x2 block: the adjacency graph is cyclic, so
	// the pair count exceeds the 5 edges a spanning tree would have.
	v := extractNumbers(t, []int{1, 2, 3, 11, 12, 13})

	assert.Equal(t, 7.0, v[features.Adjacencies4])
	assert.Equal(t, 11.0, v[features.Adjacencies8])
	assert.Equal(t, 1.0, v[features.Connectivity4])
	assert.Equal(t, 1.0, v[features.Connectivity8])
	assert.InDelta(t, 1.0, v[features.CentroidRow], 1e-12)
	assert.InDelta(t, 0.5, v[features.CentroidCol], 1e-12)
	// Bounding box 3x2, perimeter 10, fully occupied.
	assert.InDelta(t, 6.0/10.0, v[features.Compactness], 1e-12)
}

func TestExtract_HorizontalLine(t *testing.T) {
	// 1, 11, ..., 51 occupy row 0 of every column: a connected
	// horizontal line of 4-neighbors.
	v := extractNumbers(t, []int{1, 11, 21, 31, 41, 51})

	assert.Equal(t, 0.0, v[features.CentroidRow])
	assert.Equal(t, 0.0, v[features.RowStd])
	assert.InDelta(t, 2.5, v[features.CentroidCol], 1e-12)
	assert.Equal(t, 5.0, v[features.Adjacencies4])
	assert.Equal(t, 1.0, v[features.Connectivity4])
	// Zero row spread over nonzero column spread.
	assert.Equal(t, 0.0, v[features.Eccentricity])
	assert.Equal(t, 6.0, v[features.BorderCount])
	assert.Equal(t, 2.0, v[features.CornerCount])
}

func TestExtract_ScatteredDraw(t *testing.T) {
	// Positions (0,0), (4,0), (0,2), (4,2), (0,4), (4,4): pairwise
	// Chebyshev distance >= 2, so no adjacency under either definition.
	v := extractNumbers(t, []int{1, 5, 21, 25, 41, 45})

	assert.Equal(t, 0.0, v[features.Adjacencies4])
	assert.Equal(t, 0.0, v[features.Adjacencies8])
	assert.Equal(t, 6.0, v[features.Connectivity4])
	assert.Equal(t, 6.0, v[features.Connectivity8])
}

func TestExtract_DiagonalMergesOnlyUnder8(t *testing.T) {
	// Positions (0,0) and (1,1) touch diagonally: distinct 4-components,
	// one 8-component.
	v := extractNumbers(t, []int{1, 12, 25, 45, 58, 40})

	assert.Equal(t, 0.0, v[features.Adjacencies4])
	assert.GreaterOrEqual(t, v[features.Adjacencies8], 1.0)
	assert.Greater(t, v[features.Connectivity4], v[features.Connectivity8])
}

func TestExtract_QuadrantAndRingCounts(t *testing.T) {
	// The four card corners plus the two cells nearest the center.
	v := extractNumbers(t, []int{1, 10, 51, 60, 25, 35})

	// 25 -> (4,2) lands upper-left, 35 -> (4,3) upper-right.
	assert.Equal(t, 2.0, v[features.Q1])
	assert.Equal(t, 2.0, v[features.Q2])
	assert.Equal(t, 1.0, v[features.Q3])
	assert.Equal(t, 1.0, v[features.Q4])

	// 25 -> (4,2) and 35 -> (4,3) sit inside ring1; the corners in ring3.
	assert.Equal(t, 2.0, v[features.Ring1])
	assert.Equal(t, 0.0, v[features.Ring2])
	assert.Equal(t, 4.0, v[features.Ring3])

	assert.Equal(t, 4.0, v[features.CornerCount])
}

func TestExtract_RejectsMalformedDraw(t *testing.T) {
	shape := grid.MegaSena()
	e := New(shape)

	// Bypass the constructor to hit the extractor's defensive check.
	bad := draw.Draw{Contest: 9, Numbers: []int{1, 2, 3, 4, 5, 5}}
	_, err := e.Extract(bad)
	require.Error(t, err)
	assert.Equal(t, core.CodeDomainError, core.GetCode(err))
}

func TestExtract_Invariants(t *testing.T) {
	shape := grid.MegaSena()
	e := New(shape)
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 2000; trial++ {
		numbers := rng.Perm(60)[:6]
		for i := range numbers {
			numbers[i]++
		}
		d, err := draw.New(shape, trial, numbers)
		require.NoError(t, err)
		v, err := e.Extract(d)
		require.NoError(t, err)

		quadSum := v[features.Q1] + v[features.Q2] + v[features.Q3] + v[features.Q4]
		assert.Equal(t, 6.0, quadSum, "quadrants must sum to the draw size")

		ringSum := v[features.Ring1] + v[features.Ring2] + v[features.Ring3]
		assert.Equal(t, 6.0, ringSum, "rings must sum to the draw size")

		// Denser adjacency can only merge components.
		assert.GreaterOrEqual(t, v[features.Connectivity4], v[features.Connectivity8])
		assert.GreaterOrEqual(t, v[features.Connectivity8], 1.0)
		assert.LessOrEqual(t, v[features.Connectivity4], 6.0)

		// A4 counts pairs, not tree edges: a 3x2 block of 6 cells has 7.
		assert.GreaterOrEqual(t, v[features.Adjacencies4], 0.0)
		assert.LessOrEqual(t, v[features.Adjacencies4], 7.0)
		assert.GreaterOrEqual(t, v[features.Adjacencies8], v[features.Adjacencies4])
		assert.LessOrEqual(t, v[features.Adjacencies8], 15.0)

		assert.GreaterOrEqual(t, v[features.Dispersion], 1.0)
		assert.LessOrEqual(t, v[features.Dispersion], 14.0)

		assert.GreaterOrEqual(t, v[features.BorderCount], v[features.CornerCount])
	}
}

func TestTable_SchemaAndOrder(t *testing.T) {
	shape := grid.MegaSena()
	e := New(shape)

	draws := make([]draw.Draw, 0, 3)
	for i, numbers := range [][]int{
		{1, 2, 3, 4, 5, 6},
		{1, 11, 21, 31, 41, 51},
		{7, 14, 23, 38, 49, 56},
	} {
		d, err := draw.New(shape, 100+i, numbers)
		require.NoError(t, err)
		draws = append(draws, d)
	}

	table, err := e.Table(draws)
	require.NoError(t, err)

	assert.Equal(t, features.Names(), table.FeatureNames)
	assert.Equal(t, []int{100, 101, 102}, table.RowIDs)
	assert.Equal(t, 3, table.Len())

	col, err := table.ColumnByName("dispersion")
	require.NoError(t, err)
	assert.Len(t, col, 3)

	_, err = table.ColumnByName("no_such_feature")
	require.Error(t, err)
	assert.Equal(t, core.CodeSchemaMismatch, core.GetCode(err))
}
