package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotogrid/domain/core"
)

func TestToPosition_KnownCells(t *testing.T) {
	s := MegaSena()

	cases := []struct {
		number int
		row    int
		col    int
	}{
		{1, 0, 0},
		{10, 9, 0},
		{11, 0, 1},
		{25, 4, 2},
		{51, 0, 5},
		{60, 9, 5},
	}

	for _, tc := range cases {
		pos, err := s.ToPosition(tc.number)
		require.NoError(t, err, "number %d", tc.number)
		assert.Equal(t, Position{Row: tc.row, Col: tc.col}, pos, "number %d", tc.number)
	}
}

func TestToPosition_RoundTrip(t *testing.T) {
	for _, s := range Shapes() {
		for n := s.MinNumber; n <= s.MaxNumber; n++ {
			pos, err := s.ToPosition(n)
			require.NoError(t, err)

			back, err := s.ToNumber(pos.Row, pos.Col)
			require.NoError(t, err)
			assert.Equal(t, n, back, "%s round-trip for %d", s.Slug, n)
		}
	}
}

func TestToPosition_OutOfRange(t *testing.T) {
	s := MegaSena()

	for _, n := range []int{0, -3, 61, 1000} {
		_, err := s.ToPosition(n)
		require.Error(t, err, "number %d", n)
		assert.Equal(t, core.CodeDomainError, core.GetCode(err))
	}
}

func TestToNumber_OutOfRange(t *testing.T) {
	s := MegaSena()

	cases := [][2]int{{-1, 0}, {10, 0}, {0, -1}, {0, 6}}
	for _, rc := range cases {
		_, err := s.ToNumber(rc[0], rc[1])
		require.Error(t, err, "cell (%d,%d)", rc[0], rc[1])
		assert.Equal(t, core.CodeDomainError, core.GetCode(err))
	}
}

func TestNeighbors4_CountsByLocation(t *testing.T) {
	s := MegaSena()

	// Corner has 2, border edge has 3, interior has 4.
	assert.Len(t, s.Neighbors4(0, 0), 2)
	assert.Len(t, s.Neighbors4(0, 3), 3)
	assert.Len(t, s.Neighbors4(4, 0), 3)
	assert.Len(t, s.Neighbors4(4, 3), 4)
}

func TestNeighbors8_CountsByLocation(t *testing.T) {
	s := MegaSena()

	assert.Len(t, s.Neighbors8(0, 0), 3)
	assert.Len(t, s.Neighbors8(0, 3), 5)
	assert.Len(t, s.Neighbors8(9, 5), 3)
	assert.Len(t, s.Neighbors8(4, 3), 8)
}

func TestNeighbors8_SupersetOfNeighbors4(t *testing.T) {
	s := MegaSena()

	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			n8 := make(map[Position]bool)
			for _, p := range s.Neighbors8(row, col) {
				n8[p] = true
			}
			for _, p := range s.Neighbors4(row, col) {
				assert.True(t, n8[p], "4-neighbor %v of (%d,%d) missing from 8-neighbors", p, row, col)
			}
		}
	}
}

func TestBorderAndCorner(t *testing.T) {
	s := MegaSena()

	assert.True(t, s.IsCorner(0, 0))
	assert.True(t, s.IsCorner(9, 5))
	assert.False(t, s.IsCorner(0, 3))
	assert.False(t, s.IsCorner(4, 2))

	assert.True(t, s.IsBorder(0, 3))
	assert.True(t, s.IsBorder(4, 0))
	assert.False(t, s.IsBorder(4, 2))

	// Every corner is a border cell.
	corners := 0
	borders := 0
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			if s.IsCorner(row, col) {
				corners++
				assert.True(t, s.IsBorder(row, col))
			}
			if s.IsBorder(row, col) {
				borders++
			}
		}
	}
	assert.Equal(t, 4, corners)
	assert.Equal(t, 28, borders)
}

func TestQuadrant_SplitsCardEvenly(t *testing.T) {
	s := MegaSena()

	counts := [4]int{}
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			q := s.Quadrant(row, col)
			require.GreaterOrEqual(t, q, 0)
			require.LessOrEqual(t, q, 3)
			counts[q]++
		}
	}
	// 10x6 splits into four 5x3 blocks.
	for q, c := range counts {
		assert.Equal(t, 15, c, "quadrant %d", q)
	}

	assert.Equal(t, 0, s.Quadrant(0, 0))
	assert.Equal(t, 1, s.Quadrant(4, 3))
	assert.Equal(t, 2, s.Quadrant(5, 2))
	assert.Equal(t, 3, s.Quadrant(9, 5))
}

func TestShapeValidate(t *testing.T) {
	for _, s := range Shapes() {
		assert.NoError(t, s.Validate(), s.Slug)
	}

	bad := MegaSena()
	bad.MaxNumber = 59
	err := bad.Validate()
	require.Error(t, err)
	assert.Equal(t, core.CodeConfigInvalid, core.GetCode(err))
}
