package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotogrid/domain/grid"
)

func TestGenerate_UniformHistory(t *testing.T) {
	shape := grid.MegaSena()
	gen := NewGenerator(shape, DefaultConfig())
	draws, err := gen.Generate()
	require.NoError(t, err)
	require.Len(t, draws, 1000)

	for _, d := range draws {
		require.NoError(t, d.Validate(shape))
	}
	assert.Equal(t, 1, draws[0].Contest)
	assert.Equal(t, 1000, draws[999].Contest)
	assert.True(t, draws[0].Date.Before(draws[999].Date))

	// Every column should be hit roughly equally over 6000 numbers.
	colCounts := make([]int, shape.Cols)
	for _, d := range draws {
		positions, err := d.Positions(shape)
		require.NoError(t, err)
		for _, pos := range positions {
			colCounts[pos.Col]++
		}
	}
	for col, count := range colCounts {
		assert.InDelta(t, 1000, count, 150, "column %d", col)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	shape := grid.MegaSena()
	a, err := NewGenerator(shape, DefaultConfig()).Generate()
	require.NoError(t, err)
	b, err := NewGenerator(shape, DefaultConfig()).Generate()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg := DefaultConfig()
	cfg.Seed = 7
	c, err := NewGenerator(shape, cfg).Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerate_ColumnBias(t *testing.T) {
	shape := grid.MegaSena()
	cfg := DefaultConfig()
	cfg.DrawCount = 500
	// Everything in the first two columns.
	cfg.ColumnWeights = []float64{1, 1, 0, 0, 0, 0}

	draws, err := NewGenerator(shape, cfg).Generate()
	require.NoError(t, err)

	for _, d := range draws {
		positions, err := d.Positions(shape)
		require.NoError(t, err)
		for _, pos := range positions {
			assert.LessOrEqual(t, pos.Col, 1)
		}
	}
}
