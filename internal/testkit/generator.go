// Package testkit generates synthetic draw histories for tests and local
// development. Uniform histories exercise the null path; biased histories
// exercise detection.
package testkit

import (
	"math/rand"
	"time"

	"lotogrid/domain/draw"
	"lotogrid/domain/grid"
)

// GeneratorConfig configures the draw history generator
type GeneratorConfig struct {
	DrawCount int       `json:"draw_count"`
	StartDate time.Time `json:"start_date"`
	Seed      int64     `json:"seed"`

	// ColumnWeights biases number selection by grid column. Empty means
	// uniform. A weight of 0 removes the column from play entirely.
	ColumnWeights []float64 `json:"column_weights,omitempty"`
}

// DefaultConfig returns a uniform 1000-draw history config.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		DrawCount: 1000,
		StartDate: time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}
}

// Generator produces synthetic draw histories for one card shape.
type Generator struct {
	shape   grid.Shape
	config  GeneratorConfig
	rng     *rand.Rand
	weights []float64 // per playable number, cumulative
}

// NewGenerator creates a seeded draw history generator.
func NewGenerator(shape grid.Shape, config GeneratorConfig) *Generator {
	g := &Generator{
		shape:  shape,
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	if len(config.ColumnWeights) > 0 {
		g.weights = make([]float64, shape.TotalNumbers())
		total := 0.0
		for n := shape.MinNumber; n <= shape.MaxNumber; n++ {
			pos, _ := shape.ToPosition(n)
			w := 1.0
			if pos.Col < len(config.ColumnWeights) {
				w = config.ColumnWeights[pos.Col]
			}
			total += w
			g.weights[n-shape.MinNumber] = total
		}
	}
	return g
}

// Generate produces the full history. Draws are numbered from contest 1 with
// twice-weekly dates.
func (g *Generator) Generate() ([]draw.Draw, error) {
	draws := make([]draw.Draw, 0, g.config.DrawCount)
	numbers := make([]int, 0, g.shape.DrawSize)
	picked := make(map[int]bool, g.shape.DrawSize)

	for i := 0; i < g.config.DrawCount; i++ {
		numbers = numbers[:0]
		for k := range picked {
			delete(picked, k)
		}
		for len(numbers) < g.shape.DrawSize {
			n := g.pick()
			if picked[n] {
				continue
			}
			picked[n] = true
			numbers = append(numbers, n)
		}

		d, err := draw.New(g.shape, i+1, numbers)
		if err != nil {
			return nil, err
		}
		d.Date = g.config.StartDate.AddDate(0, 0, (i/2)*7+(i%2)*3)
		draws = append(draws, d)
	}
	return draws, nil
}

// pick samples one playable number, weighted when column bias is configured.
func (g *Generator) pick() int {
	if g.weights == nil {
		return g.shape.MinNumber + g.rng.Intn(g.shape.TotalNumbers())
	}
	total := g.weights[len(g.weights)-1]
	target := g.rng.Float64() * total
	for i, cum := range g.weights {
		if target < cum {
			return g.shape.MinNumber + i
		}
	}
	return g.shape.MaxNumber
}
