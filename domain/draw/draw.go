package draw

import (
	"sort"
	"time"

	"lotogrid/domain/core"
	"lotogrid/domain/grid"
)

// Draw is one historical lottery result: a contest identifier and a set of
// distinct played numbers. Draws are created at the ingestion boundary and
// never mutated afterwards.
type Draw struct {
	Contest int       `json:"contest"`
	Date    time.Time `json:"date,omitzero"`
	Numbers []int     `json:"numbers"`
}

// New validates numbers against the shape and returns an immutable Draw.
// The stored numbers are a sorted copy of the input.
func New(shape grid.Shape, contest int, numbers []int) (Draw, error) {
	sorted := make([]int, len(numbers))
	copy(sorted, numbers)
	sort.Ints(sorted)

	d := Draw{Contest: contest, Numbers: sorted}
	if err := d.Validate(shape); err != nil {
		return Draw{}, err
	}
	return d, nil
}

// Validate checks the Draw invariants: exactly DrawSize values, all in
// [MinNumber, MaxNumber], no duplicates. Violations are domain errors and
// abort the computation that received the draw.
func (d Draw) Validate(shape grid.Shape) error {
	if len(d.Numbers) != shape.DrawSize {
		return core.DomainErrorf("contest %d: draw must have %d numbers, got %d",
			d.Contest, shape.DrawSize, len(d.Numbers))
	}
	seen := make(map[int]bool, len(d.Numbers))
	for _, n := range d.Numbers {
		if n < shape.MinNumber || n > shape.MaxNumber {
			return core.DomainErrorf("contest %d: number %d outside [%d, %d]",
				d.Contest, n, shape.MinNumber, shape.MaxNumber)
		}
		if seen[n] {
			return core.DomainErrorf("contest %d: duplicate number %d", d.Contest, n)
		}
		seen[n] = true
	}
	return nil
}

// Positions maps the draw's numbers onto card cells. The draw must already
// be valid for the shape; an invalid number surfaces as a domain error.
func (d Draw) Positions(shape grid.Shape) ([]grid.Position, error) {
	positions := make([]grid.Position, len(d.Numbers))
	for i, n := range d.Numbers {
		pos, err := shape.ToPosition(n)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}
	return positions, nil
}
