package grid

import (
	"lotogrid/domain/core"
)

// Position is a cell on the card: row in [0, Rows), col in [0, Cols).
// Derived from a number, never stored independently.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ToPosition maps a played number to its card cell. Numbers run down the
// columns: for Mega-Sena, 1 -> (0,0), 10 -> (9,0), 11 -> (0,1), 60 -> (9,5).
func (s Shape) ToPosition(n int) (Position, error) {
	if n < s.MinNumber || n > s.MaxNumber {
		return Position{}, core.DomainErrorf("number must be in [%d, %d], got %d", s.MinNumber, s.MaxNumber, n)
	}
	idx := n - s.MinNumber
	return Position{Row: idx % s.Rows, Col: idx / s.Rows}, nil
}

// ToNumber is the inverse of ToPosition.
func (s Shape) ToNumber(row, col int) (int, error) {
	if row < 0 || row >= s.Rows {
		return 0, core.DomainErrorf("row must be in [0, %d], got %d", s.Rows-1, row)
	}
	if col < 0 || col >= s.Cols {
		return 0, core.DomainErrorf("col must be in [0, %d], got %d", s.Cols-1, col)
	}
	return col*s.Rows + row + s.MinNumber, nil
}

// Contains reports whether (row, col) is a valid cell.
func (s Shape) Contains(row, col int) bool {
	return row >= 0 && row < s.Rows && col >= 0 && col < s.Cols
}

// Neighbors4 returns the von Neumann neighbors (up/down/left/right)
// clipped to the card: 2 results in a corner, up to 4 in the interior.
func (s Shape) Neighbors4(row, col int) []Position {
	deltas := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	neighbors := make([]Position, 0, 4)
	for _, d := range deltas {
		r, c := row+d[0], col+d[1]
		if s.Contains(r, c) {
			neighbors = append(neighbors, Position{Row: r, Col: c})
		}
	}
	return neighbors
}

// Neighbors8 returns the Moore neighbors (4-neighbors plus diagonals)
// clipped to the card: 3 results in a corner, up to 8 in the interior.
func (s Shape) Neighbors8(row, col int) []Position {
	neighbors := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if s.Contains(r, c) {
				neighbors = append(neighbors, Position{Row: r, Col: c})
			}
		}
	}
	return neighbors
}

// IsBorder reports whether the cell touches the card edge.
func (s Shape) IsBorder(row, col int) bool {
	return row == 0 || row == s.Rows-1 || col == 0 || col == s.Cols-1
}

// IsCorner reports whether the cell is one of the four card corners.
func (s Shape) IsCorner(row, col int) bool {
	return (row == 0 || row == s.Rows-1) && (col == 0 || col == s.Cols-1)
}

// Quadrant classifies a cell into one of four card quadrants:
// 0 = upper-left, 1 = upper-right, 2 = lower-left, 3 = lower-right.
// The split is at the geometric center, so for Mega-Sena rows 0-4 are
// "upper" and cols 0-2 are "left".
func (s Shape) Quadrant(row, col int) int {
	q := 0
	if float64(row) > s.CenterRow() {
		q += 2
	}
	if float64(col) > s.CenterCol() {
		q++
	}
	return q
}
