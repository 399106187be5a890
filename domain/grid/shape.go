package grid

import (
	"lotogrid/domain/core"
)

// Shape is the configuration record for a lottery card layout. It replaces
// per-lottery subclassing: every component that needs card geometry takes a
// Shape value and stays polymorphic over lottery variants.
type Shape struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	DrawSize  int    `json:"draw_size"`
	MinNumber int    `json:"min_number"`
	MaxNumber int    `json:"max_number"`
}

// MegaSena is the default shape: 6 numbers from 1-60 on a 10x6 card,
// numbers running down the columns (1-10 in column 0, 11-20 in column 1, ...).
func MegaSena() Shape {
	return Shape{
		Slug:      "megasena",
		Name:      "Mega-Sena",
		Rows:      10,
		Cols:      6,
		DrawSize:  6,
		MinNumber: 1,
		MaxNumber: 60,
	}
}

// Lotofacil is 15 numbers from 1-25 on a 5x5 card.
func Lotofacil() Shape {
	return Shape{
		Slug:      "lotofacil",
		Name:      "Lotofácil",
		Rows:      5,
		Cols:      5,
		DrawSize:  15,
		MinNumber: 1,
		MaxNumber: 25,
	}
}

// Shapes returns the built-in lottery shapes.
func Shapes() []Shape {
	return []Shape{MegaSena(), Lotofacil()}
}

// ShapeBySlug looks up a built-in shape by its slug.
func ShapeBySlug(slug string) (Shape, error) {
	for _, s := range Shapes() {
		if s.Slug == slug {
			return s, nil
		}
	}
	return Shape{}, core.NotFound("lottery shape " + slug)
}

// TotalNumbers returns the count of playable numbers on the card.
func (s Shape) TotalNumbers() int {
	return s.MaxNumber - s.MinNumber + 1
}

// Validate checks the shape's internal consistency.
func (s Shape) Validate() error {
	if s.Rows < 2 || s.Cols < 2 {
		return core.ConfigInvalid("grid must be at least 2x2")
	}
	if s.TotalNumbers() != s.Rows*s.Cols {
		return core.ConfigInvalid("number range must cover the grid exactly")
	}
	if s.DrawSize < 2 || s.DrawSize > s.TotalNumbers() {
		return core.ConfigInvalid("draw size must be in [2, total numbers]")
	}
	return nil
}

// CenterRow is the geometric row center of the card (4.5 for Mega-Sena).
func (s Shape) CenterRow() float64 {
	return float64(s.Rows-1) / 2
}

// CenterCol is the geometric column center of the card (2.5 for Mega-Sena).
func (s Shape) CenterCol() float64 {
	return float64(s.Cols-1) / 2
}
