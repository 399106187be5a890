package ports

import (
	"context"

	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

// DrawRepository persists the ingested draw history per card shape.
type DrawRepository interface {
	// SaveAll upserts the full history in one transaction.
	SaveAll(ctx context.Context, shape grid.Shape, draws []draw.Draw) error
	// History returns the stored draws in contest order.
	History(ctx context.Context, shape grid.Shape) ([]draw.Draw, error)
	// Count returns the number of stored draws for the shape.
	Count(ctx context.Context, shape grid.Shape) (int, error)
}

// RunRepository persists completed validation runs and their reports.
type RunRepository interface {
	SaveRun(ctx context.Context, run *features.RunRecord) error
	GetRun(ctx context.Context, id core.RunID) (*features.RunRecord, error)
	// ListRuns returns run records newest first, reports omitted.
	ListRuns(ctx context.Context, shapeSlug string, limit int) ([]*features.RunRecord, error)
}

// DrawSource reads a draw history from an external file or feed.
type DrawSource interface {
	ReadDraws() ([]draw.Draw, error)
}
