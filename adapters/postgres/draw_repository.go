package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/grid"
	"lotogrid/ports"
)

// drawRepository implements the DrawRepository interface
type drawRepository struct {
	db *sqlx.DB
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *sqlx.DB) ports.DrawRepository {
	return &drawRepository{db: db}
}

// SaveAll upserts the full history in one transaction. Re-ingesting the
// same export is a no-op apart from date corrections.
func (r *drawRepository) SaveAll(ctx context.Context, shape grid.Shape, draws []draw.Draw) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `INSERT INTO draws (shape_slug, contest, draw_date, numbers)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (shape_slug, contest)
		DO UPDATE SET draw_date = EXCLUDED.draw_date, numbers = EXCLUDED.numbers`

	for _, d := range draws {
		var date sql.NullTime
		if !d.Date.IsZero() {
			date = sql.NullTime{Time: d.Date, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query, shape.Slug, d.Contest, date, pq.Array(d.Numbers)); err != nil {
			return core.WrapCode(err, core.CodeDatabaseError, "failed to upsert draw")
		}
	}

	if err := tx.Commit(); err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to commit draw history")
	}
	return nil
}

// History returns the stored draws in contest order. Every row is
// re-validated against the shape on the way out, so a history written for
// one shape can never be fed to another's extractor.
func (r *drawRepository) History(ctx context.Context, shape grid.Shape) ([]draw.Draw, error) {
	query := `SELECT contest, draw_date, numbers FROM draws
		WHERE shape_slug = $1 ORDER BY contest ASC`

	rows, err := r.db.QueryContext(ctx, query, shape.Slug)
	if err != nil {
		return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to query draw history")
	}
	defer rows.Close()

	var draws []draw.Draw
	for rows.Next() {
		var contest int
		var date sql.NullTime
		var numbers pq.Int64Array
		if err := rows.Scan(&contest, &date, &numbers); err != nil {
			return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to scan draw")
		}

		ints := make([]int, len(numbers))
		for i, n := range numbers {
			ints[i] = int(n)
		}
		d, err := draw.New(shape, contest, ints)
		if err != nil {
			return nil, err
		}
		if date.Valid {
			d.Date = date.Time.UTC().Truncate(24 * time.Hour)
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to iterate draw history")
	}
	return draws, nil
}

// Count returns the number of stored draws for the shape.
func (r *drawRepository) Count(ctx context.Context, shape grid.Shape) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM draws WHERE shape_slug = $1`, shape.Slug)
	if err != nil {
		return 0, core.WrapCode(err, core.CodeDatabaseError, "failed to count draws")
	}
	return count, nil
}
