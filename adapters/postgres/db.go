package postgres

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"lotogrid/domain/core"
)

// Connect opens and pings a PostgreSQL connection pool.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, core.WrapCode(err, core.CodeDatabaseError, "failed to connect to postgres")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	log.Printf("[Postgres] connected")
	return db, nil
}

// schema holds the two tables the engine persists: the draw history and
// the run manifests. Applied idempotently at startup.
const schema = `
CREATE TABLE IF NOT EXISTS draws (
	shape_slug  TEXT    NOT NULL,
	contest     INTEGER NOT NULL,
	draw_date   DATE,
	numbers     INTEGER[] NOT NULL,
	PRIMARY KEY (shape_slug, contest)
);

CREATE TABLE IF NOT EXISTS validation_runs (
	id          TEXT PRIMARY KEY,
	shape_slug  TEXT        NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	draw_count  INTEGER     NOT NULL,
	params      JSONB       NOT NULL,
	report      JSONB       NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_validation_runs_shape
	ON validation_runs (shape_slug, created_at DESC);
`

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return core.WrapCode(err, core.CodeDatabaseError, "failed to apply schema")
	}
	return nil
}
