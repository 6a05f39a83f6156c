package storage

import (
	"database/sql"
	"fmt"
	"time"

	"catalog-trends/utils"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{`
	CREATE TABLE IF NOT EXISTS trend_runs (
		run_id         UUID PRIMARY KEY,
		source         TEXT,
		generated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		products       INTEGER NOT NULL,
		nodes          INTEGER NOT NULL,
		edges          INTEGER NOT NULL,
		avg_out_degree DOUBLE PRECISION NOT NULL,
		load_seconds   DOUBLE PRECISION NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS trend_results (
		id         SERIAL PRIMARY KEY,
		run_id     UUID NOT NULL REFERENCES trend_runs (run_id) ON DELETE CASCADE,
		section    VARCHAR(32) NOT NULL,
		position   INTEGER NOT NULL,
		cluster    INTEGER NOT NULL DEFAULT 0,
		asin       TEXT,
		title      TEXT,
		category   TEXT,
		sales_rank INTEGER,
		metric     DOUBLE PRECISION NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_results_run     ON trend_results (run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_results_section ON trend_results (section)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_results_asin    ON trend_results (asin)`,
	},
	insertRun: `
		INSERT INTO trend_runs (run_id, source, generated_at, products, nodes, edges, avg_out_degree, load_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO NOTHING`,
	insertResult: `
		INSERT INTO trend_results (run_id, section, position, cluster, asin, title, category, sales_rank, metric)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

// PostgresWriter stores analysis reports in PostgreSQL
type PostgresWriter struct {
	*sqlWriter
}

// NewPostgresWriter opens the pool and pings the DB, retrying with backoff
func NewPostgresWriter(connStr string, maxRetries int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := utils.RetryWithBackoff(maxRetries, time.Second, db.Ping, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{&sqlWriter{db: db, logger: logger, dialect: postgresDialect}}, nil
}
