package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"catalog-trends/utils"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
	CREATE TABLE IF NOT EXISTS trend_runs (
		run_id         TEXT PRIMARY KEY,
		source         TEXT,
		generated_at   TIMESTAMP NOT NULL,
		products       INTEGER NOT NULL,
		nodes          INTEGER NOT NULL,
		edges          INTEGER NOT NULL,
		avg_out_degree REAL NOT NULL,
		load_seconds   REAL NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS trend_results (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL REFERENCES trend_runs (run_id) ON DELETE CASCADE,
		section    TEXT NOT NULL,
		position   INTEGER NOT NULL,
		cluster    INTEGER NOT NULL DEFAULT 0,
		asin       TEXT,
		title      TEXT,
		category   TEXT,
		sales_rank INTEGER,
		metric     REAL NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_results_run     ON trend_results (run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_results_section ON trend_results (section)`,
	},
	insertRun: `
		INSERT OR IGNORE INTO trend_runs (run_id, source, generated_at, products, nodes, edges, avg_out_degree, load_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	insertResult: `
		INSERT INTO trend_results (run_id, section, position, cluster, asin, title, category, sales_rank, metric)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
}

// SQLiteWriter stores analysis reports in a local SQLite file
type SQLiteWriter struct {
	*sqlWriter
}

// NewSQLiteWriter opens (or creates) the database at path
func NewSQLiteWriter(path string, logger *utils.Logger) (*SQLiteWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps writes serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Info("Opened SQLite database: %s", path)
	return &SQLiteWriter{&sqlWriter{db: db, logger: logger, dialect: sqliteDialect}}, nil
}
