package storage

import (
	"database/sql"
	"fmt"

	"catalog-trends/models"
	"catalog-trends/utils"
)

// dialect holds the statements that differ between database engines
type dialect struct {
	name         string
	schema       []string
	insertRun    string
	insertResult string
}

// sqlWriter stores reports in two tables: trend_runs (one row per run) and
// trend_results (one row per reported item)
type sqlWriter struct {
	db      *sql.DB
	logger  *utils.Logger
	dialect dialect
}

// CreateTable creates the report tables if they don't exist
func (w *sqlWriter) CreateTable() error {
	for _, stmt := range w.dialect.schema {
		if _, err := w.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create %s tables: %w", w.dialect.name, err)
		}
	}
	w.logger.Info("Tables 'trend_runs' and 'trend_results' are ready (%s)", w.dialect.name)
	return nil
}

// SaveReport inserts the run and all of its rows in a single transaction
func (w *sqlWriter) SaveReport(report *models.InsightReport) (err error) {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	s := report.Summary
	_, err = tx.Exec(w.dialect.insertRun,
		report.RunID,
		report.Source,
		report.GeneratedAt,
		s.Products,
		s.Nodes,
		s.Edges,
		s.AvgOutDegree,
		report.Load.Duration.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(w.dialect.insertResult)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	rows := reportRows(report)
	for _, r := range rows {
		_, err = stmt.Exec(
			report.RunID,
			r.Section,
			r.Position,
			r.Cluster,
			r.ProductID,
			r.Title,
			r.Category,
			rankValue(r.SalesRank),
			r.Metric,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", r.Section, r.Position, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Stored run %s with %d rows in %s", report.RunID, len(rows), w.dialect.name)
	return nil
}

// Close closes the database connection
func (w *sqlWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}
