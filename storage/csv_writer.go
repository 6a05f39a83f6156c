package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"catalog-trends/models"
	"catalog-trends/utils"
)

// CSVWriter writes report rows to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// SaveReport overwrites the CSV file with the report's rows
func (w *CSVWriter) SaveReport(report *models.InsightReport) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"run_id", "section", "position", "cluster",
		"asin", "title", "category", "sales_rank", "metric",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	rows := reportRows(report)
	for _, r := range rows {
		rank := ""
		if r.SalesRank.Valid {
			rank = strconv.Itoa(r.SalesRank.Rank)
		}
		record := []string{
			report.RunID,
			r.Section,
			strconv.Itoa(r.Position),
			strconv.Itoa(r.Cluster),
			r.ProductID,
			r.Title,
			r.Category,
			rank,
			strconv.FormatFloat(r.Metric, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", r.ProductID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Report written to: %s (%d rows)", w.filePath, len(rows))
	return nil
}

func (w *CSVWriter) Close() error {
	return nil
}
