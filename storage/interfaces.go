package storage

import "catalog-trends/models"

// ReportStorage persists the results of an analysis run
type ReportStorage interface {
	SaveReport(report *models.InsightReport) error
	Close() error
}
