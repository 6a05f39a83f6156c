package services

import (
	"time"

	"catalog-trends/models"
	"catalog-trends/utils"

	"github.com/google/uuid"
)

// InsightLimits bounds how much of each query ends up in a report
type InsightLimits struct {
	TopProducts           int
	ClusterMinSize        int
	ClusterSamples        int
	ClusterSampleProducts int
	Opportunities         int
}

// InsightService runs every analyzer query and assembles an InsightReport
type InsightService struct {
	logger  *utils.Logger
	metrics *utils.Metrics
	limits  InsightLimits
}

// NewInsightService creates a new InsightService. metrics may be nil.
func NewInsightService(logger *utils.Logger, metrics *utils.Metrics, limits InsightLimits) *InsightService {
	return &InsightService{logger: logger, metrics: metrics, limits: limits}
}

// Generate computes all insights for the dataset behind analyzer
func (s *InsightService) Generate(analyzer *Analyzer, load models.LoadStats) *models.InsightReport {
	report := &models.InsightReport{
		RunID:          uuid.NewString(),
		Source:         load.Source,
		GeneratedAt:    time.Now().UTC(),
		Load:           load,
		ClusterMinSize: s.limits.ClusterMinSize,
	}

	report.Summary = analyzer.SummaryStatistics()

	s.logger.Info("Identifying top products...")
	start := time.Now()
	report.TopConnected = analyzer.RankByConnections(s.limits.TopProducts)
	s.observe("rank_by_connections", start, len(report.TopConnected))

	s.logger.Info("Detecting trend clusters (min size %d)...", s.limits.ClusterMinSize)
	start = time.Now()
	clusters := analyzer.DetectTrendClusters(s.limits.ClusterMinSize)
	s.observe("trend_clusters", start, len(clusters))
	report.TotalClusters = len(clusters)
	report.Clusters = sampleClusters(clusters, s.limits.ClusterSamples, s.limits.ClusterSampleProducts)

	s.logger.Info("Analyzing competition...")
	start = time.Now()
	report.Opportunities = analyzer.FindLowCompetitionProducts(s.limits.Opportunities)
	s.observe("low_competition", start, len(report.Opportunities))

	if len(report.TopConnected) == 0 {
		s.logger.Warn("No products with connections found")
	}
	return report
}

func (s *InsightService) observe(query string, start time.Time, results int) {
	took := time.Since(start)
	s.logger.Debug("Query %s returned %d results in %v", query, results, took)
	if s.metrics != nil {
		s.metrics.ObserveQuery(query, took, results)
	}
}

// sampleClusters keeps the first n clusters with up to perCluster products each
func sampleClusters(clusters []models.Cluster, n, perCluster int) []models.ClusterSample {
	n = max(min(n, len(clusters)), 0)
	samples := make([]models.ClusterSample, 0, n)
	for _, c := range clusters[:n] {
		k := max(min(perCluster, c.Size()), 0)
		samples = append(samples, models.ClusterSample{
			Size:   c.Size(),
			Sample: c.Products[:k],
		})
	}
	return samples
}
