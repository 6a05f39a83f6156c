package storage

import "catalog-trends/models"

// Report sections as stored by every sink
const (
	SectionSummary       = "summary"
	SectionTopConnected  = "top_connected"
	SectionTrendCluster  = "trend_cluster"
	SectionOpportunities = "opportunity"
)

// resultRow is one flattened line of a report. Metric holds the section's
// number: the statistic for summary rows, connections for top_connected,
// cluster size for trend_cluster and the score for opportunity.
type resultRow struct {
	Section   string
	Position  int
	Cluster   int
	ProductID string
	Title     string
	Category  string
	SalesRank models.SalesRank
	Metric    float64
}

func reportRows(report *models.InsightReport) []resultRow {
	s := report.Summary
	rows := []resultRow{
		{Section: SectionSummary, Position: 1, Title: "products", Metric: float64(s.Products)},
		{Section: SectionSummary, Position: 2, Title: "nodes", Metric: float64(s.Nodes)},
		{Section: SectionSummary, Position: 3, Title: "edges", Metric: float64(s.Edges)},
		{Section: SectionSummary, Position: 4, Title: "avg_out_degree", Metric: s.AvgOutDegree},
	}

	for i, rp := range report.TopConnected {
		rows = append(rows, productRow(SectionTopConnected, i+1, 0, rp.Product, float64(rp.Connections)))
	}
	for c, cluster := range report.Clusters {
		for i, p := range cluster.Sample {
			rows = append(rows, productRow(SectionTrendCluster, i+1, c+1, p, float64(cluster.Size)))
		}
	}
	for i, o := range report.Opportunities {
		rows = append(rows, productRow(SectionOpportunities, i+1, 0, o.Product, o.Score))
	}
	return rows
}

func productRow(section string, position, cluster int, p models.Product, metric float64) resultRow {
	return resultRow{
		Section:   section,
		Position:  position,
		Cluster:   cluster,
		ProductID: p.ID,
		Title:     p.Title,
		Category:  p.Category,
		SalesRank: p.SalesRank,
		Metric:    metric,
	}
}

// rankValue maps an unknown rank to NULL
func rankValue(r models.SalesRank) any {
	if !r.Valid {
		return nil
	}
	return int64(r.Rank)
}
