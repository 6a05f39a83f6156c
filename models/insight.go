package models

import "time"

// RankedProduct is a product with its out-degree in the relationship graph
type RankedProduct struct {
	Product     Product
	Connections int
}

// Cluster is a strongly connected group of registered products, sorted by ID
type Cluster struct {
	Products []Product
}

func (c Cluster) Size() int {
	return len(c.Products)
}

// Opportunity pairs a candidate product with its opportunity score
// (sales rank divided by connections, lower is better)
type Opportunity struct {
	Product     Product
	Connections int
	Score       float64
}

// Summary holds dataset-wide graph statistics
type Summary struct {
	Products     int
	Nodes        int
	Edges        int
	AvgOutDegree float64
}

// ClusterSample is a truncated view of a cluster for reporting
type ClusterSample struct {
	Size   int
	Sample []Product
}

// InsightReport holds everything computed for one run
type InsightReport struct {
	RunID          string
	Source         string
	GeneratedAt    time.Time
	Load           LoadStats
	Summary        Summary
	TopConnected   []RankedProduct
	ClusterMinSize int
	TotalClusters  int
	Clusters       []ClusterSample
	Opportunities  []Opportunity
}
