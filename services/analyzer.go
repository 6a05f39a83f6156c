package services

import (
	"sort"

	"catalog-trends/models"
)

// DefaultMaxOpportunityRank is the worst sales rank still considered a
// low-competition candidate
const DefaultMaxOpportunityRank = 100000

// Analyzer answers read-only queries over a loaded Dataset. Queries never
// modify the dataset and can be called in any order, including concurrently.
type Analyzer struct {
	dataset *models.Dataset
	maxRank int
}

// AnalyzerOption customizes an Analyzer
type AnalyzerOption func(*Analyzer)

// WithMaxOpportunityRank overrides the upper sales rank bound used by
// FindLowCompetitionProducts
func WithMaxOpportunityRank(rank int) AnalyzerOption {
	return func(a *Analyzer) {
		if rank > 0 {
			a.maxRank = rank
		}
	}
}

// NewAnalyzer creates an Analyzer over ds
func NewAnalyzer(ds *models.Dataset, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{dataset: ds, maxRank: DefaultMaxOpportunityRank}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RankByConnections returns up to limit registered products ordered by
// out-degree, highest first, ties broken by ascending ID. Graph nodes with no
// product record are left out.
func (a *Analyzer) RankByConnections(limit int) []models.RankedProduct {
	if limit <= 0 {
		return nil
	}

	g := a.dataset.Graph()
	var ranked []models.RankedProduct
	for _, id := range g.Nodes() {
		p, ok := a.dataset.Product(id)
		if !ok {
			continue
		}
		ranked = append(ranked, models.RankedProduct{Product: p, Connections: g.OutDegree(id)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Connections != ranked[j].Connections {
			return ranked[i].Connections > ranked[j].Connections
		}
		return ranked[i].Product.ID < ranked[j].Product.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DetectTrendClusters groups products into strongly connected components of
// the relationship graph. Members without a product record are dropped before
// the size check, so every returned cluster has at least minSize products.
// Clusters are ordered by size, largest first, then by smallest member ID;
// members are sorted by ID.
func (a *Analyzer) DetectTrendClusters(minSize int) []models.Cluster {
	var clusters []models.Cluster
	for _, component := range a.dataset.Graph().StronglyConnected() {
		var members []models.Product
		for _, id := range component {
			if p, ok := a.dataset.Product(id); ok {
				members = append(members, p)
			}
		}
		if len(members) == 0 || len(members) < minSize {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			return members[i].ID < members[j].ID
		})
		clusters = append(clusters, models.Cluster{Products: members})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Size() != clusters[j].Size() {
			return clusters[i].Size() > clusters[j].Size()
		}
		return clusters[i].Products[0].ID < clusters[j].Products[0].ID
	})
	return clusters
}

// FindLowCompetitionProducts scores products whose sales rank is known and in
// (0, maxRank] as rank / max(out-degree, 1) and returns the topN lowest
// scores. A low score means a well-ranked product with many co-purchase
// links. Ties are broken by ascending ID.
func (a *Analyzer) FindLowCompetitionProducts(topN int) []models.Opportunity {
	if topN <= 0 {
		return nil
	}

	g := a.dataset.Graph()
	var candidates []models.Opportunity
	for _, id := range g.Nodes() {
		p, ok := a.dataset.Product(id)
		if !ok || !p.SalesRank.Valid {
			continue
		}
		if p.SalesRank.Rank <= 0 || p.SalesRank.Rank > a.maxRank {
			continue
		}
		connections := g.OutDegree(id)
		candidates = append(candidates, models.Opportunity{
			Product:     p,
			Connections: connections,
			Score:       float64(p.SalesRank.Rank) / float64(max(connections, 1)),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score < candidates[j].Score
		}
		return candidates[i].Product.ID < candidates[j].Product.ID
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// SummaryStatistics reports graph size and average out-degree. The average
// is 0 for an empty graph.
func (a *Analyzer) SummaryStatistics() models.Summary {
	g := a.dataset.Graph()
	s := models.Summary{
		Products: a.dataset.ProductCount(),
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
	}
	if s.Nodes > 0 {
		s.AvgOutDegree = float64(s.Edges) / float64(s.Nodes)
	}
	return s
}
