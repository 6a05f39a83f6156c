package models

import (
	"time"

	"catalog-trends/graph"
)

// LoadStats describes a single pass over a catalog dump
type LoadStats struct {
	Source         string
	Lines          int
	Records        int // ASIN lines seen
	Products       int
	Nodes          int
	Edges          int
	DefaultedRanks int // salesrank lines that failed to parse
	Dropped        int // records discarded as incomplete
	Duplicates     int // records whose ASIN was already registered
	Duration       time.Duration
}

// Dataset is the relationship graph plus the product registry built from one
// dump. It is not modified after loading.
type Dataset struct {
	graph    *graph.Digraph
	products map[string]Product
	stats    LoadStats
}

// NewDataset takes ownership of g and products. Every product must already
// have a node in g.
func NewDataset(g *graph.Digraph, products map[string]Product, stats LoadStats) *Dataset {
	if g == nil {
		g = graph.New()
	}
	if products == nil {
		products = make(map[string]Product)
	}
	return &Dataset{graph: g, products: products, stats: stats}
}

// Graph returns the relationship graph. Callers must not modify it.
func (d *Dataset) Graph() *graph.Digraph {
	return d.graph
}

// Product looks up a registered product by ASIN
func (d *Dataset) Product(id string) (Product, bool) {
	p, ok := d.products[id]
	return p, ok
}

// ProductCount returns the size of the registry
func (d *Dataset) ProductCount() int {
	return len(d.products)
}

func (d *Dataset) Stats() LoadStats {
	return d.stats
}
