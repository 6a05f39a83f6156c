package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"catalog-trends/graph"
	"catalog-trends/models"
	"catalog-trends/utils"
)

var (
	// ErrSourceNotFound is returned when the dump file does not exist
	ErrSourceNotFound = errors.New("dataset source not found")
	// ErrEmptyDataset is returned when parsing produced no products
	ErrEmptyDataset = errors.New("dataset is empty - no valid products found")
)

// maxLineSize bounds a single line of the dump; review lines in the real
// Amazon metadata can be long
const maxLineSize = 16 * 1024 * 1024

// Loader reads catalog dumps into a Dataset
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a new Loader
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load parses the dump at path
func (l *Loader) Load(path string) (*models.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat dataset: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	l.logger.Info("Loading dataset from: %s", path)
	ds, err := l.parse(f, path)
	if err != nil {
		return nil, err
	}

	stats := ds.Stats()
	l.logger.Info("Dataset loaded in %.2f seconds", stats.Duration.Seconds())
	l.logger.Info("Products processed: %d | Connections established: %d", stats.Products, stats.Edges)
	if stats.DefaultedRanks > 0 || stats.Dropped > 0 {
		l.logger.Debug("Defaulted sales ranks: %d | Dropped incomplete records: %d", stats.DefaultedRanks, stats.Dropped)
	}
	return ds, nil
}

// Parse reads a dump from r. name is only used for LoadStats.Source.
func (l *Loader) Parse(r io.Reader, name string) (*models.Dataset, error) {
	return l.parse(r, name)
}

func (l *Loader) parse(r io.Reader, name string) (*models.Dataset, error) {
	start := time.Now()
	p := newParser()
	p.stats.Source = name

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	p.finish()

	if len(p.products) == 0 {
		return nil, ErrEmptyDataset
	}

	p.stats.Products = len(p.products)
	p.stats.Nodes = p.graph.NodeCount()
	p.stats.Edges = p.graph.EdgeCount()
	p.stats.Duration = time.Since(start)
	return models.NewDataset(p.graph, p.products, p.stats), nil
}

// parser holds the state of one pass over a dump
type parser struct {
	graph    *graph.Digraph
	products map[string]models.Product
	stats    models.LoadStats

	current *models.Product // record in progress, nil between records
	linked  bool            // current was registered by a similar line
}

func newParser() *parser {
	return &parser{
		graph:    graph.New(),
		products: make(map[string]models.Product),
	}
}

func (p *parser) feed(raw string) {
	p.stats.Lines++
	line := strings.TrimSpace(raw)
	if line == "" {
		p.finish()
		return
	}

	if id, ok := field(line, asinPrefix); ok {
		p.finish()
		p.stats.Records++
		if id != "" {
			p.current = &models.Product{ID: id}
		}
		return
	}

	if p.current == nil {
		return
	}

	if v, ok := field(line, titlePrefix); ok {
		p.current.Title = v
	} else if v, ok := field(line, groupPrefix); ok {
		p.current.Category = v
	} else if v, ok := field(line, salesRankPrefix); ok {
		rank, parsed := parseSalesRank(v)
		if !parsed {
			p.stats.DefaultedRanks++
		}
		p.current.SalesRank = rank
	} else if strings.HasPrefix(line, similarPrefix) {
		p.link(similarIDs(line))
	}
}

// link registers the current record and adds an edge to every referenced id
func (p *parser) link(refs []string) {
	if !p.register(*p.current) && !p.linked {
		p.stats.Duplicates++
	}
	p.linked = true

	id := p.current.ID
	p.graph.AddNode(id)
	for _, ref := range refs {
		p.graph.AddEdge(id, ref)
	}
}

// finish closes the record in progress. Records never linked by a similar
// line are kept only if they carry a title.
func (p *parser) finish() {
	if p.current == nil {
		return
	}
	switch {
	case p.linked:
	case p.current.Title != "":
		if !p.register(*p.current) {
			p.stats.Duplicates++
		}
	default:
		p.stats.Dropped++
	}
	p.current = nil
	p.linked = false
}

// register inserts prod unless its id is already known (first writer wins)
func (p *parser) register(prod models.Product) bool {
	if _, ok := p.products[prod.ID]; ok {
		return false
	}
	p.products[prod.ID] = prod
	p.graph.AddNode(prod.ID)
	return true
}
