package graph

// Digraph is a directed graph whose nodes are identified by string labels.
// Nodes keep insertion order; there is at most one edge per ordered pair.
// A Digraph is not safe for concurrent mutation, but concurrent reads are fine
// once building is done.
type Digraph struct {
	index  map[string]int
	labels []string
	out    [][]int
	edges  map[edgeKey]struct{}
}

type edgeKey struct {
	from, to int
}

// New creates an empty Digraph
func New() *Digraph {
	return &Digraph{
		index: make(map[string]int),
		edges: make(map[edgeKey]struct{}),
	}
}

// AddNode adds label if it is not present yet and returns its internal index
func (g *Digraph) AddNode(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	i := len(g.labels)
	g.index[label] = i
	g.labels = append(g.labels, label)
	g.out = append(g.out, nil)
	return i
}

// AddEdge adds from→to, creating either node as needed. It returns false if
// the edge already existed.
func (g *Digraph) AddEdge(from, to string) bool {
	k := edgeKey{g.AddNode(from), g.AddNode(to)}
	if _, ok := g.edges[k]; ok {
		return false
	}
	g.edges[k] = struct{}{}
	g.out[k.from] = append(g.out[k.from], k.to)
	return true
}

func (g *Digraph) HasNode(label string) bool {
	_, ok := g.index[label]
	return ok
}

func (g *Digraph) ContainsEdge(from, to string) bool {
	f, ok := g.index[from]
	if !ok {
		return false
	}
	t, ok := g.index[to]
	if !ok {
		return false
	}
	_, ok = g.edges[edgeKey{f, t}]
	return ok
}

func (g *Digraph) NodeCount() int {
	return len(g.labels)
}

func (g *Digraph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns every label once, in insertion order
func (g *Digraph) Nodes() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// OutNeighbors returns the labels reachable over one outgoing edge, in the
// order the edges were added. Unknown labels have no neighbors.
func (g *Digraph) OutNeighbors(label string) []string {
	i, ok := g.index[label]
	if !ok {
		return nil
	}
	out := make([]string, len(g.out[i]))
	for n, j := range g.out[i] {
		out[n] = g.labels[j]
	}
	return out
}

// OutDegree is len(OutNeighbors(label)) without the allocation
func (g *Digraph) OutDegree(label string) int {
	i, ok := g.index[label]
	if !ok {
		return 0
	}
	return len(g.out[i])
}
