package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-trends/models"
	"catalog-trends/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `# Full information about Amazon Share the Love products
Total items: 3

Id:   0
ASIN: 0771044445
  discontinued product

Id:   1
ASIN: 0827229534
  title: Patterns of Preaching: A Sermon Sampler
  group: Book
  salesrank: 396585
  similar: 5  0804215715  156101074X  0687023955  0687074231  082721619X
  categories: 2
   |Books[283155]|Subjects[1000]|Religion & Spirituality[22]|Christianity[12290]
  reviews: total: 2  downloaded: 2  avg rating: 5
    2000-7-28  cutomer: A2JW67OY8U6HHK  rating: 5  votes:  10  helpful:   9

Id:   2
ASIN: 0738700797
  title: Candlemas: Feast of Flames
  group: Book
  salesrank: 168596
  similar: 5  0738700827  1567184960  1567182836  0738700525  0738700940
  categories: 2
  reviews: total: 12  downloaded: 12  avg rating: 4.5
`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amazon-meta.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader() *Loader {
	return NewLoader(utils.NewNopLogger())
}

func TestLoadSampleDump(t *testing.T) {
	ds, err := newTestLoader().Load(writeDump(t, sampleDump))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.ProductCount())
	assert.Equal(t, 10, ds.Graph().EdgeCount())
	assert.Equal(t, 12, ds.Graph().NodeCount())

	p, ok := ds.Product("0827229534")
	require.True(t, ok)
	assert.Equal(t, "Patterns of Preaching: A Sermon Sampler", p.Title)
	assert.Equal(t, "Book", p.Category)
	assert.Equal(t, models.KnownRank(396585), p.SalesRank)

	_, ok = ds.Product("0771044445")
	assert.False(t, ok, "discontinued product without title should be dropped")

	stats := ds.Stats()
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, 10, stats.Edges)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := newTestLoader().Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := newTestLoader().Load(writeDump(t, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoadMalformedData(t *testing.T) {
	// field lines without an ASIN line never start a record
	_, err := newTestLoader().Load(writeDump(t, "title: Broken Product\n"))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoadWithSimilarProducts(t *testing.T) {
	dump := "ASIN: TEST1\n title: Test 1\n group: Book\n salesrank: 100\n similar: 2 TEST2 TEST3\n" +
		"\nASIN: TEST2\n title: Test 2\n group: Book\n" +
		"\nASIN: TEST3\n title: Test 3\n group: Book\n"

	ds, err := newTestLoader().Load(writeDump(t, dump))
	require.NoError(t, err)

	g := ds.Graph()
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.ContainsEdge("TEST1", "TEST2"))
	assert.True(t, g.ContainsEdge("TEST1", "TEST3"))
	assert.Equal(t, 3, ds.ProductCount(), "titled records without a similar line still register")

	p, _ := ds.Product("TEST2")
	assert.False(t, p.SalesRank.Valid)
}

func TestParseDeduplicatesEdges(t *testing.T) {
	dump := "ASIN: A\n  title: A\n  similar: 3 B B C\n  similar: 1 B\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Graph().EdgeCount())
	assert.Equal(t, []string{"B", "C"}, ds.Graph().OutNeighbors("A"))
}

func TestParseDeclaredCountIsNotValidated(t *testing.T) {
	dump := "ASIN: A\n  title: A\n  similar: 1 B C D\n\nASIN: E\n  title: E\n  similar: 9 F\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Graph().OutDegree("A"))
	assert.Equal(t, 1, ds.Graph().OutDegree("E"))
}

func TestParseSimilarZero(t *testing.T) {
	ds, err := newTestLoader().Parse(strings.NewReader("ASIN: A\n  title: A\n  similar: 0\n"), "inline")
	require.NoError(t, err)

	assert.Equal(t, 1, ds.ProductCount())
	assert.Equal(t, 1, ds.Graph().NodeCount())
	assert.Zero(t, ds.Graph().EdgeCount())
}

func TestParseMalformedRankDefaults(t *testing.T) {
	dump := "ASIN: A\n  title: A\n  salesrank: n/a\n  similar: 1 B\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	p, ok := ds.Product("A")
	require.True(t, ok)
	assert.False(t, p.SalesRank.Valid)
	assert.Equal(t, "unknown", p.SalesRank.String())
	assert.Equal(t, 1, ds.Stats().DefaultedRanks)
}

func TestParseFirstWriterWins(t *testing.T) {
	dump := "ASIN: A\n  title: First\n  salesrank: 10\n  similar: 1 B\n" +
		"\nASIN: A\n  title: Second\n  salesrank: 20\n  similar: 1 C\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	p, _ := ds.Product("A")
	assert.Equal(t, "First", p.Title)
	assert.Equal(t, 10, p.SalesRank.Rank)
	assert.Equal(t, 1, ds.Stats().Duplicates)
	// edges from the later block are still part of the topology
	assert.True(t, ds.Graph().ContainsEdge("A", "C"))
}

func TestParseReferencedOnlyIDsAreNodesNotProducts(t *testing.T) {
	dump := "ASIN: A\n  title: A\n  similar: 1 GHOST\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	assert.True(t, ds.Graph().HasNode("GHOST"))
	_, ok := ds.Product("GHOST")
	assert.False(t, ok)
}

func TestParseUntitledRecordWithSimilarLineRegisters(t *testing.T) {
	dump := "ASIN: A\n  similar: 1 B\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	p, ok := ds.Product("A")
	require.True(t, ok)
	assert.Empty(t, p.Title)
}

func TestParseNewASINDiscardsUnfinishedRecord(t *testing.T) {
	dump := "ASIN: A\n  group: Book\nASIN: B\n  title: B\n"

	ds, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	require.NoError(t, err)

	assert.Equal(t, 1, ds.ProductCount())
	_, ok := ds.Product("A")
	assert.False(t, ok)
	assert.Equal(t, 1, ds.Stats().Dropped)
}

func TestParseBlankLineEndsRecord(t *testing.T) {
	// the title after the blank line belongs to no record
	dump := "ASIN: A\n  group: Book\n\n  title: Orphan\n"

	_, err := newTestLoader().Parse(strings.NewReader(dump), "inline")
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestParseEveryProductHasNode(t *testing.T) {
	ds, err := newTestLoader().Parse(strings.NewReader(sampleDump), "inline")
	require.NoError(t, err)

	for _, id := range []string{"0827229534", "0738700797"} {
		assert.True(t, ds.Graph().HasNode(id), id)
	}
}

func TestSimilarIDs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"similar: 2 A B", []string{"A", "B"}},
		{"similar:   3\tA  B   C", []string{"A", "B", "C"}},
		{"similar: 0", nil},
		{"similar:", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, similarIDs(tt.line), tt.line)
	}
}

func TestParseSalesRank(t *testing.T) {
	r, ok := parseSalesRank(" 1234 ")
	assert.True(t, ok)
	assert.Equal(t, models.KnownRank(1234), r)

	r, ok = parseSalesRank("")
	assert.False(t, ok)
	assert.False(t, r.Valid)

	r, ok = parseSalesRank("12x")
	assert.False(t, ok)
	assert.False(t, r.Valid)
}
