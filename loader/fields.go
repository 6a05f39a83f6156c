package loader

import (
	"strconv"
	"strings"

	"catalog-trends/models"
)

// Line prefixes recognized inside a record. Matching happens after leading
// whitespace has been trimmed, so "  title:" and " title:" both work.
const (
	asinPrefix      = "ASIN:"
	titlePrefix     = "title:"
	groupPrefix     = "group:"
	salesRankPrefix = "salesrank:"
	similarPrefix   = "similar:"
)

// field returns the trimmed value after prefix, or false if line doesn't
// start with it
func field(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}

// parseSalesRank converts the raw rank. The second result is false when the
// value was not an integer, in which case the rank is unknown.
func parseSalesRank(raw string) (models.SalesRank, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return models.SalesRank{}, false
	}
	return models.KnownRank(n), true
}

// similarIDs extracts the referenced ASINs from a similar line. The first two
// tokens are the label and the declared count; the count is not checked
// against the number of ids that follow.
func similarIDs(line string) []string {
	tokens := strings.Fields(line)
	if len(tokens) <= 2 {
		return nil
	}
	return tokens[2:]
}
