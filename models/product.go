package models

import "strconv"

// SalesRank is a product's sales rank (lower sells better). Valid is false
// when the dump had no rank line or the value was not a number.
type SalesRank struct {
	Rank  int
	Valid bool
}

// KnownRank wraps a parsed rank
func KnownRank(rank int) SalesRank {
	return SalesRank{Rank: rank, Valid: true}
}

func (r SalesRank) String() string {
	if !r.Valid {
		return "unknown"
	}
	return strconv.Itoa(r.Rank)
}

// Product represents one fully described catalog entry
type Product struct {
	ID        string // ASIN
	Title     string
	Category  string // "group" field of the dump
	SalesRank SalesRank
}
