package models

import (
	"bytes"
	"strings"
)

// SortOrder is a listing order token such as "date-desc".
type SortOrder string

// Supported orders. Anything else parses to DefaultSortOrder.
const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"

	DefaultSortOrder = SortDateDesc
)

// ParseSortOrder maps a client sort token to a SortOrder.
// Unknown tokens select DefaultSortOrder instead of failing.
func ParseSortOrder(token string) SortOrder {
	switch s := SortOrder(strings.ToLower(strings.TrimSpace(token))); s {
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return s
	default:
		return DefaultSortOrder
	}
}

// Field is the transaction attribute the order is keyed on.
func (s SortOrder) Field() string {
	if s == SortAmountAsc || s == SortAmountDesc {
		return "amount"
	}
	return "date"
}

// Descending reports whether larger values come first.
func (s SortOrder) Descending() bool {
	return s == SortDateDesc || s == SortAmountDesc
}

// Less orders a before b. Ties on the sort field fall back to CreatedAt and
// then ID, in the same direction.
func (s SortOrder) Less(a, b *Transaction) bool {
	c := s.compare(a, b)
	if s.Descending() {
		return c > 0
	}
	return c < 0
}

func (s SortOrder) compare(a, b *Transaction) int {
	var c int
	if s.Field() == "amount" {
		c = a.Amount.Cmp(b.Amount)
	} else {
		c = a.Date.Compare(b.Date)
	}
	if c != 0 {
		return c
	}
	if c = a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}
