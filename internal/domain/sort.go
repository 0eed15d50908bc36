package domain

import "sort"

// Order selects the list ordering. Chronological (by reading) is canonical;
// newest-first by audit timestamp is the explicit alternative for plain
// list views.
type Order string

// Supported orders.
const (
	OrderChronological Order = "chronological"
	OrderNewest        Order = "newest"
)

// Valid reports whether o is a supported order.
func (o Order) Valid() bool {
	return o == OrderChronological || o == OrderNewest
}

// SortEntries orders entries in place by reading date ascending, then
// reading time ascending with backfilled (nil time) entries after timed
// ones on the same date, then creation timestamp ascending. The sort is
// stable so same-key entries keep insertion order.
func SortEntries(entries []WeightEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ReadingDate != b.ReadingDate {
			return a.ReadingDate < b.ReadingDate
		}
		switch {
		case a.ReadingTime == nil && b.ReadingTime == nil:
		case a.ReadingTime == nil:
			return false
		case b.ReadingTime == nil:
			return true
		case *a.ReadingTime != *b.ReadingTime:
			return *a.ReadingTime < *b.ReadingTime
		}
		return a.CreatedAtIso < b.CreatedAtIso
	})
}

// SortNewest orders entries in place by creation timestamp descending.
func SortNewest(entries []WeightEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAtIso > entries[j].CreatedAtIso
	})
}
