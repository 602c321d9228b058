package history

import "sort"

// Presentation-layer sort helpers. Each one sorts a caller-owned slice in
// place; stored order in the Store is never affected because List hands out
// copies.

// SortByTimestamp orders records newest-first when desc is true.
func SortByTimestamp(records []Record, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}

// SortByTitle orders records by project title.
func SortByTitle(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ProjectTitle < records[j].ProjectTitle
	})
}

// SortByCost orders records by estimated cost, most expensive first.
func SortByCost(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EstimatedCost > records[j].EstimatedCost
	})
}

// SortByTokens orders records by total token count, largest first.
func SortByTokens(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TotalTokens > records[j].TotalTokens
	})
}
