package domain

// ProgressFunc reports page fetch progress to the TUI.
// Called once per page: (1, 3), (2, 3), (3, 3).
type ProgressFunc func(loaded, total int)

// ListingResult summarizes a listing fetch.
type ListingResult struct {
	Category  Category
	Movies    []Movie
	FromCache bool // true if the cache was fresh (no network fetch)
}
