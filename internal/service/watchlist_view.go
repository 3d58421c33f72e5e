package service

import (
	"sort"

	"cinevault/internal/models"
	"cinevault/internal/timeutil"
)

// Sort keys accepted by the watchlist view.
const (
	SortByTitle     = "title"
	SortByYear      = "year"
	SortByRating    = "rating"
	SortByDateAdded = "dateAdded"
)

// FilterAll disables a filter predicate.
const FilterAll = "all"

// WatchlistQuery selects and orders the watchlist view.
type WatchlistQuery struct {
	Status string // "all" or a watch status
	Genre  string // "all" or a specific genre
	SortBy string
}

// ProjectWatchlist applies the status and genre filters (ANDed, "all"
// short-circuits to true) and the requested sort. Ties keep stored
// order.
func ProjectWatchlist(titles []models.Title, q WatchlistQuery) []models.Title {
	out := make([]models.Title, 0, len(titles))
	for _, t := range titles {
		if !matchStatus(t, q.Status) || !matchGenre(t, q.Genre) {
			continue
		}
		out = append(out, t)
	}

	switch q.SortBy {
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	case SortByYear:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Year > out[j].Year
		})
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UserRating > out[j].UserRating
		})
	case SortByDateAdded:
		// Interpreted as the watch date; missing dates parse to the
		// zero time and sort last.
		sort.SliceStable(out, func(i, j int) bool {
			a := timeutil.ParseDate(out[i].DateWatched)
			b := timeutil.ParseDate(out[j].DateWatched)
			return a.After(b)
		})
	}

	return out
}

// StatusCounts tallies the collection per watch status.
func StatusCounts(titles []models.Title) map[models.Status]int {
	counts := map[models.Status]int{
		models.StatusWatching:    0,
		models.StatusPlanToWatch: 0,
		models.StatusCompleted:   0,
		models.StatusDropped:     0,
		models.StatusOnHold:      0,
	}
	for _, t := range titles {
		if _, ok := counts[t.Status]; ok {
			counts[t.Status]++
		}
	}
	return counts
}

func matchStatus(t models.Title, status string) bool {
	if status == "" || status == FilterAll {
		return true
	}
	return t.Status == models.Status(status)
}

func matchGenre(t models.Title, genre string) bool {
	if genre == "" || genre == FilterAll {
		return true
	}
	for _, g := range t.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
