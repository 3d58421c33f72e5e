package service

import (
	"math"
	"sort"

	"cinevault/internal/models"
	"cinevault/internal/timeutil"
)

const (
	topGenresLimit = 5
	topRatedLimit  = 5
)

// GenreCount is one bucket of the genre histogram
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// DayCount is one day of the activity histogram
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Stats is the statistics projection. Only completed records
// contribute; the favorite genres come from the user profile.
type Stats struct {
	Year              int                   `json:"year"`
	CompletedCount    int                   `json:"completedCount"`
	TotalWatchMinutes int                   `json:"totalWatchMinutes"`
	AverageUserRating float64               `json:"averageUserRating"`
	TopGenres         []GenreCount          `json:"topGenres"`
	TopRated          []models.Title        `json:"topRated"`
	Activity          []DayCount            `json:"activity"`
	StatusCounts      map[models.Status]int `json:"statusCounts"`
	FavoriteGenres    []string              `json:"favoriteGenres"`
}

// BuildStats aggregates the collection for the given calendar year.
// Series contribute a single episode-runtime unit to the watch time,
// not one per episode watched. The activity histogram is derived from
// actual watch dates; a title watched on several days still counts once
// because the model keeps one watch date per record.
func BuildStats(titles []models.Title, profile models.UserProfile, year int) Stats {
	stats := Stats{
		Year:           year,
		TopGenres:      []GenreCount{},
		TopRated:       []models.Title{},
		Activity:       []DayCount{},
		StatusCounts:   StatusCounts(titles),
		FavoriteGenres: profile.FavoriteGenres,
	}

	genreCounts := map[string]int{}
	var genreOrder []string
	dayCounts := map[string]int{}

	ratingSum := 0
	ratedCount := 0

	for _, t := range titles {
		if t.Status != models.StatusCompleted {
			continue
		}

		stats.CompletedCount++
		stats.TotalWatchMinutes += t.RuntimeMinutes

		for _, g := range t.Genres {
			if _, seen := genreCounts[g]; !seen {
				genreOrder = append(genreOrder, g)
			}
			genreCounts[g]++
		}

		if t.UserRating > 0 {
			ratingSum += t.UserRating
			ratedCount++
			stats.TopRated = append(stats.TopRated, t)
		}

		if d := timeutil.ParseDate(t.DateWatched); !d.IsZero() && d.Year() == year {
			dayCounts[t.DateWatched]++
		}
	}

	if ratedCount > 0 {
		stats.AverageUserRating = math.Round(float64(ratingSum)/float64(ratedCount)*10) / 10
	}

	// Top genres by count descending; ties keep first-encountered order.
	for _, g := range genreOrder {
		stats.TopGenres = append(stats.TopGenres, GenreCount{Genre: g, Count: genreCounts[g]})
	}
	sort.SliceStable(stats.TopGenres, func(i, j int) bool {
		return stats.TopGenres[i].Count > stats.TopGenres[j].Count
	})
	if len(stats.TopGenres) > topGenresLimit {
		stats.TopGenres = stats.TopGenres[:topGenresLimit]
	}

	sort.SliceStable(stats.TopRated, func(i, j int) bool {
		return stats.TopRated[i].UserRating > stats.TopRated[j].UserRating
	})
	if len(stats.TopRated) > topRatedLimit {
		stats.TopRated = stats.TopRated[:topRatedLimit]
	}

	for d, n := range dayCounts {
		stats.Activity = append(stats.Activity, DayCount{Date: d, Count: n})
	}
	sort.Slice(stats.Activity, func(i, j int) bool {
		return stats.Activity[i].Date < stats.Activity[j].Date
	})

	return stats
}
