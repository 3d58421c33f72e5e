package service

import (
	"sort"

	"cinevault/internal/models"
	"cinevault/internal/timeutil"
)

const (
	recentlyWatchedLimit = 6
	planToWatchLimit     = 4
)

// HomeFeed is the home view projection: three slices of the collection,
// recomputed on every read.
type HomeFeed struct {
	CurrentlyWatching []models.Title `json:"currentlyWatching"`
	RecentlyWatched   []models.Title `json:"recentlyWatched"`
	PlanToWatch       []models.Title `json:"planToWatch"`
}

// BuildHomeFeed derives the home feed from the current collection.
func BuildHomeFeed(titles []models.Title) HomeFeed {
	feed := HomeFeed{
		CurrentlyWatching: []models.Title{},
		RecentlyWatched:   []models.Title{},
		PlanToWatch:       []models.Title{},
	}

	for _, t := range titles {
		switch {
		case t.Status == models.StatusWatching:
			feed.CurrentlyWatching = append(feed.CurrentlyWatching, t)
		case t.Status == models.StatusCompleted && t.DateWatched != "":
			feed.RecentlyWatched = append(feed.RecentlyWatched, t)
		case t.Status == models.StatusPlanToWatch:
			if len(feed.PlanToWatch) < planToWatchLimit {
				feed.PlanToWatch = append(feed.PlanToWatch, t)
			}
		}
	}

	sort.SliceStable(feed.RecentlyWatched, func(i, j int) bool {
		a := timeutil.ParseDate(feed.RecentlyWatched[i].DateWatched)
		b := timeutil.ParseDate(feed.RecentlyWatched[j].DateWatched)
		return a.After(b)
	})
	if len(feed.RecentlyWatched) > recentlyWatchedLimit {
		feed.RecentlyWatched = feed.RecentlyWatched[:recentlyWatchedLimit]
	}

	return feed
}
