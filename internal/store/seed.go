package store

import "cinevault/internal/models"

// SeedTitles returns the fixed sample collection used at session start.
func SeedTitles() []models.Title {
	return []models.Title{
		{
			ID:             1,
			Title:          "The Dark Knight",
			Kind:           models.KindMovie,
			Poster:         "https://image.tmdb.org/t/p/w300/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
			Year:           2008,
			ReleaseDate:    "2008-07-16",
			Genres:         []string{"Action", "Crime", "Drama"},
			RuntimeMinutes: 152,
			CatalogRating:  9.0,
			Description:    "When a menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests.",
			Status:         models.StatusCompleted,
			UserRating:     9,
			DateWatched:    "2024-01-15",
		},
		{
			ID:             2,
			Title:          "Breaking Bad",
			Kind:           models.KindSeries,
			Poster:         "https://image.tmdb.org/t/p/w300/ggFHVNu6YYI5L9pCfOacjizRGt.jpg",
			Year:           2008,
			ReleaseDate:    "2008-01-20",
			Genres:         []string{"Crime", "Drama", "Thriller"},
			RuntimeMinutes: 47,
			CatalogRating:  9.5,
			Description:    "A chemistry teacher diagnosed with inoperable lung cancer turns to manufacturing and selling methamphetamine.",
			Status:         models.StatusWatching,
			UserRating:     10,
			Progress:       &models.Progress{CurrentEpisode: 45, TotalEpisodes: 62},
		},
		{
			ID:             3,
			Title:          "Inception",
			Kind:           models.KindMovie,
			Poster:         "https://image.tmdb.org/t/p/w300/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg",
			Year:           2010,
			ReleaseDate:    "2010-07-15",
			Genres:         []string{"Action", "Sci-Fi", "Thriller"},
			RuntimeMinutes: 148,
			CatalogRating:  8.8,
			Description:    "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
			Status:         models.StatusPlanToWatch,
		},
	}
}
