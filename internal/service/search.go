package service

import (
	"sort"
	"strings"

	"cinevault/internal/models"
	"cinevault/internal/tmdb"
)

// Queries of two characters or fewer never hit the external source.
const minSearchQueryLength = 3

// SearchService maps external multi-search results into partial title
// records ranked by the source's popularity signal.
type SearchService struct {
	metadata *MetadataService
}

// NewSearchService creates a new SearchService.
func NewSearchService(metadata *MetadataService) *SearchService {
	return &SearchService{metadata: metadata}
}

// Search looks up titles matching the query. Short or empty queries
// return no results without touching the external source.
func (s *SearchService) Search(query string) ([]models.Title, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLength {
		return []models.Title{}, nil
	}

	results, err := s.metadata.Search(query)
	if err != nil {
		return nil, err
	}

	titles := make([]models.Title, 0, len(results))
	for _, r := range results {
		titles = append(titles, TitleFromSearchResult(r))
	}

	sort.SliceStable(titles, func(i, j int) bool {
		return titles[i].Popularity > titles[j].Popularity
	})

	return titles, nil
}

// TitleFromSearchResult maps one search result to a partial title
// record: no status, empty genres and zero runtime until detail-fetched.
func TitleFromSearchResult(r tmdb.SearchResult) models.Title {
	kind := models.KindMovie
	if r.MediaType == "tv" {
		kind = models.KindSeries
	}

	date := r.ReleaseOrAirDate()

	return models.Title{
		ID:            r.ID,
		Title:         r.DisplayTitle(),
		Kind:          kind,
		Poster:        posterURL(r.PosterPath),
		Year:          yearFromDate(date),
		ReleaseDate:   date,
		Language:      r.OriginalLanguage,
		CatalogRating: roundRating(r.VoteAverage),
		Popularity:    r.Popularity,
	}
}
