package service

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"cinevault/internal/models"
	"cinevault/internal/store"
	"cinevault/internal/tmdb"
)

// Crew roles surfaced in the detail view.
var keyCrewJobs = map[string]bool{
	"Director": true,
	"Writer":   true,
	"Creator":  true,
}

const maxCastEntries = 10

// Merge overlays freshly fetched catalog details onto a locally held
// title. Precedence is per field: catalog fields take the fetched value
// when present and non-empty, else keep the local value. User-authored
// fields are never touched. The one exception is the total episode
// count, adopted from the source only when the local record has none.
//
// Merging the same payload twice yields the same record as merging it
// once, and a nil payload returns the local record unchanged.
func Merge(local models.Title, fetched *tmdb.Details) models.Title {
	if fetched == nil {
		return local
	}

	merged := local

	if fetched.Title != "" {
		merged.Title = fetched.Title
	}
	if fetched.PosterPath != "" {
		merged.Poster = posterURL(fetched.PosterPath)
	}
	if fetched.ReleaseDate != "" {
		merged.ReleaseDate = fetched.ReleaseDate
	}
	if y := yearFromDate(fetched.ReleaseDate); y != 0 {
		merged.Year = y
	}
	if fetched.Language != "" {
		merged.Language = fetched.Language
	}
	if fetched.Country != "" {
		merged.Country = fetched.Country
	}
	if len(fetched.Genres) > 0 {
		merged.Genres = append([]string(nil), fetched.Genres...)
	}
	if fetched.RuntimeMinutes > 0 {
		merged.RuntimeMinutes = fetched.RuntimeMinutes
	}
	if fetched.VoteAverage > 0 {
		merged.CatalogRating = roundRating(fetched.VoteAverage)
	}
	if fetched.Overview != "" {
		merged.Description = fetched.Overview
	}
	if fetched.ExternalRef != "" {
		merged.ExternalRef = fetched.ExternalRef
	}

	// Adopt the source's episode count only when the local record has
	// no total yet; a user-held total always wins.
	if merged.Kind == models.KindSeries && fetched.EpisodeCount > 0 {
		if merged.Progress == nil {
			merged.Progress = &models.Progress{CurrentEpisode: 1, TotalEpisodes: fetched.EpisodeCount}
		} else if merged.Progress.TotalEpisodes == 0 {
			p := *merged.Progress
			p.TotalEpisodes = fetched.EpisodeCount
			merged.Progress = &p
		}
	}

	return merged
}

// roundRating truncates a catalog rating to one decimal place.
func roundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

// yearFromDate derives the year from the first four characters of a
// YYYY-MM-DD date string.
func yearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w300" + path
}

// Enricher fetches fresh catalog details for a record and merges them
// into the store.
type Enricher struct {
	metadata *MetadataService
	titles   *store.Store
}

// NewEnricher creates a new Enricher.
func NewEnricher(metadata *MetadataService, titles *store.Store) *Enricher {
	return &Enricher{
		metadata: metadata,
		titles:   titles,
	}
}

// EnrichSelected fetches details for the title the given selection was
// issued for and applies the merge. A failed fetch degrades gracefully:
// the locally held record is returned untouched. A result arriving
// after the selection has moved on is discarded.
func (e *Enricher) EnrichSelected(local models.Title, generation uint64) models.Title {
	details, err := e.metadata.GetDetails(string(local.Kind), local.ID)
	if err != nil {
		log.Printf("enrichment fetch failed for title %d: %v", local.ID, err)
		return local
	}

	merged := Merge(local, details)
	if !e.titles.ApplyEnrichment(local.ID, generation, merged) {
		// Selection changed while the fetch was in flight.
		return local
	}
	return merged
}

// LoadCredits lazily fetches cast and crew for a title and caches them
// on the record. Crew is filtered to director/writer/creator roles and
// cast is capped at the first entries by billing order.
func (e *Enricher) LoadCredits(id int) (models.Title, error) {
	t, ok := e.titles.Get(id)
	if !ok {
		return models.Title{}, fmt.Errorf("id %d: %w", id, store.ErrTitleNotFound)
	}

	if t.CastDetails != nil || t.CrewDetails != nil {
		return t, nil
	}

	credits, err := e.metadata.GetCredits(string(t.Kind), t.ID)
	if err != nil {
		return models.Title{}, fmt.Errorf("failed to load credits: %w", err)
	}

	cast := make([]models.CastMember, 0, maxCastEntries)
	for _, c := range credits.Cast {
		if len(cast) >= maxCastEntries {
			break
		}
		cast = append(cast, models.CastMember{ID: c.ID, Name: c.Name, Character: c.Character})
	}

	var crew []models.CrewMember
	for _, c := range credits.Crew {
		if keyCrewJobs[c.Job] {
			crew = append(crew, models.CrewMember{ID: c.ID, Name: c.Name, Job: c.Job})
		}
	}

	t.CastDetails = cast
	t.CrewDetails = crew
	e.titles.Upsert(t)
	return t, nil
}
