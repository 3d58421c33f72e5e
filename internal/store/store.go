package store

import (
	"errors"
	"fmt"
	"sync"

	"cinevault/internal/models"
	"cinevault/internal/timeutil"
)

var (
	// ErrDuplicateTitle is returned when adding a title whose id already exists.
	ErrDuplicateTitle = errors.New("title already in watchlist")
	// ErrTitleNotFound is returned when the requested title id is not in the collection.
	ErrTitleNotFound = errors.New("title not found")
)

// Store is the authoritative in-memory collection of tracked titles plus
// the currently selected title. State is session-scoped: nothing is ever
// written to disk.
type Store struct {
	mu         sync.Mutex
	titles     []models.Title
	selectedID int
	generation uint64
}

// New creates a Store seeded with the given titles.
func New(seed []models.Title) *Store {
	s := &Store{}
	s.titles = append(s.titles, seed...)
	return s
}

// All returns a copy of the collection in stored order.
func (s *Store) All() []models.Title {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Title, len(s.titles))
	copy(out, s.titles)
	return out
}

// Get returns the title with the given id.
func (s *Store) Get(id int) (models.Title, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Title{}, false
	}
	return s.titles[i], true
}

// Upsert replaces the record with the same id wholesale, or appends it.
func (s *Store) Upsert(t models.Title) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(t.ID); i >= 0 {
		s.titles[i] = t
		return
	}
	s.titles = append(s.titles, t)
}

// Add appends a new title to the watchlist. A title added without a
// status defaults to plan-to-watch. Adding an id that already exists is
// a conflict, never a silent duplicate.
func (s *Store) Add(t models.Title) (models.Title, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(t.ID) >= 0 {
		return models.Title{}, fmt.Errorf("id %d: %w", t.ID, ErrDuplicateTitle)
	}

	if t.Status == models.StatusNone {
		t.Status = models.StatusPlanToWatch
	}
	stampCompleted(&t)

	s.titles = append(s.titles, t)
	return t, nil
}

// Remove deletes a title from the watchlist. Removing the selected
// title clears the selection.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("id %d: %w", id, ErrTitleNotFound)
	}

	s.titles = append(s.titles[:i], s.titles[i+1:]...)
	if s.selectedID == id {
		s.selectedID = 0
		s.generation++
	}
	return nil
}

// Select marks a title as the one being viewed and returns it together
// with the selection generation. Enrichment results are only applied
// while that generation is still current, so a fetch completing after
// the user has navigated away is discarded.
func (s *Store) Select(id int) (models.Title, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Title{}, 0, fmt.Errorf("id %d: %w", id, ErrTitleNotFound)
	}

	s.selectedID = id
	s.generation++
	return s.titles[i], s.generation, nil
}

// Deselect clears the selection and invalidates outstanding enrichment
// fetches.
func (s *Store) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedID = 0
	s.generation++
}

// Selected returns the currently selected title, if any.
func (s *Store) Selected() (models.Title, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == 0 {
		return models.Title{}, false
	}
	i := s.indexOf(s.selectedID)
	if i < 0 {
		return models.Title{}, false
	}
	return s.titles[i], true
}

// ApplyEnrichment upserts an enriched record, but only when it matches
// the selection it was fetched for. Returns whether it was applied.
func (s *Store) ApplyEnrichment(id int, generation uint64, t models.Title) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID != id || s.generation != generation {
		return false
	}

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t.ID = id
	s.titles[i] = t
	return true
}

// Edit carries user-authored field changes; nil fields are untouched.
// A zero UserRating clears the rating.
type Edit struct {
	Status         *models.Status
	UserRating     *int
	UserReview     *string
	UserNotes      *string
	CurrentEpisode *int
	TotalEpisodes  *int
}

// Apply mutates a title's user-authored fields. Catalog fields are never
// touched here. Transitioning to completed stamps dateWatched with
// today's date exactly once.
func (s *Store) Apply(id int, e Edit) (models.Title, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Title{}, fmt.Errorf("id %d: %w", id, ErrTitleNotFound)
	}
	t := s.titles[i]

	if e.Status != nil {
		if !e.Status.Valid() {
			return models.Title{}, fmt.Errorf("invalid status %q", *e.Status)
		}
		t.Status = *e.Status
	}
	if e.UserRating != nil {
		r := *e.UserRating
		if r < 0 || r > 10 {
			return models.Title{}, fmt.Errorf("rating %d out of range 1-10", r)
		}
		t.UserRating = r
	}
	if e.UserReview != nil {
		t.UserReview = *e.UserReview
	}
	if e.UserNotes != nil {
		t.UserNotes = *e.UserNotes
	}
	if e.CurrentEpisode != nil || e.TotalEpisodes != nil {
		if t.Kind != models.KindSeries {
			return models.Title{}, fmt.Errorf("progress only applies to series")
		}
		p := models.Progress{CurrentEpisode: 1}
		if t.Progress != nil {
			p = *t.Progress
		}
		if e.CurrentEpisode != nil {
			if *e.CurrentEpisode < 1 {
				return models.Title{}, fmt.Errorf("episode %d out of range", *e.CurrentEpisode)
			}
			p.CurrentEpisode = *e.CurrentEpisode
		}
		if e.TotalEpisodes != nil {
			if *e.TotalEpisodes < 1 {
				return models.Title{}, fmt.Errorf("total episodes %d out of range", *e.TotalEpisodes)
			}
			p.TotalEpisodes = *e.TotalEpisodes
		}
		t.Progress = &p
	}

	stampCompleted(&t)

	s.titles[i] = t
	return t, nil
}

// stampCompleted sets dateWatched the first time a record becomes
// completed. An already-set date is never overwritten.
func stampCompleted(t *models.Title) {
	if t.Status == models.StatusCompleted && t.DateWatched == "" {
		t.DateWatched = timeutil.Today()
	}
}

func (s *Store) indexOf(id int) int {
	for i := range s.titles {
		if s.titles[i].ID == id {
			return i
		}
	}
	return -1
}
