package store

import (
	"sync"

	"github.com/google/uuid"

	"cinevault/internal/models"
)

// ProfileStore holds the signed-in user's profile for the session.
// There is no credential flow; sign-in is mocked at session start.
type ProfileStore struct {
	mu      sync.Mutex
	profile models.UserProfile
}

// NewProfileStore creates the session profile.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profile: models.UserProfile{
			ID:             uuid.NewString(),
			Name:           "Movie Enthusiast",
			Email:          "user@cinevault.com",
			Avatar:         "https://www.gravatar.com/avatar/?d=mp&s=150",
			FavoriteGenres: []string{"Action", "Drama", "Sci-Fi"},
			TotalWatchTime: 2847,
		},
	}
}

// Get returns the current profile.
func (p *ProfileStore) Get() models.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// ProfileUpdate carries explicit profile edits; nil fields are untouched.
// TotalWatchTime is an independent counter, only ever changed here.
type ProfileUpdate struct {
	Name           *string
	Email          *string
	FavoriteGenres []string
	TotalWatchTime *int
}

// Update applies profile edits. Identity and avatar are preserved.
func (p *ProfileStore) Update(u ProfileUpdate) models.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u.Name != nil && *u.Name != "" {
		p.profile.Name = *u.Name
	}
	if u.Email != nil && *u.Email != "" {
		p.profile.Email = *u.Email
	}
	if u.FavoriteGenres != nil {
		p.profile.FavoriteGenres = append([]string(nil), u.FavoriteGenres...)
	}
	if u.TotalWatchTime != nil && *u.TotalWatchTime >= 0 {
		p.profile.TotalWatchTime = *u.TotalWatchTime
	}

	return p.snapshot()
}

func (p *ProfileStore) snapshot() models.UserProfile {
	out := p.profile
	out.FavoriteGenres = append([]string(nil), p.profile.FavoriteGenres...)
	return out
}
