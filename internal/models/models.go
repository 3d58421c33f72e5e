package models

// Kind discriminates movies from series
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Status represents the user's watch status for a title
type Status string

const (
	StatusNone        Status = ""
	StatusWatching    Status = "watching"
	StatusPlanToWatch Status = "plan-to-watch"
	StatusCompleted   Status = "completed"
	StatusDropped     Status = "dropped"
	StatusOnHold      Status = "on-hold"
)

// Valid reports whether s is one of the known watch statuses (unset included).
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusWatching, StatusPlanToWatch, StatusCompleted, StatusDropped, StatusOnHold:
		return true
	}
	return false
}

// Progress tracks episode progress for series
type Progress struct {
	CurrentEpisode int `json:"currentEpisode"`
	TotalEpisodes  int `json:"totalEpisodes"`
}

// CastMember is one cast entry from the credits lookup
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

// CrewMember is one crew entry from the credits lookup
type CrewMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Title represents a single tracked movie or series in the watchlist.
// Catalog fields come from the external metadata source and may be
// superseded on re-fetch; user-authored fields are only ever written by
// the user and survive every enrichment merge.
type Title struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`

	// Catalog metadata
	Poster         string   `json:"poster"`
	Year           int      `json:"year"`
	ReleaseDate    string   `json:"releaseDate"` // YYYY-MM-DD
	Language       string   `json:"language"`
	Country        string   `json:"country"`
	Genres         []string `json:"genres"`
	RuntimeMinutes int      `json:"runtimeMinutes"` // per-episode runtime for series
	CatalogRating  float64  `json:"catalogRating"`  // 0-10, one decimal
	Description    string   `json:"description"`
	Popularity     float64  `json:"popularity,omitempty"`
	ExternalRef    string   `json:"externalRef,omitempty"` // cross-reference id (IMDb)

	// User-authored
	Status      Status    `json:"status,omitempty"`
	UserRating  int       `json:"userRating,omitempty"` // 1-10
	UserReview  string    `json:"userReview,omitempty"`
	UserNotes   string    `json:"userNotes,omitempty"`
	Progress    *Progress `json:"progress,omitempty"`    // series only
	DateWatched string    `json:"dateWatched,omitempty"` // YYYY-MM-DD, stamped once

	// Lazily fetched, cached on the record once loaded
	CastDetails []CastMember `json:"castDetails,omitempty"`
	CrewDetails []CrewMember `json:"crewDetails,omitempty"`
}

// UserProfile is the signed-in user's identity and preferences.
// TotalWatchTime is an independently tracked counter, not recomputed
// from the watchlist.
type UserProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Avatar         string   `json:"avatar"`
	FavoriteGenres []string `json:"favoriteGenres"`
	TotalWatchTime int      `json:"totalWatchTime"` // minutes
}
