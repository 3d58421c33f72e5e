package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinevault/internal/models"
	"cinevault/internal/service"
	"cinevault/internal/store"
	"cinevault/internal/timeutil"
	"cinevault/internal/tmdb"
)

type recordingNotifier struct {
	completed []models.Title
	done      chan struct{}
}

func (n *recordingNotifier) NotifyCompleted(t models.Title) error {
	n.completed = append(n.completed, t)
	close(n.done)
	return nil
}

type fixture struct {
	router   *gin.Engine
	titles   *store.Store
	notifier *recordingNotifier
}

// newFixture wires a router against a mock catalog. A nil handler means
// the catalog is unreachable.
func newFixture(t *testing.T, catalog http.HandlerFunc) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := tmdb.NewClient("test-api-key")
	if catalog != nil {
		server := httptest.NewServer(catalog)
		t.Cleanup(server.Close)
		client.SetBaseURL(server.URL)
	} else {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()
		client.SetBaseURL(server.URL)
	}

	metadata := service.NewMetadataService(client, nil)
	titles := store.New(store.SeedTitles())
	profile := store.NewProfileStore()
	notifier := &recordingNotifier{done: make(chan struct{})}

	h := NewHandler(
		titles,
		profile,
		service.NewSearchService(metadata),
		service.NewEnricher(metadata, titles),
		notifier,
	)

	router := gin.New()
	h.RegisterRoutes(router)

	return &fixture{router: router, titles: titles, notifier: notifier}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddSearchResultDefaultsToPlanToWatch(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/watchlist", map[string]any{
		"id": 101, "title": "Dune", "kind": "movie", "year": 2021,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The added title must show up under the plan-to-watch filter.
	w = f.do(t, http.MethodGet, "/api/watchlist?status=plan-to-watch", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Titles []models.Title `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	found := false
	for _, title := range resp.Titles {
		if title.ID == 101 {
			found = true
			assert.Equal(t, models.StatusPlanToWatch, title.Status)
		}
	}
	assert.True(t, found, "Dune must be in the plan-to-watch projection")
}

func TestAddDuplicateReturnsConflict(t *testing.T) {
	f := newFixture(t, nil)

	body := map[string]any{"id": 101, "title": "Dune", "kind": "movie"}
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/watchlist", body).Code)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/watchlist", body).Code)
}

func TestAddValidation(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/api/watchlist", map[string]any{"title": "No ID", "kind": "movie"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/api/watchlist", map[string]any{"id": 5, "title": "Bad Kind", "kind": "short"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/api/watchlist", map[string]any{"id": 5, "title": "Bad Status", "kind": "movie", "status": "binged"}).Code)
}

func TestUpdateEntryStampsDateAndNotifies(t *testing.T) {
	parsed, err := time.Parse("2006-01-02", "2026-02-10")
	require.NoError(t, err)
	timeutil.SetNowFunc(func() time.Time { return parsed })
	t.Cleanup(func() { timeutil.SetNowFunc(nil) })

	f := newFixture(t, nil)

	// Inception (id 3) is seeded as plan-to-watch.
	w := f.do(t, http.MethodPatch, "/api/watchlist/3", map[string]any{
		"status": "completed", "userRating": 9,
	})
	require.Equal(t, http.StatusOK, w.Code)

	got, ok := f.titles.Get(3)
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "2026-02-10", got.DateWatched)
	assert.Equal(t, 9, got.UserRating)

	select {
	case <-f.notifier.done:
		require.Len(t, f.notifier.completed, 1)
		assert.Equal(t, 3, f.notifier.completed[0].ID)
	case <-time.After(time.Second):
		t.Fatal("completion notification never fired")
	}
}

func TestUpdateEntryValidation(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPatch, "/api/watchlist/1", map[string]any{"userRating": 11}).Code)
	assert.Equal(t, http.StatusNotFound,
		f.do(t, http.MethodPatch, "/api/watchlist/999", map[string]any{"userRating": 5}).Code)
	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPatch, "/api/watchlist/abc", map[string]any{"userRating": 5}).Code)
}

func TestRemoveFromWatchlist(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/watchlist/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/watchlist/1", nil).Code)
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	// The catalog is unreachable: a short query must still succeed.
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/search?q=du", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []models.Title `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestSearchUpstreamFailure(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodGet, "/api/search?q=dune", nil).Code)
}

func TestSelectFallsBackWhenFetchFails(t *testing.T) {
	f := newFixture(t, nil)

	before, _ := f.titles.Get(1)

	w := f.do(t, http.MethodPost, "/api/titles/1/select", nil)
	require.Equal(t, http.StatusOK, w.Code, "a failed enrichment fetch is not an error")

	var resp struct {
		Title models.Title `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, before, resp.Title, "the local record is returned fully intact")

	after, _ := f.titles.Get(1)
	assert.Equal(t, before, after)
}

func TestSelectEnrichesFromCatalog(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "title": "The Dark Knight",
			"runtime": 152, "vote_average": 9.033,
			"overview":     "Fresh overview from the catalog.",
			"release_date": "2008-07-16",
			"genres":       []map[string]any{{"id": 28, "name": "Action"}, {"id": 80, "name": "Crime"}, {"id": 18, "name": "Drama"}},
		})
	})

	w := f.do(t, http.MethodPost, "/api/titles/1/select", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got, _ := f.titles.Get(1)
	assert.Equal(t, "Fresh overview from the catalog.", got.Description)
	assert.Equal(t, 9.0, got.CatalogRating)
	// User-authored fields survive the merge (seeded as completed, rated 9).
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 9, got.UserRating)
	assert.Equal(t, "2024-01-15", got.DateWatched)
}

func TestSelectUnknownTitle(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/titles/999/select", nil).Code)
}

func TestCreditsFailureIsScopedToPanel(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodGet, "/api/titles/1/credits", nil).Code)

	// The rest of the detail view is unaffected.
	got, ok := f.titles.Get(1)
	require.True(t, ok)
	assert.Equal(t, "The Dark Knight", got.Title)
}

func TestCreditsFilteredAndCached(t *testing.T) {
	hits := 0
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		cast := make([]map[string]any, 0, 12)
		for i := 0; i < 12; i++ {
			cast = append(cast, map[string]any{"id": i + 1, "name": "Actor", "character": "Role", "order": i})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"cast": cast,
			"crew": []map[string]any{
				{"id": 100, "name": "Christopher Nolan", "job": "Director"},
				{"id": 101, "name": "Jonathan Nolan", "job": "Writer"},
				{"id": 102, "name": "Grip Person", "job": "Key Grip"},
			},
		})
	})

	w := f.do(t, http.MethodGet, "/api/titles/1/credits", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cast []models.CastMember `json:"cast"`
		Crew []models.CrewMember `json:"crew"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Cast, 10, "cast capped at the first ten entries")
	require.Len(t, resp.Crew, 2, "crew filtered to key roles")
	assert.Equal(t, "Director", resp.Crew[0].Job)

	// Second read is served from the record.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/titles/1/credits", nil).Code)
	assert.Equal(t, 1, hits)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/stats?year=2024", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats service.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	// Seeded: The Dark Knight completed (152 min, rated 9, 2024-01-15).
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 152, stats.TotalWatchMinutes)
	assert.Equal(t, 9.0, stats.AverageUserRating)
	require.NotEmpty(t, stats.Activity)
	assert.Equal(t, "2024-01-15", stats.Activity[0].Date)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/stats?year=abc", nil).Code)
}

func TestProfileRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Contains(t, body, "user")

	w = f.do(t, http.MethodPut, "/api/profile", map[string]any{
		"name":           "Cinephile",
		"favoriteGenres": []string{"Horror", "Thriller"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User models.UserProfile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Cinephile", resp.User.Name)
	assert.Equal(t, []string{"Horror", "Thriller"}, resp.User.FavoriteGenres)
	assert.Equal(t, "user@cinevault.com", resp.User.Email, "unsent fields untouched")

	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPut, "/api/profile", map[string]any{"totalWatchTime": -5}).Code)
}

func TestLoginReturnsMockedProfile(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/auth/login", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User models.UserProfile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "Movie Enthusiast", resp.User.Name)
}

func TestHomeFeedFromSeed(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/home", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed service.HomeFeed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.CurrentlyWatching, 1)
	assert.Equal(t, "Breaking Bad", feed.CurrentlyWatching[0].Title)
	require.Len(t, feed.RecentlyWatched, 1)
	assert.Equal(t, "The Dark Knight", feed.RecentlyWatched[0].Title)
	require.Len(t, feed.PlanToWatch, 1)
	assert.Equal(t, "Inception", feed.PlanToWatch[0].Title)
}
