package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinevault/internal/repository"
	"cinevault/internal/tmdb"
)

func newCachedMetadataFixture(t *testing.T) (*MetadataService, *int) {
	t.Helper()

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
		switch {
		case r.URL.Path == "/movie/603/credits":
			json.NewEncoder(w).Encode(map[string]any{
				"cast": []map[string]any{{"id": 6384, "name": "Keanu Reeves", "character": "Neo"}},
				"crew": []map[string]any{{"id": 9340, "name": "Lana Wachowski", "job": "Director"}},
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"id": 603, "title": "The Matrix", "runtime": 136,
				"release_date": "1999-03-30", "vote_average": 8.2,
				"overview":    "A computer hacker learns the truth.",
				"imdb_id":     "tt0133093",
				"genres":      []map[string]any{{"id": 28, "name": "Action"}},
				"poster_path": "/matrix.jpg",
			})
		}
	}))
	t.Cleanup(server.Close)

	client := tmdb.NewClient("test-api-key")
	client.SetBaseURL(server.URL)

	db, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitSchema())

	return NewMetadataService(client, repository.NewMetadataCacheRepository(db)), &hits
}

func TestMetadataDetailsServedFromCacheAfterFirstFetch(t *testing.T) {
	svc, hits := newCachedMetadataFixture(t)

	first, err := svc.GetDetails("movie", 603)
	require.NoError(t, err)
	assert.Equal(t, 1, *hits)
	assert.Equal(t, "The Matrix", first.Title)
	assert.Equal(t, 136, first.RuntimeMinutes)
	assert.Equal(t, []string{"Action"}, first.Genres)
	assert.Equal(t, "tt0133093", first.ExternalRef)

	second, err := svc.GetDetails("movie", 603)
	require.NoError(t, err)
	assert.Equal(t, 1, *hits, "second read must come from the cache")
	assert.Equal(t, first, second)
}

func TestMetadataCreditsCachedIndependently(t *testing.T) {
	svc, hits := newCachedMetadataFixture(t)

	credits, err := svc.GetCredits("movie", 603)
	require.NoError(t, err)
	require.Len(t, credits.Cast, 1)
	assert.Equal(t, "Keanu Reeves", credits.Cast[0].Name)
	assert.Equal(t, 1, *hits)

	_, err = svc.GetCredits("movie", 603)
	require.NoError(t, err)
	assert.Equal(t, 1, *hits)

	// Details were never fetched; their section is independent.
	_, err = svc.GetDetails("movie", 603)
	require.NoError(t, err)
	assert.Equal(t, 2, *hits)
}

func TestMetadataInvalidateForcesRefetch(t *testing.T) {
	svc, hits := newCachedMetadataFixture(t)

	_, err := svc.GetDetails("movie", 603)
	require.NoError(t, err)
	svc.Invalidate("movie", 603)

	_, err = svc.GetDetails("movie", 603)
	require.NoError(t, err)
	assert.Equal(t, 2, *hits)
}

func TestMetadataWorksWithoutCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{"id": 603, "title": "The Matrix"})
	}))
	t.Cleanup(server.Close)

	client := tmdb.NewClient("test-api-key")
	client.SetBaseURL(server.URL)
	svc := NewMetadataService(client, nil)

	_, err := svc.GetDetails("movie", 603)
	require.NoError(t, err)
	_, err = svc.GetDetails("movie", 603)
	require.NoError(t, err)
	assert.Equal(t, 2, hits, "no cache means every call hits the source")
}
