package service

import (
	"encoding/json"
	"fmt"
	"log"

	"cinevault/internal/repository"
	"cinevault/internal/timeutil"
	"cinevault/internal/tmdb"
)

// MetadataService fronts the catalog client with an optional sqlite
// read-through cache of raw payloads. With no cache configured every
// call goes straight to the source.
type MetadataService struct {
	client *tmdb.Client
	cache  *repository.MetadataCacheRepository
}

// NewMetadataService creates a new MetadataService. The cache may be nil.
func NewMetadataService(client *tmdb.Client, cache *repository.MetadataCacheRepository) *MetadataService {
	return &MetadataService{
		client: client,
		cache:  cache,
	}
}

// Search passes a free-text query through to the catalog source.
func (s *MetadataService) Search(query string) ([]tmdb.SearchResult, error) {
	return s.client.SearchMulti(query)
}

// GetDetails returns cached details when present, otherwise fetches and
// caches them.
func (s *MetadataService) GetDetails(mediaType string, id int) (*tmdb.Details, error) {
	if s.cache != nil {
		payload, ok, err := s.cache.Get(mediaType, id, repository.SectionDetails)
		if err != nil {
			log.Printf("metadata cache read failed for %s/%d: %v", mediaType, id, err)
		} else if ok {
			var details tmdb.Details
			if err := json.Unmarshal([]byte(payload), &details); err != nil {
				return nil, fmt.Errorf("failed to decode cached details payload: %w", err)
			}
			return &details, nil
		}
	}

	details, err := s.client.GetDetails(mediaType, id)
	if err != nil {
		return nil, err
	}

	s.put(mediaType, id, repository.SectionDetails, details)
	return details, nil
}

// GetCredits returns cached credits when present, otherwise fetches and
// caches them.
func (s *MetadataService) GetCredits(mediaType string, id int) (*tmdb.Credits, error) {
	if s.cache != nil {
		payload, ok, err := s.cache.Get(mediaType, id, repository.SectionCredits)
		if err != nil {
			log.Printf("metadata cache read failed for %s/%d: %v", mediaType, id, err)
		} else if ok {
			var credits tmdb.Credits
			if err := json.Unmarshal([]byte(payload), &credits); err != nil {
				return nil, fmt.Errorf("failed to decode cached credits payload: %w", err)
			}
			return &credits, nil
		}
	}

	credits, err := s.client.GetCredits(mediaType, id)
	if err != nil {
		return nil, err
	}

	s.put(mediaType, id, repository.SectionCredits, credits)
	return credits, nil
}

// Invalidate drops all cached sections for a title.
func (s *MetadataService) Invalidate(mediaType string, id int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(mediaType, id); err != nil {
		log.Printf("metadata cache invalidate failed for %s/%d: %v", mediaType, id, err)
	}
}

// put writes a payload to the cache. Cache write failures are logged,
// never surfaced: the fetched payload is still good.
func (s *MetadataService) put(mediaType string, id int, section string, v any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to encode %s payload for %s/%d: %v", section, mediaType, id, err)
		return
	}
	fetchedAt := timeutil.Now().Format("2006-01-02 15:04:05")
	if err := s.cache.Upsert(mediaType, id, section, string(payload), fetchedAt); err != nil {
		log.Printf("metadata cache write failed for %s/%d: %v", mediaType, id, err)
	}
}
