package repository

import (
	"database/sql"
)

// Cache sections stored per title.
const (
	SectionDetails = "details"
	SectionCredits = "credits"
)

// MetadataCacheRepository stores raw catalog payload snapshots keyed by
// media type, external id and section.
type MetadataCacheRepository struct {
	db *sql.DB
}

// NewMetadataCacheRepository creates a new MetadataCacheRepository.
func NewMetadataCacheRepository(sqliteDB *SQLiteDB) *MetadataCacheRepository {
	return &MetadataCacheRepository{db: sqliteDB.db}
}

// Get returns the cached payload JSON for a title section.
func (r *MetadataCacheRepository) Get(mediaType string, tmdbID int, section string) (string, bool, error) {
	var payload string
	err := r.db.QueryRow(`
		SELECT payload_json
		FROM metadata_cache
		WHERE media_type = ? AND tmdb_id = ? AND section = ?
	`, mediaType, tmdbID, section).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Upsert writes the latest payload JSON for a title section.
func (r *MetadataCacheRepository) Upsert(mediaType string, tmdbID int, section, payloadJSON, fetchedAt string) error {
	_, err := r.db.Exec(`
		INSERT INTO metadata_cache (media_type, tmdb_id, section, payload_json, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(media_type, tmdb_id, section) DO UPDATE SET
			payload_json = excluded.payload_json,
			fetched_at = excluded.fetched_at
	`, mediaType, tmdbID, section, payloadJSON, fetchedAt)
	return err
}

// Delete removes all cached sections for a title.
func (r *MetadataCacheRepository) Delete(mediaType string, tmdbID int) error {
	_, err := r.db.Exec(`
		DELETE FROM metadata_cache
		WHERE media_type = ? AND tmdb_id = ?
	`, mediaType, tmdbID)
	return err
}
