package repository

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB wraps the database connection used for the metadata cache.
// The watchlist itself is never written here; only raw catalog payloads
// fetched from the external source are stored.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection with connection pool settings
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite benefits from limited connections due to write locking
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// InitSchema creates the cache tables
func (s *SQLiteDB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metadata_cache (
		media_type TEXT NOT NULL,
		tmdb_id INTEGER NOT NULL,
		section TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL,
		PRIMARY KEY (media_type, tmdb_id, section)
	);

	CREATE INDEX IF NOT EXISTS idx_metadata_cache_fetched ON metadata_cache(fetched_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
