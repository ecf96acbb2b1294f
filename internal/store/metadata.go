package store

import "database/sql"

// MetaLastIngested records the time of the last successful ingestion run.
const MetaLastIngested = "last_ingested_at"

// SetMetadata upserts a process-wide bookkeeping value.
func (db *DB) SetMetadata(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value,
	)
	return err
}

// GetMetadata returns the value for key, or "" if not set.
func (db *DB) GetMetadata(key string) (string, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
