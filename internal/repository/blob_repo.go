package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cogniprep/internal/database"
)

// Well-known blob keys. Profile-scoped keys are produced by the helper
// functions below.
const (
	blobKeySettings       = "settings"
	blobKeyProgress       = "progress"
	blobKeyCurrentSession = "current_session"
)

// SettingsKey returns the settings blob key for a profile
func SettingsKey(profileID int64) string {
	return fmt.Sprintf("%s:%d", blobKeySettings, profileID)
}

// ProgressKey returns the progress aggregate blob key for a profile
func ProgressKey(profileID int64) string {
	return fmt.Sprintf("%s:%d", blobKeyProgress, profileID)
}

// CurrentSessionKey returns the in-progress session blob key for a profile
func CurrentSessionKey(profileID int64) string {
	return fmt.Sprintf("%s:%d", blobKeyCurrentSession, profileID)
}

// BlobRepository is the key-value blob store backing settings, the
// progress aggregate and the single current-session snapshot per
// profile. The snapshot blob is overwritten on every session mutation
// and removed on completion or exit.
type BlobRepository struct {
	db *database.DB
}

// NewBlobRepository creates a new blob repository
func NewBlobRepository(db *database.DB) *BlobRepository {
	return &BlobRepository{db: db}
}

// Save stores or overwrites the value for a key
func (r *BlobRepository) Save(key string, value []byte) error {
	_, err := r.db.Exec(r.db.Dialect.UpsertBlob(), key, value)
	return err
}

// Load retrieves the value for a key, returning (nil, nil) when absent
func (r *BlobRepository) Load(key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM blobs WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes a key; deleting an absent key is not an error
func (r *BlobRepository) Delete(key string) error {
	query := `DELETE FROM blobs WHERE key = ?`
	_, err := r.db.Exec(query, key)
	return err
}

// DeleteOlderThan removes blobs with the given prefix not updated since
// cutoff. Used by the startup sweep for stale session snapshots.
func (r *BlobRepository) DeleteOlderThan(prefix string, cutoff time.Time) (int64, error) {
	query := `DELETE FROM blobs WHERE key LIKE ? AND updated_at < ?`
	result, err := r.db.Exec(query, prefix+"%", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
