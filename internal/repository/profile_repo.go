package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cogniprep/internal/database"
	"cogniprep/internal/models"
)

// ProfileRepository handles database operations for test-taker profiles
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateProfile inserts a new profile
func (r *ProfileRepository) CreateProfile(name, handle, pinHash string, level models.Level, language, guardianEmail string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (name, handle, pin_hash, level, language, guardian_email)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, handle, pinHash, string(level), language, guardianEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &models.Profile{
		ID:            id,
		Name:          name,
		Handle:        handle,
		PINHash:       pinHash,
		Level:         level,
		Language:      language,
		GuardianEmail: guardianEmail,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

// GetProfileByID retrieves a profile by id, returning nil when absent
func (r *ProfileRepository) GetProfileByID(id int64) (*models.Profile, error) {
	query := `
		SELECT id, name, handle, pin_hash, level, language, guardian_email, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`
	return r.scanProfile(r.db.QueryRow(query, id))
}

// GetProfileByHandle retrieves a profile by handle, returning nil when absent
func (r *ProfileRepository) GetProfileByHandle(handle string) (*models.Profile, error) {
	query := `
		SELECT id, name, handle, pin_hash, level, language, guardian_email, created_at, updated_at
		FROM profiles
		WHERE handle = ?
	`
	return r.scanProfile(r.db.QueryRow(query, handle))
}

// ListProfiles retrieves all profiles ordered by creation
func (r *ProfileRepository) ListProfiles() ([]models.Profile, error) {
	query := `
		SELECT id, name, handle, pin_hash, level, language, guardian_email, created_at, updated_at
		FROM profiles
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		var level string
		if err := rows.Scan(&p.ID, &p.Name, &p.Handle, &p.PINHash, &level, &p.Language, &p.GuardianEmail, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Level = models.Level(level)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateProfile updates name, level, language and guardian email
func (r *ProfileRepository) UpdateProfile(id int64, name string, level models.Level, language, guardianEmail string) error {
	query := `
		UPDATE profiles
		SET name = ?, level = ?, language = ?, guardian_email = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, name, string(level), language, guardianEmail, id)
	return err
}

// UpdatePIN replaces a profile's PIN hash
func (r *ProfileRepository) UpdatePIN(id int64, pinHash string) error {
	query := `
		UPDATE profiles
		SET pin_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, pinHash, id)
	return err
}

// DeleteProfile removes a profile
func (r *ProfileRepository) DeleteProfile(id int64) error {
	query := `DELETE FROM profiles WHERE id = ?`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *ProfileRepository) scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var level string
	err := row.Scan(&p.ID, &p.Name, &p.Handle, &p.PINHash, &level, &p.Language, &p.GuardianEmail, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Level = models.Level(level)
	return p, nil
}
