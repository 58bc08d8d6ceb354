package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cogniprep/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                 `json:"version"`
	ExportedAt   time.Time              `json:"exported_at"`
	DatabaseType string                 `json:"database_type"`
	Profiles     []ProfileBackup        `json:"profiles"`
	Blobs        []BlobBackup           `json:"blobs"`
	TestResults  []TestResultBackup     `json:"test_results"`
	Practice     []PracticeResultBackup `json:"practice_results"`
}

// ProfileBackup represents a profile record for backup
type ProfileBackup struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Handle        string    `json:"handle"`
	PINHash       string    `json:"pin_hash"`
	Level         string    `json:"level"`
	Language      string    `json:"language"`
	GuardianEmail string    `json:"guardian_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BlobBackup represents a key-value blob record for backup. Values are
// JSON documents and are embedded verbatim.
type BlobBackup struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TestResultBackup represents a test result row for backup
type TestResultBackup struct {
	ID                  string    `json:"id"`
	ProfileID           int64     `json:"profile_id"`
	SessionID           string    `json:"session_id"`
	Level               string    `json:"level"`
	TotalQuestions      int       `json:"total_questions"`
	Score               int       `json:"score"`
	VerbalCorrect       int       `json:"verbal_correct"`
	VerbalTotal         int       `json:"verbal_total"`
	QuantitativeCorrect int       `json:"quantitative_correct"`
	QuantitativeTotal   int       `json:"quantitative_total"`
	NonVerbalCorrect    int       `json:"nonverbal_correct"`
	NonVerbalTotal      int       `json:"nonverbal_total"`
	ElapsedMs           int64     `json:"elapsed_ms"`
	TakenAt             time.Time `json:"taken_at"`
}

// PracticeResultBackup represents a practice result row for backup
type PracticeResultBackup struct {
	ID           string    `json:"id"`
	ProfileID    int64     `json:"profile_id"`
	SessionID    string    `json:"session_id"`
	QuestionType string    `json:"question_type"`
	SubType      string    `json:"sub_type"`
	Difficulty   string    `json:"difficulty"`
	Score        int       `json:"score"`
	Total        int       `json:"total"`
	ElapsedMs    int64     `json:"elapsed_ms"`
	TakenAt      time.Time `json:"taken_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.ExportToWriter(file)
}

// ExportToWriter exports the database as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportProfiles(backup); err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}
	if err := s.exportBlobs(backup); err != nil {
		return fmt.Errorf("failed to export blobs: %w", err)
	}
	if err := s.exportTestResults(backup); err != nil {
		return fmt.Errorf("failed to export test results: %w", err)
	}
	if err := s.exportPracticeResults(backup); err != nil {
		return fmt.Errorf("failed to export practice results: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d profiles, %d blobs, %d test results, %d practice results",
		len(backup.Profiles), len(backup.Blobs), len(backup.TestResults), len(backup.Practice))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importProfiles(backup.Profiles); err != nil {
		return fmt.Errorf("failed to import profiles: %w", err)
	}
	if err := s.importBlobs(backup.Blobs); err != nil {
		return fmt.Errorf("failed to import blobs: %w", err)
	}
	if err := s.importTestResults(backup.TestResults); err != nil {
		return fmt.Errorf("failed to import test results: %w", err)
	}
	if err := s.importPracticeResults(backup.Practice); err != nil {
		return fmt.Errorf("failed to import practice results: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportProfiles(backup *BackupData) error {
	query := "SELECT id, name, handle, pin_hash, level, language, guardian_email, created_at, updated_at FROM profiles ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProfileBackup
		if err := rows.Scan(&p.ID, &p.Name, &p.Handle, &p.PINHash, &p.Level, &p.Language, &p.GuardianEmail, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Profiles = append(backup.Profiles, p)
	}
	return rows.Err()
}

func (s *BackupService) exportBlobs(backup *BackupData) error {
	query := "SELECT key, value, updated_at FROM blobs ORDER BY key"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b BlobBackup
		var value []byte
		if err := rows.Scan(&b.Key, &value, &b.UpdatedAt); err != nil {
			return err
		}
		b.Value = json.RawMessage(value)
		backup.Blobs = append(backup.Blobs, b)
	}
	return rows.Err()
}

func (s *BackupService) exportTestResults(backup *BackupData) error {
	query := `SELECT id, profile_id, session_id, level, total_questions, score,
		verbal_correct, verbal_total, quantitative_correct, quantitative_total,
		nonverbal_correct, nonverbal_total, elapsed_ms, taken_at
		FROM test_results ORDER BY taken_at`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r TestResultBackup
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.SessionID, &r.Level, &r.TotalQuestions, &r.Score,
			&r.VerbalCorrect, &r.VerbalTotal, &r.QuantitativeCorrect, &r.QuantitativeTotal,
			&r.NonVerbalCorrect, &r.NonVerbalTotal, &r.ElapsedMs, &r.TakenAt); err != nil {
			return err
		}
		backup.TestResults = append(backup.TestResults, r)
	}
	return rows.Err()
}

func (s *BackupService) exportPracticeResults(backup *BackupData) error {
	query := `SELECT id, profile_id, session_id, question_type, sub_type, difficulty,
		score, total, elapsed_ms, taken_at
		FROM practice_results ORDER BY taken_at`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r PracticeResultBackup
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.SessionID, &r.QuestionType, &r.SubType, &r.Difficulty,
			&r.Score, &r.Total, &r.ElapsedMs, &r.TakenAt); err != nil {
			return err
		}
		backup.Practice = append(backup.Practice, r)
	}
	return rows.Err()
}

func (s *BackupService) importProfiles(profiles []ProfileBackup) error {
	log.Printf("Importing %d profiles...", len(profiles))
	for _, p := range profiles {
		query := "INSERT INTO profiles (id, name, handle, pin_hash, level, language, guardian_email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, p.ID, p.Name, p.Handle, p.PINHash, p.Level, p.Language, p.GuardianEmail, p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import profile %d: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importBlobs(blobs []BlobBackup) error {
	log.Printf("Importing %d blobs...", len(blobs))
	for _, b := range blobs {
		if _, err := s.db.Exec(s.db.Dialect.UpsertBlob(), b.Key, []byte(b.Value)); err != nil {
			return fmt.Errorf("failed to import blob %s: %w", b.Key, err)
		}
	}
	return nil
}

func (s *BackupService) importTestResults(results []TestResultBackup) error {
	log.Printf("Importing %d test results...", len(results))
	for _, r := range results {
		query := `INSERT INTO test_results (id, profile_id, session_id, level, total_questions, score,
			verbal_correct, verbal_total, quantitative_correct, quantitative_total,
			nonverbal_correct, nonverbal_total, elapsed_ms, taken_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := s.db.Exec(query, r.ID, r.ProfileID, r.SessionID, r.Level, r.TotalQuestions, r.Score,
			r.VerbalCorrect, r.VerbalTotal, r.QuantitativeCorrect, r.QuantitativeTotal,
			r.NonVerbalCorrect, r.NonVerbalTotal, r.ElapsedMs, r.TakenAt); err != nil {
			return fmt.Errorf("failed to import test result %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importPracticeResults(results []PracticeResultBackup) error {
	log.Printf("Importing %d practice results...", len(results))
	for _, r := range results {
		query := `INSERT INTO practice_results (id, profile_id, session_id, question_type, sub_type,
			difficulty, score, total, elapsed_ms, taken_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := s.db.Exec(query, r.ID, r.ProfileID, r.SessionID, r.QuestionType, r.SubType,
			r.Difficulty, r.Score, r.Total, r.ElapsedMs, r.TakenAt); err != nil {
			return fmt.Errorf("failed to import practice result %s: %w", r.ID, err)
		}
	}
	return nil
}
