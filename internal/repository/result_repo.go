package repository

import (
	"database/sql"
	"time"

	"cogniprep/internal/database"
	"cogniprep/internal/models"
)

// ResultRepository handles the append-only results history tables
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveTestResult appends a completed test result
func (r *ResultRepository) SaveTestResult(res models.TestResult) error {
	query := `
		INSERT INTO test_results (id, profile_id, session_id, level, total_questions, score,
		       verbal_correct, verbal_total, quantitative_correct, quantitative_total,
		       nonverbal_correct, nonverbal_total, elapsed_ms, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		res.ID, res.ProfileID, res.SessionID, string(res.Level), res.TotalQuestions, res.Score,
		res.Verbal.Correct, res.Verbal.Total,
		res.Quantitative.Correct, res.Quantitative.Total,
		res.NonVerbal.Correct, res.NonVerbal.Total,
		res.ElapsedTime.Milliseconds(), res.TakenAt,
	)
	return err
}

// SavePracticeResult appends a completed practice result
func (r *ResultRepository) SavePracticeResult(res models.PracticeResult) error {
	query := `
		INSERT INTO practice_results (id, profile_id, session_id, question_type, sub_type,
		       difficulty, score, total, elapsed_ms, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		res.ID, res.ProfileID, res.SessionID, string(res.Type), res.SubType,
		string(res.Difficulty), res.Score, res.Total, res.ElapsedTime.Milliseconds(), res.TakenAt,
	)
	return err
}

// GetTestResults retrieves a profile's test history, newest first
func (r *ResultRepository) GetTestResults(profileID int64, limit int) ([]models.TestResult, error) {
	query := `
		SELECT id, profile_id, session_id, level, total_questions, score,
		       verbal_correct, verbal_total, quantitative_correct, quantitative_total,
		       nonverbal_correct, nonverbal_total, elapsed_ms, taken_at
		FROM test_results
		WHERE profile_id = ?
		ORDER BY taken_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.TestResult
	for rows.Next() {
		res, err := scanTestResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// GetPracticeResults retrieves a profile's practice history, newest first
func (r *ResultRepository) GetPracticeResults(profileID int64, limit int) ([]models.PracticeResult, error) {
	query := `
		SELECT id, profile_id, session_id, question_type, sub_type, difficulty,
		       score, total, elapsed_ms, taken_at
		FROM practice_results
		WHERE profile_id = ?
		ORDER BY taken_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.PracticeResult
	for rows.Next() {
		res, err := scanPracticeResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func scanTestResult(rows *sql.Rows) (models.TestResult, error) {
	var res models.TestResult
	var level string
	var elapsedMs int64
	err := rows.Scan(
		&res.ID, &res.ProfileID, &res.SessionID, &level, &res.TotalQuestions, &res.Score,
		&res.Verbal.Correct, &res.Verbal.Total,
		&res.Quantitative.Correct, &res.Quantitative.Total,
		&res.NonVerbal.Correct, &res.NonVerbal.Total,
		&elapsedMs, &res.TakenAt,
	)
	if err != nil {
		return models.TestResult{}, err
	}
	res.Level = models.Level(level)
	res.ElapsedTime = time.Duration(elapsedMs) * time.Millisecond
	return res, nil
}

func scanPracticeResult(rows *sql.Rows) (models.PracticeResult, error) {
	var res models.PracticeResult
	var qType, subType, difficulty string
	var elapsedMs int64
	err := rows.Scan(
		&res.ID, &res.ProfileID, &res.SessionID, &qType, &subType, &difficulty,
		&res.Score, &res.Total, &elapsedMs, &res.TakenAt,
	)
	if err != nil {
		return models.PracticeResult{}, err
	}
	res.Type = models.QuestionType(qType)
	res.SubType = subType
	res.Difficulty = models.Difficulty(difficulty)
	res.ElapsedTime = time.Duration(elapsedMs) * time.Millisecond
	return res, nil
}
