package models

import "time"

// CategoryScore is the correct/total breakdown for one battery
type CategoryScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns the category score as 0-100, 0 for an empty category
func (c CategoryScore) Percentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return 100 * float64(c.Correct) / float64(c.Total)
}

// TestResult is the immutable outcome of a completed full-mock or
// standard test session.
type TestResult struct {
	ID             string        `json:"id"`
	ProfileID      int64         `json:"profile_id"`
	SessionID      string        `json:"session_id"`
	Level          Level         `json:"level"`
	TotalQuestions int           `json:"total_questions"`
	Score          int           `json:"score"`
	Verbal         CategoryScore `json:"verbal"`
	Quantitative   CategoryScore `json:"quantitative"`
	NonVerbal      CategoryScore `json:"nonverbal"`
	ElapsedTime    time.Duration `json:"elapsed_time"`
	TakenAt        time.Time     `json:"taken_at"`
}

// Percentage returns the overall score as 0-100, 0 for an empty test
func (r *TestResult) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return 100 * float64(r.Score) / float64(r.TotalQuestions)
}

// GiftedRange reports whether the result reaches the gifted threshold (>= 85%)
func (r *TestResult) GiftedRange() bool {
	return r.Percentage() >= 85
}

// Percentile is a presentation heuristic capped at 99. It is not a
// norm-referenced percentile.
func (r *TestResult) Percentile() int {
	p := int(r.Percentage())
	if p > 99 {
		p = 99
	}
	return p
}

// CategoryFor returns the breakdown for a battery
func (r *TestResult) CategoryFor(t QuestionType) CategoryScore {
	switch t {
	case TypeVerbal:
		return r.Verbal
	case TypeQuantitative:
		return r.Quantitative
	case TypeNonVerbal:
		return r.NonVerbal
	}
	return CategoryScore{}
}

// PracticeResult is the immutable outcome of a completed practice session.
type PracticeResult struct {
	ID          string        `json:"id"`
	ProfileID   int64         `json:"profile_id"`
	SessionID   string        `json:"session_id"`
	Type        QuestionType  `json:"type"`
	SubType     string        `json:"sub_type,omitempty"`
	Difficulty  Difficulty    `json:"difficulty,omitempty"`
	Score       int           `json:"score"`
	Total       int           `json:"total"`
	ElapsedTime time.Duration `json:"elapsed_time"`
	TakenAt     time.Time     `json:"taken_at"`
}

// Percentage returns the practice score as 0-100, 0 for an empty session
func (r *PracticeResult) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Score) / float64(r.Total)
}
