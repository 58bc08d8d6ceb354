package models

import "time"

// DefaultWeeklyGoal is the question target used until a profile sets its own
const DefaultWeeklyGoal = 100

// UserProgress is the per-profile aggregate accumulated over time. It
// is loaded at startup, updated after every completed session and
// persisted on every mutation.
type UserProgress struct {
	ProfileID       int64     `json:"profile_id"`
	TestsTaken      int       `json:"tests_taken"`
	QuestionsTotal  int       `json:"questions_total"`
	CorrectTotal    int       `json:"correct_total"`
	BestPercentage  float64   `json:"best_percentage"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	LastActiveDate  time.Time `json:"last_active_date"`
	WeeklyQuestions int       `json:"weekly_questions"`
	WeeklyGoal      int       `json:"weekly_goal"`

	TestHistory     []TestResult     `json:"test_history"`
	PracticeHistory []PracticeResult `json:"practice_history"`
}

// NewUserProgress returns an empty aggregate for a profile
func NewUserProgress(profileID int64) *UserProgress {
	return &UserProgress{
		ProfileID:  profileID,
		WeeklyGoal: DefaultWeeklyGoal,
	}
}

// sameDay reports whether two times fall on the same calendar day
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sameISOWeek reports whether two times fall in the same ISO week
func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// TouchActivity updates the daily streak and weekly counter for
// activity happening at now.
func (p *UserProgress) TouchActivity(now time.Time, questionsAnswered int) {
	switch {
	case p.LastActiveDate.IsZero():
		p.CurrentStreak = 1
	case sameDay(p.LastActiveDate, now):
		// streak unchanged within the same day
	case sameDay(p.LastActiveDate.AddDate(0, 0, 1), now):
		p.CurrentStreak++
	default:
		p.CurrentStreak = 1
	}
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}

	// Weekly counter resets at the ISO week boundary
	if p.LastActiveDate.IsZero() || !sameISOWeek(p.LastActiveDate, now) {
		p.WeeklyQuestions = 0
	}
	p.WeeklyQuestions += questionsAnswered
	p.LastActiveDate = now
}

// RecordTestResult folds a completed test into the aggregate
func (p *UserProgress) RecordTestResult(r TestResult, now time.Time) {
	p.TestsTaken++
	p.QuestionsTotal += r.TotalQuestions
	p.CorrectTotal += r.Score
	if pct := r.Percentage(); pct > p.BestPercentage {
		p.BestPercentage = pct
	}
	p.TouchActivity(now, r.TotalQuestions)
	p.TestHistory = append(p.TestHistory, r)
}

// RecordPracticeResult folds a completed practice session into the aggregate
func (p *UserProgress) RecordPracticeResult(r PracticeResult, now time.Time) {
	p.QuestionsTotal += r.Total
	p.CorrectTotal += r.Score
	p.TouchActivity(now, r.Total)
	p.PracticeHistory = append(p.PracticeHistory, r)
}

// WeeklyGoalReached reports whether the weekly question target is met
func (p *UserProgress) WeeklyGoalReached() bool {
	return p.WeeklyGoal > 0 && p.WeeklyQuestions >= p.WeeklyGoal
}
