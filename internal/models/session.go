package models

import "time"

// SessionKind selects the navigation rules for a session
type SessionKind string

const (
	// SessionKindFullMock is a timed exam; backward navigation is not allowed
	SessionKindFullMock SessionKind = "full_mock"
	// SessionKindPractice allows free navigation
	SessionKindPractice SessionKind = "practice"
	// SessionKindTypeRestricted is practice limited to one battery
	SessionKindTypeRestricted SessionKind = "type_restricted"
)

// AllowsBackwardNavigation reports whether the kind permits retreating
func (k SessionKind) AllowsBackwardNavigation() bool {
	return k != SessionKindFullMock
}

// SessionState is the lifecycle state of a test session
type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionActive     SessionState = "active"
	SessionPaused     SessionState = "paused"
	// SessionAwaitingSubmit means the clock ran out with auto-submit
	// disabled; the timer is stopped but the session is not completed
	SessionAwaitingSubmit SessionState = "awaiting_submit"
	SessionCompleted      SessionState = "completed"
	// SessionAbandoned marks a session exited before completion; it is
	// terminal but produces no result
	SessionAbandoned SessionState = "abandoned"
)

// TestSession is the mutable runtime state of one in-progress exam.
// All mutation goes through the session engine, which serializes access.
type TestSession struct {
	ID          string       `json:"id"`
	ProfileID   int64        `json:"profile_id"`
	Kind        SessionKind  `json:"kind"`
	Language    string       `json:"language"`
	Level       Level        `json:"level"`
	QuestionIDs []string     `json:"question_ids"`
	State       SessionState `json:"state"`

	CurrentIndex int            `json:"current_index"`
	Answers      map[string]int `json:"answers"` // question id -> selected option index; absent = unanswered

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// RemainingSeconds only counts down for timed sessions; 0 with
	// Timed false means no countdown at all
	Timed            bool `json:"timed"`
	RemainingSeconds int  `json:"remaining_seconds"`
	AutoSubmit       bool `json:"auto_submit"`
}

// TotalQuestions returns the fixed question count of the session
func (s *TestSession) TotalQuestions() int {
	return len(s.QuestionIDs)
}

// AnsweredCount returns how many questions have a recorded answer
func (s *TestSession) AnsweredCount() int {
	return len(s.Answers)
}

// CurrentQuestionID returns the id at the current position, or "" when
// the session holds no questions
func (s *TestSession) CurrentQuestionID() string {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.QuestionIDs) {
		return ""
	}
	return s.QuestionIDs[s.CurrentIndex]
}

// SelectedAnswer returns the recorded answer for the current question
// and whether one exists
func (s *TestSession) SelectedAnswer() (int, bool) {
	idx, ok := s.Answers[s.CurrentQuestionID()]
	return idx, ok
}

// IsTerminal reports whether the session can no longer be mutated
func (s *TestSession) IsTerminal() bool {
	return s.State == SessionCompleted || s.State == SessionAbandoned
}

// ElapsedTime returns how long the session ran, using the completion
// time for finished sessions
func (s *TestSession) ElapsedTime() time.Duration {
	if s.CompletedAt != nil {
		return s.CompletedAt.Sub(s.StartedAt)
	}
	if s.StartedAt.IsZero() {
		return 0
	}
	return time.Since(s.StartedAt)
}
