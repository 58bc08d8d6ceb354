package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cogniprep/internal/models"
)

var (
	// ErrSessionNotCompleted rejects scoring of a session that has not
	// finished; partial sessions never produce results
	ErrSessionNotCompleted = errors.New("session is not completed")
	// ErrUnknownQuestion signals a session referencing a question id the
	// repository does not know, which is a data consistency bug
	ErrUnknownQuestion = errors.New("unknown question id in session")
)

// QuestionLookup resolves question ids to records. QuestionRepository
// satisfies it.
type QuestionLookup interface {
	GetByID(id string) (models.QuestionRecord, bool)
}

// ScoreTest grades a completed full-mock session into a TestResult.
// Scoring is pure: it reads the session and the question corpus and has
// no side effects. Unanswered questions count as incorrect, and a
// question appearing twice in the list is graded twice.
func ScoreTest(session models.TestSession, lookup QuestionLookup) (models.TestResult, error) {
	if session.State != models.SessionCompleted {
		return models.TestResult{}, fmt.Errorf("%w: state %s", ErrSessionNotCompleted, session.State)
	}

	result := models.TestResult{
		ID:             uuid.New().String(),
		ProfileID:      session.ProfileID,
		SessionID:      session.ID,
		Level:          session.Level,
		TotalQuestions: session.TotalQuestions(),
		ElapsedTime:    session.ElapsedTime(),
		TakenAt:        completionTime(session),
	}

	for _, id := range session.QuestionIDs {
		q, ok := lookup.GetByID(id)
		if !ok {
			return models.TestResult{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
		}
		var cat *models.CategoryScore
		switch q.Type {
		case models.TypeVerbal:
			cat = &result.Verbal
		case models.TypeQuantitative:
			cat = &result.Quantitative
		case models.TypeNonVerbal:
			cat = &result.NonVerbal
		default:
			return models.TestResult{}, fmt.Errorf("%w: question %s has type %q", ErrUnknownQuestion, id, q.Type)
		}
		cat.Total++
		if answer, answered := session.Answers[id]; answered && answer == q.CorrectIndex {
			cat.Correct++
			result.Score++
		}
	}
	return result, nil
}

// ScorePractice grades a completed practice session into a
// PracticeResult. The type, sub-type and difficulty labels are derived
// from the questions themselves; a mixed dimension stays empty.
func ScorePractice(session models.TestSession, lookup QuestionLookup) (models.PracticeResult, error) {
	if session.State != models.SessionCompleted {
		return models.PracticeResult{}, fmt.Errorf("%w: state %s", ErrSessionNotCompleted, session.State)
	}

	result := models.PracticeResult{
		ID:          uuid.New().String(),
		ProfileID:   session.ProfileID,
		SessionID:   session.ID,
		Total:       session.TotalQuestions(),
		ElapsedTime: session.ElapsedTime(),
		TakenAt:     completionTime(session),
	}

	var sharedType models.QuestionType
	var sharedSubType string
	var sharedDifficulty models.Difficulty
	for i, id := range session.QuestionIDs {
		q, ok := lookup.GetByID(id)
		if !ok {
			return models.PracticeResult{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
		}
		if answer, answered := session.Answers[id]; answered && answer == q.CorrectIndex {
			result.Score++
		}
		if i == 0 {
			sharedType, sharedSubType, sharedDifficulty = q.Type, q.SubType, q.Difficulty
			continue
		}
		if q.Type != sharedType {
			sharedType = ""
		}
		if q.SubType != sharedSubType {
			sharedSubType = ""
		}
		if q.Difficulty != sharedDifficulty {
			sharedDifficulty = ""
		}
	}
	result.Type = sharedType
	result.SubType = sharedSubType
	result.Difficulty = sharedDifficulty
	return result, nil
}

func completionTime(session models.TestSession) time.Time {
	if session.CompletedAt != nil {
		return *session.CompletedAt
	}
	return time.Now()
}
