package service

import (
	"errors"
	"testing"
	"time"

	"cogniprep/internal/models"
)

type mapLookup map[string]models.QuestionRecord

func (m mapLookup) GetByID(id string) (models.QuestionRecord, bool) {
	q, ok := m[id]
	return q, ok
}

func scoringLookup() mapLookup {
	return mapLookup{
		"v1": {ID: "v1", Type: models.TypeVerbal, SubType: models.SubTypeAnalogies, Difficulty: models.DifficultyEasy, CorrectIndex: 0},
		"v2": {ID: "v2", Type: models.TypeVerbal, SubType: models.SubTypeAnalogies, Difficulty: models.DifficultyEasy, CorrectIndex: 1},
		"q1": {ID: "q1", Type: models.TypeQuantitative, SubType: models.SubTypeNumberSeries, Difficulty: models.DifficultyMedium, CorrectIndex: 2},
		"n1": {ID: "n1", Type: models.TypeNonVerbal, SubType: models.SubTypeFigureMatrices, Difficulty: models.DifficultyHard, CorrectIndex: 3},
	}
}

func completedSession(kind models.SessionKind, ids []string, answers map[string]int) models.TestSession {
	now := time.Now()
	return models.TestSession{
		ID:          "scored-session",
		ProfileID:   7,
		Kind:        kind,
		Level:       models.Level2,
		QuestionIDs: ids,
		Answers:     answers,
		State:       models.SessionCompleted,
		CompletedAt: &now,
	}
}

func TestScoreTestCategoryBreakdown(t *testing.T) {
	// v1 right, v2 wrong, q1 right, n1 unanswered
	session := completedSession(models.SessionKindFullMock,
		[]string{"v1", "v2", "q1", "n1"},
		map[string]int{"v1": 0, "v2": 3, "q1": 2})

	result, err := ScoreTest(session, scoringLookup())
	if err != nil {
		t.Fatalf("ScoreTest() error: %v", err)
	}

	if result.Score != 2 {
		t.Errorf("Score = %d, want 2", result.Score)
	}
	if result.TotalQuestions != 4 {
		t.Errorf("TotalQuestions = %d, want 4", result.TotalQuestions)
	}
	if result.Verbal.Correct != 1 || result.Verbal.Total != 2 {
		t.Errorf("Verbal = %d/%d, want 1/2", result.Verbal.Correct, result.Verbal.Total)
	}
	if result.Quantitative.Correct != 1 || result.Quantitative.Total != 1 {
		t.Errorf("Quantitative = %d/%d, want 1/1", result.Quantitative.Correct, result.Quantitative.Total)
	}
	// Unanswered counts as incorrect
	if result.NonVerbal.Correct != 0 || result.NonVerbal.Total != 1 {
		t.Errorf("NonVerbal = %d/%d, want 0/1", result.NonVerbal.Correct, result.NonVerbal.Total)
	}
	if result.ProfileID != 7 || result.SessionID != "scored-session" {
		t.Errorf("Result identity fields not carried over: %+v", result)
	}
	if result.ID == "" {
		t.Error("Result must get a fresh id")
	}
}

func TestScoreTestPerfectScore(t *testing.T) {
	session := completedSession(models.SessionKindFullMock,
		[]string{"v1", "v2", "q1", "n1"},
		map[string]int{"v1": 0, "v2": 1, "q1": 2, "n1": 3})

	result, err := ScoreTest(session, scoringLookup())
	if err != nil {
		t.Fatalf("ScoreTest() error: %v", err)
	}
	if result.Percentage() != 100 {
		t.Errorf("Percentage() = %v, want 100", result.Percentage())
	}
	if !result.GiftedRange() {
		t.Error("Perfect score must be in gifted range")
	}
	if result.Percentile() != 99 {
		t.Errorf("Percentile() = %d, want 99 cap", result.Percentile())
	}
}

func TestScoreTestGradesDuplicatesPerEntry(t *testing.T) {
	session := completedSession(models.SessionKindFullMock,
		[]string{"v1", "v1", "v1"},
		map[string]int{"v1": 0})

	result, err := ScoreTest(session, scoringLookup())
	if err != nil {
		t.Fatalf("ScoreTest() error: %v", err)
	}
	if result.Score != 3 {
		t.Errorf("Score = %d, want 3 (each list entry graded)", result.Score)
	}
	if result.Verbal.Total != 3 {
		t.Errorf("Verbal.Total = %d, want 3", result.Verbal.Total)
	}
}

func TestScoreTestRejectsUnfinishedSession(t *testing.T) {
	session := completedSession(models.SessionKindFullMock, []string{"v1"}, map[string]int{})
	for _, state := range []models.SessionState{
		models.SessionNotStarted,
		models.SessionActive,
		models.SessionPaused,
		models.SessionAwaitingSubmit,
		models.SessionAbandoned,
	} {
		session.State = state
		if _, err := ScoreTest(session, scoringLookup()); !errors.Is(err, ErrSessionNotCompleted) {
			t.Errorf("ScoreTest(state=%s) = %v, want ErrSessionNotCompleted", state, err)
		}
	}
}

func TestScoreTestUnknownQuestion(t *testing.T) {
	session := completedSession(models.SessionKindFullMock, []string{"v1", "ghost"}, map[string]int{})
	if _, err := ScoreTest(session, scoringLookup()); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("ScoreTest() = %v, want ErrUnknownQuestion", err)
	}
}

func TestScorePracticeUniformLabels(t *testing.T) {
	session := completedSession(models.SessionKindPractice,
		[]string{"v1", "v2"},
		map[string]int{"v1": 0})

	result, err := ScorePractice(session, scoringLookup())
	if err != nil {
		t.Fatalf("ScorePractice() error: %v", err)
	}
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("Score = %d/%d, want 1/2", result.Score, result.Total)
	}
	if result.Type != models.TypeVerbal {
		t.Errorf("Type = %q, want verbal", result.Type)
	}
	if result.SubType != models.SubTypeAnalogies {
		t.Errorf("SubType = %q, want analogies", result.SubType)
	}
	if result.Difficulty != models.DifficultyEasy {
		t.Errorf("Difficulty = %q, want easy", result.Difficulty)
	}
}

func TestScorePracticeMixedLabelsStayEmpty(t *testing.T) {
	session := completedSession(models.SessionKindPractice,
		[]string{"v1", "q1", "n1"},
		map[string]int{"v1": 0, "q1": 2, "n1": 3})

	result, err := ScorePractice(session, scoringLookup())
	if err != nil {
		t.Fatalf("ScorePractice() error: %v", err)
	}
	if result.Type != "" || result.SubType != "" || result.Difficulty != "" {
		t.Errorf("Mixed session must leave labels empty, got type=%q sub=%q diff=%q",
			result.Type, result.SubType, result.Difficulty)
	}
	if result.Score != 3 {
		t.Errorf("Score = %d, want 3", result.Score)
	}
}

func TestScorePracticeRejectsUnfinishedSession(t *testing.T) {
	session := completedSession(models.SessionKindPractice, []string{"v1"}, map[string]int{})
	session.State = models.SessionActive
	if _, err := ScorePractice(session, scoringLookup()); !errors.Is(err, ErrSessionNotCompleted) {
		t.Errorf("ScorePractice() = %v, want ErrSessionNotCompleted", err)
	}
}
