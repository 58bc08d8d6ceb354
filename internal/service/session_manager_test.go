package service

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
)

type countingRecorder struct {
	mu       sync.Mutex
	tests    int
	practice int
	failNext int
}

func (r *countingRecorder) RecordTestResult(res models.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext > 0 {
		r.failNext--
		return errors.New("store unavailable")
	}
	r.tests++
	return nil
}

func (r *countingRecorder) RecordPracticeResult(res models.PracticeResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext > 0 {
		r.failNext--
		return errors.New("store unavailable")
	}
	r.practice++
	return nil
}

func (r *countingRecorder) recorded() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tests, r.practice
}

func newTestManager(t *testing.T, recorder *countingRecorder) *SessionManager {
	t.Helper()
	repo := repository.NewQuestionRepository(testCorpus(models.Level2, 10))
	selector := NewPoolSelector(repo, rand.New(rand.NewSource(1)))
	return NewSessionManager(repo, selector, newMemStore(), recorder, &recordingNotifier{})
}

func practiceConfig(count int) models.TestConfiguration {
	return models.TestConfiguration{
		Kind:          models.TestKindCustom,
		Level:         models.Level2,
		QuestionCount: count,
	}
}

func TestStartSessionRejectsSecond(t *testing.T) {
	manager := newTestManager(t, &countingRecorder{})

	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Fatalf("StartSession() error: %v", err)
	}
	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); !errors.Is(err, ErrSessionInProgress) {
		t.Errorf("Second StartSession = %v, want ErrSessionInProgress", err)
	}
	// Another profile is unaffected
	if _, err := manager.StartSession(2, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Errorf("StartSession for other profile = %v, want nil", err)
	}
}

func TestCompleteSessionRecordsOutcome(t *testing.T) {
	recorder := &countingRecorder{}
	manager := newTestManager(t, recorder)

	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Fatal(err)
	}
	outcome, err := manager.CompleteSession(1)
	if err != nil {
		t.Fatalf("CompleteSession() error: %v", err)
	}
	if outcome.Practice == nil || outcome.Test != nil {
		t.Errorf("Practice session must produce a practice outcome: %+v", outcome)
	}
	if _, practice := recorder.recorded(); practice != 1 {
		t.Errorf("Recorded %d practice results, want 1", practice)
	}

	// The slot is free again
	if _, err := manager.CompleteSession(1); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("CompleteSession after completion = %v, want ErrNoActiveSession", err)
	}
	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Errorf("StartSession after completion = %v, want nil", err)
	}
}

func TestCompleteSessionRecordsOnceUnderConcurrency(t *testing.T) {
	recorder := &countingRecorder{}
	manager := newTestManager(t, recorder)

	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Fatal(err)
	}

	// A double-clicked submit lands as near-simultaneous completes;
	// exactly one may score and record
	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = manager.CompleteSession(1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNoActiveSession):
		default:
			t.Errorf("Caller %d got unexpected error: %v", i, err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d callers succeeded, want exactly 1", succeeded)
	}
	if _, practice := recorder.recorded(); practice != 1 {
		t.Errorf("Recorded %d practice results, want exactly 1", practice)
	}
}

func TestCompleteSessionRetryAfterRecordFailure(t *testing.T) {
	recorder := &countingRecorder{failNext: 1}
	manager := newTestManager(t, recorder)

	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Fatal(err)
	}

	if _, err := manager.CompleteSession(1); err == nil {
		t.Fatal("CompleteSession should surface the recording failure")
	}
	// The engine is handed back, so a retry can still record the outcome
	if _, err := manager.CompleteSession(1); err != nil {
		t.Fatalf("Retry after recording failure = %v, want nil", err)
	}
	if _, practice := recorder.recorded(); practice != 1 {
		t.Errorf("Recorded %d practice results, want 1", practice)
	}
}

func TestExitSessionProducesNoResult(t *testing.T) {
	recorder := &countingRecorder{}
	manager := newTestManager(t, recorder)

	if _, err := manager.StartSession(1, models.SessionKindPractice, "en", practiceConfig(5)); err != nil {
		t.Fatal(err)
	}
	if err := manager.ExitSession(1); err != nil {
		t.Fatalf("ExitSession() error: %v", err)
	}
	if tests, practice := recorder.recorded(); tests != 0 || practice != 0 {
		t.Errorf("Exited session recorded results: tests=%d practice=%d", tests, practice)
	}
	if _, err := manager.CompleteSession(1); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("CompleteSession after exit = %v, want ErrNoActiveSession", err)
	}
}
