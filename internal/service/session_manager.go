package service

import (
	"errors"
	"fmt"
	"sync"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
)

// ErrSessionInProgress rejects starting a second session while one is
// already running for the profile.
var ErrSessionInProgress = errors.New("a session is already in progress for this profile")

// SessionOutcome is what completing a session produces. Exactly one of
// the two fields is set, depending on the session kind.
type SessionOutcome struct {
	Test     *models.TestResult     `json:"test,omitempty"`
	Practice *models.PracticeResult `json:"practice,omitempty"`
}

// ProgressRecorder receives scored results. ProgressService satisfies
// it.
type ProgressRecorder interface {
	RecordTestResult(res models.TestResult) error
	RecordPracticeResult(res models.PracticeResult) error
}

// SessionStore persists and reloads session snapshots. BlobRepository
// satisfies it.
type SessionStore interface {
	SnapshotStore
	Load(key string) ([]byte, error)
}

// SessionManager holds at most one live session engine per profile and
// routes completion through scoring and progress recording.
type SessionManager struct {
	questions *repository.QuestionRepository
	selector  *PoolSelector
	blobs     SessionStore
	progress  ProgressRecorder
	notifier  Notifier

	mu      sync.Mutex
	engines map[int64]*SessionEngine
}

// NewSessionManager creates a session manager. A nil notifier gets
// LogNotifier.
func NewSessionManager(questions *repository.QuestionRepository, selector *PoolSelector, blobs SessionStore, progress ProgressRecorder, notifier Notifier) *SessionManager {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SessionManager{
		questions: questions,
		selector:  selector,
		blobs:     blobs,
		progress:  progress,
		notifier:  notifier,
		engines:   make(map[int64]*SessionEngine),
	}
}

// StartSession selects a question pool, builds a session and starts it.
// A profile can only run one session at a time.
func (m *SessionManager) StartSession(profileID int64, kind models.SessionKind, language string, config models.TestConfiguration) (*SessionEngine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.engines[profileID]; ok {
		snapshot := existing.Snapshot()
		if !snapshot.IsTerminal() {
			return nil, ErrSessionInProgress
		}
		delete(m.engines, profileID)
	}

	questions, err := m.selector.Select(config)
	if err != nil {
		return nil, fmt.Errorf("failed to select question pool: %w", err)
	}

	session := NewTestSession(profileID, kind, language, config, questions)
	engine := NewSessionEngine(session, m.blobs, m.notifier)
	if err := engine.Start(); err != nil {
		return nil, err
	}
	m.engines[profileID] = engine
	return engine, nil
}

// Engine returns the live engine for a profile
func (m *SessionManager) Engine(profileID int64) (*SessionEngine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, ok := m.engines[profileID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return engine, nil
}

// ResumeSession returns the live engine for a profile, reloading it
// from the persisted snapshot after a restart. A restored session comes
// back paused.
func (m *SessionManager) ResumeSession(profileID int64) (*SessionEngine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if engine, ok := m.engines[profileID]; ok {
		return engine, nil
	}

	data, err := m.blobs.Load(repository.CurrentSessionKey(profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	if data == nil {
		return nil, ErrNoActiveSession
	}
	engine, err := RestoreSessionEngine(data, m.blobs, m.notifier)
	if err != nil {
		return nil, err
	}
	m.engines[profileID] = engine
	return engine, nil
}

// CompleteSession finishes the profile's session, scores it and records
// the outcome. Full mocks produce a TestResult; practice kinds produce
// a PracticeResult.
func (m *SessionManager) CompleteSession(profileID int64) (*SessionOutcome, error) {
	// Claim the engine by removing it from the map before scoring, so
	// two concurrent completes cannot both record the outcome. The
	// loser sees no active session.
	m.mu.Lock()
	engine, ok := m.engines[profileID]
	if ok {
		delete(m.engines, profileID)
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveSession
	}

	outcome, err := m.scoreAndRecord(engine)
	if err != nil {
		// Hand the engine back so the profile can retry or exit,
		// unless a new session took the slot in the meantime
		m.mu.Lock()
		if _, taken := m.engines[profileID]; !taken {
			m.engines[profileID] = engine
		}
		m.mu.Unlock()
		return nil, err
	}
	return outcome, nil
}

func (m *SessionManager) scoreAndRecord(engine *SessionEngine) (*SessionOutcome, error) {
	if err := engine.Complete(); err != nil {
		return nil, err
	}
	session := engine.Snapshot()

	outcome := &SessionOutcome{}
	switch session.Kind {
	case models.SessionKindFullMock:
		res, err := ScoreTest(session, m.questions)
		if err != nil {
			return nil, err
		}
		if err := m.progress.RecordTestResult(res); err != nil {
			return nil, err
		}
		outcome.Test = &res
	default:
		res, err := ScorePractice(session, m.questions)
		if err != nil {
			return nil, err
		}
		if err := m.progress.RecordPracticeResult(res); err != nil {
			return nil, err
		}
		outcome.Practice = &res
	}
	return outcome, nil
}

// ExitSession abandons the profile's session without scoring it
func (m *SessionManager) ExitSession(profileID int64) error {
	m.mu.Lock()
	engine, ok := m.engines[profileID]
	m.mu.Unlock()
	if !ok {
		return ErrNoActiveSession
	}
	if err := engine.Exit(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.engines, profileID)
	m.mu.Unlock()
	return nil
}
