package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
)

// Session lifecycle errors. Invalid operations on a session fail loudly
// instead of being silently ignored.
var (
	ErrSessionAlreadyStarted        = errors.New("session already started")
	ErrSessionNotActive             = errors.New("session is not active")
	ErrSessionCompleted             = errors.New("session already completed")
	ErrSessionNotPaused             = errors.New("session is not paused")
	ErrSessionNotStarted            = errors.New("session has not been started")
	ErrBackwardNavigationNotAllowed = errors.New("backward navigation not allowed in this session kind")
	ErrIndexOutOfRange              = errors.New("question index out of range")
	ErrAnswerOutOfRange             = errors.New("answer index out of range")
	ErrNoActiveSession              = errors.New("no active session for profile")
)

// timeWarningSeconds is the remaining time at which the low-time
// notification fires
const timeWarningSeconds = 60

// Notifier receives session lifecycle events. Implementations must not
// call back into the engine.
type Notifier interface {
	AnswerRecorded(session *models.TestSession, questionID string, answer int)
	TimeWarning(session *models.TestSession, remainingSeconds int)
	SessionCompleted(session *models.TestSession)
}

// LogNotifier is the default Notifier; it writes events to the standard
// logger.
type LogNotifier struct{}

func (LogNotifier) AnswerRecorded(s *models.TestSession, questionID string, answer int) {
	log.Printf("Session %s: answer %d recorded for question %s", s.ID, answer, questionID)
}

func (LogNotifier) TimeWarning(s *models.TestSession, remainingSeconds int) {
	log.Printf("Session %s: %d seconds remaining", s.ID, remainingSeconds)
}

func (LogNotifier) SessionCompleted(s *models.TestSession) {
	log.Printf("Session %s: completed with %d/%d answered", s.ID, s.AnsweredCount(), s.TotalQuestions())
}

// SnapshotStore persists session snapshots between mutations so an
// interrupted session can be resumed. BlobRepository satisfies it.
type SnapshotStore interface {
	Save(key string, value []byte) error
	Delete(key string) error
}

// SessionEngine drives a single test session through its lifecycle. All
// methods are safe for concurrent use; the internal clock goroutine and
// API callers are serialized on one mutex.
type SessionEngine struct {
	mu       sync.Mutex
	session  *models.TestSession
	store    SnapshotStore
	notifier Notifier

	stopClock chan struct{}
	warned    bool
}

// NewTestSession builds a fresh, not yet started session from a
// normalized configuration and the selected question list.
func NewTestSession(profileID int64, kind models.SessionKind, language string, config models.TestConfiguration, questions []models.QuestionRecord) *models.TestSession {
	config = config.Normalize()
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return &models.TestSession{
		ID:               uuid.New().String(),
		ProfileID:        profileID,
		Kind:             kind,
		Language:         language,
		Level:            config.Level,
		QuestionIDs:      ids,
		State:            models.SessionNotStarted,
		Answers:          make(map[string]int),
		Timed:            config.Timed,
		RemainingSeconds: config.TimeLimitSeconds(),
		AutoSubmit:       config.AutoSubmit,
	}
}

// NewSessionEngine wraps a session in an engine. A nil notifier gets
// LogNotifier; a nil store disables persistence.
func NewSessionEngine(session *models.TestSession, store SnapshotStore, notifier Notifier) *SessionEngine {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SessionEngine{
		session:  session,
		store:    store,
		notifier: notifier,
	}
}

// RestoreSessionEngine rebuilds an engine from a persisted snapshot. A
// restored active session comes back paused so the caller decides when
// the clock resumes.
func RestoreSessionEngine(snapshot []byte, store SnapshotStore, notifier Notifier) (*SessionEngine, error) {
	var session models.TestSession
	if err := json.Unmarshal(snapshot, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	if session.Answers == nil {
		session.Answers = make(map[string]int)
	}
	if session.State == models.SessionActive {
		session.State = models.SessionPaused
	}
	return NewSessionEngine(&session, store, notifier), nil
}

// Snapshot returns a deep copy of the current session state
func (e *SessionEngine) Snapshot() models.TestSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *SessionEngine) snapshotLocked() models.TestSession {
	copied := *e.session
	copied.QuestionIDs = append([]string(nil), e.session.QuestionIDs...)
	copied.Answers = make(map[string]int, len(e.session.Answers))
	for k, v := range e.session.Answers {
		copied.Answers[k] = v
	}
	if e.session.CompletedAt != nil {
		t := *e.session.CompletedAt
		copied.CompletedAt = &t
	}
	return copied
}

// Start moves the session from not started to active and starts the
// countdown for timed sessions.
func (e *SessionEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.State != models.SessionNotStarted {
		return fmt.Errorf("%w: state %s", ErrSessionAlreadyStarted, e.session.State)
	}
	e.session.State = models.SessionActive
	e.session.StartedAt = time.Now()
	e.startClockLocked()
	e.persistLocked()
	return nil
}

// SelectAnswer records the answer for the current question. Selecting
// again overwrites the previous choice. Answers bind to the current
// position on purpose: a caller targeting another question navigates
// there first with JumpTo, which keeps answer submission subject to the
// same navigation rules as movement.
func (e *SessionEngine) SelectAnswer(answer int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAnswerableLocked(); err != nil {
		return err
	}
	if answer < 0 || answer >= models.OptionCount {
		return fmt.Errorf("%w: %d", ErrAnswerOutOfRange, answer)
	}
	questionID := e.session.CurrentQuestionID()
	if questionID == "" {
		return ErrIndexOutOfRange
	}
	e.session.Answers[questionID] = answer
	e.notifier.AnswerRecorded(e.session, questionID, answer)
	e.persistLocked()
	return nil
}

// Advance moves to the next question. Advancing past the last question
// completes the session.
func (e *SessionEngine) Advance() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAnswerableLocked(); err != nil {
		return err
	}
	if e.session.CurrentIndex >= e.session.TotalQuestions()-1 {
		e.completeLocked()
		return nil
	}
	e.session.CurrentIndex++
	e.persistLocked()
	return nil
}

// Retreat moves to the previous question where the session kind allows
// it. Retreating from the first question is an error.
func (e *SessionEngine) Retreat() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAnswerableLocked(); err != nil {
		return err
	}
	if !e.session.Kind.AllowsBackwardNavigation() {
		return ErrBackwardNavigationNotAllowed
	}
	if e.session.CurrentIndex <= 0 {
		return fmt.Errorf("%w: already at first question", ErrIndexOutOfRange)
	}
	e.session.CurrentIndex--
	e.persistLocked()
	return nil
}

// JumpTo moves directly to the question at index. Jumping backwards is
// subject to the same kind restriction as Retreat.
func (e *SessionEngine) JumpTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAnswerableLocked(); err != nil {
		return err
	}
	if index < 0 || index >= e.session.TotalQuestions() {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if index < e.session.CurrentIndex && !e.session.Kind.AllowsBackwardNavigation() {
		return ErrBackwardNavigationNotAllowed
	}
	e.session.CurrentIndex = index
	e.persistLocked()
	return nil
}

// Pause suspends an active session and stops the countdown
func (e *SessionEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.IsTerminal() {
		return ErrSessionCompleted
	}
	if e.session.State != models.SessionActive {
		return fmt.Errorf("%w: state %s", ErrSessionNotActive, e.session.State)
	}
	e.session.State = models.SessionPaused
	e.stopClockLocked()
	e.persistLocked()
	return nil
}

// Resume reactivates a paused session and restarts the countdown
func (e *SessionEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.IsTerminal() {
		return ErrSessionCompleted
	}
	if e.session.State != models.SessionPaused {
		return fmt.Errorf("%w: state %s", ErrSessionNotPaused, e.session.State)
	}
	e.session.State = models.SessionActive
	e.startClockLocked()
	e.persistLocked()
	return nil
}

// Complete finishes the session. Completing an already completed
// session is a no-op, so the auto-submit path and an explicit submit
// racing each other cannot double-complete.
func (e *SessionEngine) Complete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.State == models.SessionCompleted {
		return nil
	}
	if e.session.State == models.SessionAbandoned {
		return ErrSessionCompleted
	}
	if e.session.State == models.SessionNotStarted {
		return ErrSessionNotStarted
	}
	e.completeLocked()
	return nil
}

// Exit abandons a non-terminal session and discards its snapshot. An
// abandoned session is terminal but never produces a result.
func (e *SessionEngine) Exit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.IsTerminal() {
		return ErrSessionCompleted
	}
	e.stopClockLocked()
	e.session.State = models.SessionAbandoned
	if e.store != nil {
		if err := e.store.Delete(repository.CurrentSessionKey(e.session.ProfileID)); err != nil {
			log.Printf("Warning: failed to delete session snapshot for profile %d: %v", e.session.ProfileID, err)
		}
	}
	return nil
}

// Tick advances the countdown by one second. Ticks are no-ops while the
// session is paused or awaiting submit and for untimed sessions, but a
// tick against a completed session is a hard error.
func (e *SessionEngine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.IsTerminal() {
		return ErrSessionCompleted
	}
	if e.session.State != models.SessionActive || !e.session.Timed {
		return nil
	}

	if e.session.RemainingSeconds > 0 {
		e.session.RemainingSeconds--
	}
	if e.session.RemainingSeconds <= timeWarningSeconds && e.session.RemainingSeconds > 0 && !e.warned {
		e.warned = true
		e.notifier.TimeWarning(e.session, e.session.RemainingSeconds)
	}
	if e.session.RemainingSeconds == 0 {
		if e.session.AutoSubmit {
			e.completeLocked()
			return nil
		}
		// Clock is exhausted but submission stays in the user's hands
		e.session.State = models.SessionAwaitingSubmit
		e.stopClockLocked()
	}
	e.persistLocked()
	return nil
}

// requireAnswerableLocked checks that answering and navigation are
// currently allowed. AwaitingSubmit behaves like Active here: the user
// may still review and change answers with the clock stopped.
func (e *SessionEngine) requireAnswerableLocked() error {
	switch e.session.State {
	case models.SessionActive, models.SessionAwaitingSubmit:
		return nil
	case models.SessionCompleted, models.SessionAbandoned:
		return ErrSessionCompleted
	case models.SessionNotStarted:
		return ErrSessionNotStarted
	default:
		return fmt.Errorf("%w: state %s", ErrSessionNotActive, e.session.State)
	}
}

func (e *SessionEngine) completeLocked() {
	e.stopClockLocked()
	e.session.State = models.SessionCompleted
	now := time.Now()
	e.session.CompletedAt = &now
	e.notifier.SessionCompleted(e.session)
	if e.store != nil {
		if err := e.store.Delete(repository.CurrentSessionKey(e.session.ProfileID)); err != nil {
			log.Printf("Warning: failed to delete session snapshot for profile %d: %v", e.session.ProfileID, err)
		}
	}
}

// persistLocked writes the snapshot blob. Persistence failures are
// logged, not surfaced: a flaky disk must not break a running exam.
func (e *SessionEngine) persistLocked() {
	if e.store == nil {
		return
	}
	snapshot := e.snapshotLocked()
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Warning: failed to encode session %s: %v", e.session.ID, err)
		return
	}
	if err := e.store.Save(repository.CurrentSessionKey(e.session.ProfileID), data); err != nil {
		log.Printf("Warning: failed to persist session %s: %v", e.session.ID, err)
	}
}

// startClockLocked launches the one-second ticker goroutine for timed
// sessions. The goroutine exits on stop or when a tick reports the
// session terminal.
func (e *SessionEngine) startClockLocked() {
	if !e.session.Timed || e.stopClock != nil {
		return
	}
	stop := make(chan struct{})
	e.stopClock = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := e.Tick(); err != nil {
					return
				}
			}
		}
	}()
}

func (e *SessionEngine) stopClockLocked() {
	if e.stopClock != nil {
		close(e.stopClock)
		e.stopClock = nil
	}
}
