package handlers

import (
	"encoding/json"
	"net/http"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
	"cogniprep/internal/service"
)

// SessionHandler exposes the session lifecycle over HTTP. Every route
// operates on the caller's single current session.
type SessionHandler struct {
	sessions  *service.SessionManager
	questions *repository.QuestionRepository
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionManager, questions *repository.QuestionRepository) *SessionHandler {
	return &SessionHandler{sessions: sessions, questions: questions}
}

type startSessionRequest struct {
	Kind     models.SessionKind       `json:"kind"`
	Language string                   `json:"language"`
	Config   models.TestConfiguration `json:"config"`
}

// questionView is a question as shown to the test taker: localized and
// with the answer key stripped.
type questionView struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	SubType string    `json:"sub_type"`
	Stem    string    `json:"stem"`
	Options [4]string `json:"options"`
}

// sessionView is the state the client renders between operations
type sessionView struct {
	Session        models.TestSession `json:"session"`
	Question       *questionView      `json:"question,omitempty"`
	SelectedAnswer *int               `json:"selected_answer,omitempty"`
}

func (h *SessionHandler) view(session models.TestSession) sessionView {
	v := sessionView{Session: session}
	if id := session.CurrentQuestionID(); id != "" && !session.IsTerminal() {
		if q, ok := h.questions.GetByID(id); ok {
			v.Question = &questionView{
				ID:      q.ID,
				Type:    string(q.Type),
				SubType: q.SubType,
				Stem:    q.StemIn(session.Language),
				Options: q.OptionsIn(session.Language),
			}
		}
		if answer, ok := session.Answers[id]; ok {
			v.SelectedAnswer = &answer
		}
	}
	return v
}

// Start handles POST /api/session
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if req.Kind == "" {
		req.Kind = models.SessionKindPractice
	}
	if req.Language == "" {
		req.Language = "en"
	}

	engine, err := h.sessions.StartSession(profileID, req.Kind, req.Language, req.Config)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, h.view(engine.Snapshot()))
}

// Current handles GET /api/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(engine *service.SessionEngine) error { return nil })
}

// Resume handles POST /api/session/resume, reloading a persisted
// session after a restart and reactivating a paused one.
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	engine, err := h.sessions.ResumeSession(profileID)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	if engine.Snapshot().State == models.SessionPaused {
		if err := engine.Resume(); err != nil {
			respondWithSessionError(w, err)
			return
		}
	}
	respondWithJSON(w, http.StatusOK, h.view(engine.Snapshot()))
}

type answerRequest struct {
	Answer int `json:"answer"`
}

// Answer handles POST /api/session/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	h.withEngine(w, r, func(engine *service.SessionEngine) error {
		return engine.SelectAnswer(req.Answer)
	})
}

// Advance handles POST /api/session/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(engine *service.SessionEngine) error { return engine.Advance() })
}

// Retreat handles POST /api/session/retreat
func (h *SessionHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(engine *service.SessionEngine) error { return engine.Retreat() })
}

type jumpRequest struct {
	Index int `json:"index"`
}

// Jump handles POST /api/session/jump
func (h *SessionHandler) Jump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	h.withEngine(w, r, func(engine *service.SessionEngine) error { return engine.JumpTo(req.Index) })
}

// Pause handles POST /api/session/pause
func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(engine *service.SessionEngine) error { return engine.Pause() })
}

// Complete handles POST /api/session/complete and returns the scored
// outcome.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	outcome, err := h.sessions.CompleteSession(profileID)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, outcome)
}

// Exit handles POST /api/session/exit
func (h *SessionHandler) Exit(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	if err := h.sessions.ExitSession(profileID); err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "exited"})
}

// withEngine runs op on the caller's engine and renders the resulting
// session view.
func (h *SessionHandler) withEngine(w http.ResponseWriter, r *http.Request, op func(*service.SessionEngine) error) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	engine, err := h.sessions.Engine(profileID)
	if err != nil {
		respondWithSessionError(w, err)
		return
	}
	if err := op(engine); err != nil {
		respondWithSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.view(engine.Snapshot()))
}
