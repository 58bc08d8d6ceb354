package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cogniprep/internal/repository"
	"cogniprep/internal/service"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}
	respondWithJSON(w, status, map[string]string{"error": userMsg})
}

// respondWithSessionError maps engine sentinel errors onto HTTP status
// codes. Lifecycle violations are client errors, not server faults.
func respondWithSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrSessionInProgress),
		errors.Is(err, service.ErrSessionCompleted),
		errors.Is(err, service.ErrSessionNotActive),
		errors.Is(err, service.ErrSessionNotPaused),
		errors.Is(err, service.ErrSessionNotStarted),
		errors.Is(err, service.ErrSessionAlreadyStarted):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrBackwardNavigationNotAllowed),
		errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrAnswerOutOfRange),
		errors.Is(err, repository.ErrUnknownLevel):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error", "session operation failed", err)
	}
}
