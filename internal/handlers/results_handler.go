package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
	"cogniprep/internal/service"
)

const defaultHistoryLimit = 50

// ResultsHandler serves history, progress, weak areas and settings
type ResultsHandler struct {
	results  *repository.ResultRepository
	progress *service.ProgressService
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(results *repository.ResultRepository, progress *service.ProgressService) *ResultsHandler {
	return &ResultsHandler{results: results, progress: progress}
}

func historyLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultHistoryLimit
}

// TestResults handles GET /api/results/tests
func (h *ResultsHandler) TestResults(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	results, err := h.results.GetTestResults(profileID, historyLimit(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to load test results", err)
		return
	}
	if results == nil {
		results = []models.TestResult{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// PracticeResults handles GET /api/results/practice
func (h *ResultsHandler) PracticeResults(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	results, err := h.results.GetPracticeResults(profileID, historyLimit(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to load practice results", err)
		return
	}
	if results == nil {
		results = []models.PracticeResult{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// Progress handles GET /api/progress
func (h *ResultsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	progress, err := h.progress.GetProgress(profileID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to load progress", err)
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}

// WeakAreas handles GET /api/weak-areas
func (h *ResultsHandler) WeakAreas(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	areas, err := h.progress.WeakAreas(profileID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to analyze weak areas", err)
		return
	}
	if areas == nil {
		areas = []models.WeakArea{}
	}
	respondWithJSON(w, http.StatusOK, areas)
}

// GetSettings handles GET /api/settings
func (h *ResultsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	settings, err := h.progress.GetSettings(profileID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to load settings", err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// SaveSettings handles PUT /api/settings
func (h *ResultsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := h.progress.SaveSettings(profileID, settings); err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to save settings", err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}
