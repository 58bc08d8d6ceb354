package handlers

import (
	"encoding/json"
	"net/http"

	"cogniprep/internal/credentials"
	"cogniprep/internal/models"
	"cogniprep/internal/repository"
	"cogniprep/internal/security"
	"cogniprep/internal/utils"
)

// ProfileHandler manages profile creation and PIN login
type ProfileHandler struct {
	profiles *repository.ProfileRepository
	tokens   *security.TokenIssuer
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *repository.ProfileRepository, tokens *security.TokenIssuer) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, tokens: tokens}
}

type createProfileRequest struct {
	Name          string       `json:"name"`
	Level         models.Level `json:"level"`
	Language      string       `json:"language"`
	GuardianEmail string       `json:"guardian_email"`
}

type createProfileResponse struct {
	Profile *models.Profile `json:"profile"`
	// Handle and PIN are generated server side and shown exactly once
	Handle string `json:"handle"`
	PIN    string `json:"pin"`
}

// Create handles POST /api/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := utils.ValidateName(req.Name); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if !req.Level.IsValid() {
		respondWithError(w, http.StatusBadRequest, "invalid level", "", nil)
		return
	}
	if err := utils.ValidateGuardianEmail(req.GuardianEmail); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	handle, err := credentials.GenerateHandle()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to generate handle", err)
		return
	}
	// Retry on handle collision a few times before giving up
	for attempts := 0; attempts < 5; attempts++ {
		existing, err := h.profiles.GetProfileByHandle(handle)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error", "failed to check handle", err)
			return
		}
		if existing == nil {
			break
		}
		if handle, err = credentials.GenerateHandle(); err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error", "failed to generate handle", err)
			return
		}
	}

	pin, err := credentials.GeneratePIN()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to generate PIN", err)
		return
	}
	pinHash, err := security.HashPIN(pin)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to hash PIN", err)
		return
	}

	profile, err := h.profiles.CreateProfile(req.Name, handle, pinHash, req.Level, req.Language, req.GuardianEmail)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to create profile", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, createProfileResponse{
		Profile: profile,
		Handle:  handle,
		PIN:     pin,
	})
}

type loginRequest struct {
	Handle string `json:"handle"`
	PIN    string `json:"pin"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Login handles POST /api/login
func (h *ProfileHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	if err := utils.ValidatePIN(req.PIN); err != nil {
		respondWithError(w, http.StatusUnauthorized, "invalid handle or PIN", "", nil)
		return
	}

	profile, err := h.profiles.GetProfileByHandle(req.Handle)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to load profile", err)
		return
	}
	if profile == nil || !security.CheckPIN(req.PIN, profile.PINHash) {
		respondWithError(w, http.StatusUnauthorized, "invalid handle or PIN", "", nil)
		return
	}

	token, err := h.tokens.Issue(profile.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to issue token", err)
		return
	}
	respondWithJSON(w, http.StatusOK, loginResponse{Token: token, Profile: profile})
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	profile, err := h.profiles.GetProfileByID(profileID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to load profile", err)
		return
	}
	if profile == nil {
		respondWithError(w, http.StatusNotFound, "profile not found", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name          string       `json:"name"`
	Level         models.Level `json:"level"`
	Language      string       `json:"language"`
	GuardianEmail string       `json:"guardian_email"`
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profileIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated", "", nil)
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if err := utils.ValidateName(req.Name); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if !req.Level.IsValid() {
		respondWithError(w, http.StatusBadRequest, "invalid level", "", nil)
		return
	}
	if err := utils.ValidateGuardianEmail(req.GuardianEmail); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if err := h.profiles.UpdateProfile(profileID, req.Name, req.Level, req.Language, req.GuardianEmail); err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error", "failed to update profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
