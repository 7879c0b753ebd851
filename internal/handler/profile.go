package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devconnect/internal/httputil"
	"devconnect/internal/model"
	"devconnect/internal/service"
	"devconnect/internal/transport/http/middleware"
	"devconnect/internal/validation"
)

// Error payloads are part of the legacy API contract: single-key maps
// whose key names the clients switch on.
const (
	msgNoProfile       = "There is no profile for this user"
	msgNoProfiles      = "There are no profiles"
	msgHandleExists    = "That handle already exists"
	msgNoProfileForExp = "You do not have a profile to add an experience to."
	msgNoProfileForEdu = "You do not have a profile to add an education to."
	msgNoExperience    = "There is no experience with this ID"
	msgNoEducation     = "There is no education with this ID"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetCurrent returns the caller's own profile.
func (h *ProfileHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	profile, err := h.profileService.Current(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, model.ErrProfileNotFound) {
			log.Printf("[ERROR] GetCurrent handler: %v", err)
		}
		// Store errors collapse into the not-found payload, like the
		// legacy route did.
		httputil.WriteError(w, http.StatusNotFound, "noprofile", msgNoProfile)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetAll returns a paginated page of the public profile directory.
func (h *ProfileHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	page, err := h.profileService.All(r.Context(), skip, limit)
	if err != nil {
		log.Printf("[ERROR] GetAll handler: %v", err)
		httputil.WriteError(w, http.StatusNotFound, "noprofile", msgNoProfiles)
		return
	}

	httputil.WriteRawJSON(w, http.StatusOK, page)
}

// GetByHandle returns the profile owning a handle.
func (h *ProfileHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	profile, err := h.profileService.ByHandle(r.Context(), handle)
	if err != nil {
		if !errors.Is(err, model.ErrProfileNotFound) {
			log.Printf("[ERROR] GetByHandle handler: %v", err)
		}
		httputil.WriteError(w, http.StatusNotFound, "noprofile", msgNoProfile)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetByUser returns the profile for an arbitrary user id.
func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		// A malformed id looked like a store error to the legacy route.
		httputil.WriteError(w, http.StatusNotFound, "noprofile", msgNoProfile)
		return
	}

	profile, err := h.profileService.ByUserID(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, model.ErrProfileNotFound) {
			log.Printf("[ERROR] GetByUser handler: %v", err)
		}
		httputil.WriteError(w, http.StatusNotFound, "noprofile", msgNoProfile)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Upsert creates the caller's profile or updates it.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	var req model.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	if errs, ok := validation.Profile(req); !ok {
		httputil.WriteErrors(w, http.StatusBadRequest, errs)
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrHandleTaken) {
			httputil.WriteError(w, http.StatusBadRequest, "handle", msgHandleExists)
			return
		}
		log.Printf("[ERROR] Upsert handler: %v", err)
		httputil.WriteInternalError(w, "Failed to save profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// AddExperience appends a work-history entry to the caller's profile.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	var req model.ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	if errs, ok := validation.Experience(req); !ok {
		httputil.WriteErrors(w, http.StatusBadRequest, errs)
		return
	}

	profile, err := h.profileService.AddExperience(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteError(w, http.StatusBadRequest, "noprofile", msgNoProfileForExp)
			return
		}
		log.Printf("[ERROR] AddExperience handler: %v", err)
		httputil.WriteInternalError(w, "Failed to add experience")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// AddEducation appends a schooling entry to the caller's profile.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	var req model.EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	if errs, ok := validation.Education(req); !ok {
		httputil.WriteErrors(w, http.StatusBadRequest, errs)
		return
	}

	profile, err := h.profileService.AddEducation(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteError(w, http.StatusBadRequest, "noprofile", msgNoProfileForEdu)
			return
		}
		log.Printf("[ERROR] AddEducation handler: %v", err)
		httputil.WriteInternalError(w, "Failed to add education")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// RemoveExperience deletes one experience entry by id.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	profile, err := h.profileService.RemoveExperience(r.Context(), userID, chi.URLParam(r, "exp_id"))
	if err != nil {
		if errors.Is(err, model.ErrExperienceNotFound) || errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "error", msgNoExperience)
			return
		}
		log.Printf("[ERROR] RemoveExperience handler: %v", err)
		httputil.WriteInternalError(w, "Failed to remove experience")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// RemoveEducation deletes one education entry by id.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	profile, err := h.profileService.RemoveEducation(r.Context(), userID, chi.URLParam(r, "edu_id"))
	if err != nil {
		if errors.Is(err, model.ErrEducationNotFound) || errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "error", msgNoEducation)
			return
		}
		log.Printf("[ERROR] RemoveEducation handler: %v", err)
		httputil.WriteInternalError(w, "Failed to remove education")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// DeleteAccount removes the caller's profile and user record. Posts stay.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	if err := h.profileService.DeleteAccount(r.Context(), userID); err != nil {
		log.Printf("[ERROR] DeleteAccount handler: %v", err)
		httputil.WriteInternalError(w, "Failed to delete account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// parsePagination reads skip/limit query params. Absent or unparsable
// values mean no skip and no limit cap.
func parsePagination(r *http.Request) (skip, limit int) {
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v > 0 {
		skip = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}
