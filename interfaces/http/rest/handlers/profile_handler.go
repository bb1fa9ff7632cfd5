package handlers

import (
	"net/http"

	"inspiration-backend/application/services"
	"inspiration-backend/domain/core/entities"
	"inspiration-backend/pkg/common"
	pkgerrors "inspiration-backend/pkg/errors"
	"inspiration-backend/pkg/observability"
	"inspiration-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileHandler handles profile, preference and gamification requests
type ProfileHandler struct {
	store   *services.ProfileStore
	metrics *observability.Collector
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	store *services.ProfileStore,
	metrics *observability.Collector,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		store:   store,
		metrics: metrics,
		errors:  errorHandler,
		logger:  logger,
	}
}

// UpdateProfileRequest represents the request body for updating identity fields
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty" validate:"max=100"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
}

// UnlockAchievementRequest represents the request body for unlocking an achievement
type UnlockAchievementRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// AddPointsRequest represents the request body for adding points
type AddPointsRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason" validate:"required"`
}

// SetLevelRequest represents the request body for setting the level
type SetLevelRequest struct {
	Level *int `json:"level" validate:"required"`
}

// UnlockAchievementResponse reports whether the unlock was new
type UnlockAchievementResponse struct {
	Unlocked bool                 `json:"unlocked"`
	Profile  entities.UserProfile `json:"profile"`
}

// CompleteTaskResponse reports whether the task was newly completed
type CompleteTaskResponse struct {
	Completed bool                 `json:"completed"`
	Profile   entities.UserProfile `json:"profile"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// UpdateProfile handles PATCH /profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile := h.store.UpdateProfile(entities.ProfilePatch{
		Name:   req.Name,
		Avatar: req.Avatar,
		Email:  req.Email,
	})
	common.RespondJSON(w, http.StatusOK, profile)
}

// UpdatePreferences handles PATCH /profile/preferences
func (h *ProfileHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs entities.Preferences
	if err := common.ParseJSONBody(w, r, &prefs, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	res := h.store.UpdatePreferences(r.Context(), prefs)
	h.metrics.RecordPreferencesWrite(string(res.Status))
	common.RespondWithMeta(w, http.StatusOK, res.Value, &common.MetaInfo{Persistence: string(res.Status)})
}

// UnlockAchievement handles POST /profile/achievements
func (h *ProfileHandler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	var req UnlockAchievementRequest
	if !h.decode(w, r, &req) {
		return
	}

	before := h.store.Snapshot().Points
	unlocked := h.store.UnlockAchievement(entities.Achievement{ID: req.ID, Name: req.Name})
	profile := h.store.Snapshot()
	if unlocked {
		h.metrics.RecordAchievement()
		h.metrics.RecordPoints(profile.Points - before)
	}
	common.RespondJSON(w, http.StatusOK, UnlockAchievementResponse{
		Unlocked: unlocked,
		Profile:  profile,
	})
}

// CompleteOnboarding handles POST /profile/onboarding
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	before := h.store.Snapshot().Points
	h.store.CompleteOnboarding()
	profile := h.store.Snapshot()
	h.metrics.RecordPoints(profile.Points - before)
	common.RespondJSON(w, http.StatusOK, profile)
}

// AddPoints handles POST /profile/points
func (h *ProfileHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req AddPointsRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.store.AddPoints(req.Amount, req.Reason)
	h.metrics.RecordPoints(req.Amount)
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// SetLevel handles PUT /profile/level
func (h *ProfileHandler) SetLevel(w http.ResponseWriter, r *http.Request) {
	var req SetLevelRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.store.SetLevel(*req.Level)
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// CompleteTask handles POST /profile/tasks/{taskID}
func (h *ProfileHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("task ID is required"))
		return
	}

	completed := h.store.CompleteTask(taskID)
	common.RespondJSON(w, http.StatusOK, CompleteTaskResponse{
		Completed: completed,
		Profile:   h.store.Snapshot(),
	})
}

// decode parses and validates the body into v, writing the error response
// itself when it fails
func (h *ProfileHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return false
	}
	return true
}
