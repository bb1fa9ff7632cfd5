package handlers

import (
	"net/http"
	"time"

	"inspiration-backend/application/services"
	"inspiration-backend/domain/core/entities"
	"inspiration-backend/pkg/common"
	pkgerrors "inspiration-backend/pkg/errors"
	"inspiration-backend/pkg/observability"
	"inspiration-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// InspirationHandler handles inspiration and tag HTTP requests
type InspirationHandler struct {
	store    *services.ContentStore
	metrics  *observability.Collector
	errors   *pkgerrors.ErrorHandler
	location *time.Location
	logger   *zap.Logger
}

// NewInspirationHandler creates a new inspiration handler. Date filters are
// parsed in location.
func NewInspirationHandler(
	store *services.ContentStore,
	metrics *observability.Collector,
	errorHandler *pkgerrors.ErrorHandler,
	location *time.Location,
	logger *zap.Logger,
) *InspirationHandler {
	if location == nil {
		location = time.Local
	}
	return &InspirationHandler{
		store:    store,
		metrics:  metrics,
		errors:   errorHandler,
		location: location,
		logger:   logger,
	}
}

// CreateInspirationRequest represents the request body for creating an inspiration
type CreateInspirationRequest struct {
	Title   string   `json:"title,omitempty" validate:"max=200"`
	Content string   `json:"content,omitempty"`
	Type    string   `json:"type,omitempty" validate:"omitempty,oneof=text image"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50"`
}

// UpdateInspirationRequest represents the request body for updating an inspiration
type UpdateInspirationRequest struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Content *string   `json:"content,omitempty"`
	Type    *string   `json:"type,omitempty" validate:"omitempty,oneof=text image"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50"`
}

// TagsResponse lists the tag index and per-tag usage
type TagsResponse struct {
	Tags   []string            `json:"tags"`
	Counts []entities.TagCount `json:"counts"`
}

// ListInspirations handles GET /inspirations with optional tag, date
// (YYYY-MM-DD) and pagination filters
func (h *InspirationHandler) ListInspirations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var items []entities.Inspiration
	if date := query.Get("date"); date != "" {
		day, err := time.ParseInLocation(time.DateOnly, date, h.location)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("date must be formatted as YYYY-MM-DD"))
			return
		}
		items = h.store.GetByDate(day)
	} else {
		items = h.store.All()
	}

	if tag := query.Get("tag"); tag != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.HasTag(tag) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	page, meta := common.Paginate(items, common.ExtractPaginationParams(r))
	common.RespondWithMeta(w, http.StatusOK, page, &common.MetaInfo{Pagination: meta})
}

// CreateInspiration handles POST /inspirations
func (h *InspirationHandler) CreateInspiration(w http.ResponseWriter, r *http.Request) {
	var req CreateInspirationRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	res, err := h.store.Add(r.Context(), entities.InspirationDraft{
		Title:   req.Title,
		Content: req.Content,
		Type:    entities.InspirationType(req.Type),
		Tags:    req.Tags,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.metrics.RecordInspirationOp("add", string(res.Status))
	common.RespondWithMeta(w, http.StatusCreated, res.Value, &common.MetaInfo{Persistence: string(res.Status)})
}

// GetInspiration handles GET /inspirations/{id}
func (h *InspirationHandler) GetInspiration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, ok := h.store.GetByID(id)
	if !ok {
		h.errors.Handle(w, r, pkgerrors.NewNotFoundError("inspiration").WithDetails(map[string]interface{}{"id": id}))
		return
	}

	common.RespondJSON(w, http.StatusOK, item)
}

// UpdateInspiration handles PUT /inspirations/{id}
func (h *InspirationHandler) UpdateInspiration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateInspirationRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	patch := entities.InspirationPatch{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Type != nil {
		kind := entities.InspirationType(*req.Type)
		patch.Type = &kind
	}
	if patch.IsEmpty() {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("no fields to update"))
		return
	}

	res, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.metrics.RecordInspirationOp("update", string(res.Status))
	common.RespondWithMeta(w, http.StatusOK, res.Value, &common.MetaInfo{Persistence: string(res.Status)})
}

// DeleteInspiration handles DELETE /inspirations/{id}
func (h *InspirationHandler) DeleteInspiration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Info("Inspiration deleted", zap.String("id", id))
	h.metrics.RecordInspirationOp("delete", string(res.Status))
	common.RespondWithMeta(w, http.StatusOK, res.Value, &common.MetaInfo{Persistence: string(res.Status)})
}

// ListTags handles GET /tags
func (h *InspirationHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	resp := TagsResponse{
		Tags:   h.store.Tags(),
		Counts: h.store.TagCounts(),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.Counts == nil {
		resp.Counts = []entities.TagCount{}
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
