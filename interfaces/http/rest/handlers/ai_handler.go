package handlers

import (
	"encoding/json"
	"net/http"

	"inspiration-backend/infrastructure/ai"
	"inspiration-backend/pkg/common"
	pkgerrors "inspiration-backend/pkg/errors"
	"inspiration-backend/pkg/observability"

	"go.uber.org/zap"
)

// missingPromptMessage is returned verbatim to clients that omit the prompt
const missingPromptMessage = "缺少必要参数 'prompt'"

// AIHandler serves the AI gateway endpoints. Responses are unwrapped JSON so
// the gateway stays wire-compatible with existing clients.
type AIHandler struct {
	synthesizer ai.ImageSynthesizer
	defaultSize string
	metrics     *observability.Collector
	logger      *zap.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(
	synthesizer ai.ImageSynthesizer,
	defaultSize string,
	metrics *observability.Collector,
	logger *zap.Logger,
) *AIHandler {
	return &AIHandler{
		synthesizer: synthesizer,
		defaultSize: defaultSize,
		metrics:     metrics,
		logger:      logger,
	}
}

// GenerateImageRequest represents the request body for image generation.
// Prompt is a pointer so an explicit empty prompt can be told apart from a
// missing one.
type GenerateImageRequest struct {
	Prompt *string `json:"prompt"`
	Size   string  `json:"size,omitempty"`
}

// ConfigResponse tells clients which features are enabled
type ConfigResponse struct {
	AIEnabled bool `json:"aiEnabled"`
}

// HealthResponse reports gateway health
type HealthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

type errorBody struct {
	Error string `json:"error"`
}

// GetConfig handles GET /api/config
func (h *AIHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, ConfigResponse{AIEnabled: h.synthesizer.Enabled()})
}

// Health handles GET /api/ai/health
func (h *AIHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		APIKeyConfigured: h.synthesizer.Enabled(),
	})
}

// GenerateImage handles POST /api/ai/generate-image
func (h *AIHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == nil {
		common.WriteJSON(w, http.StatusBadRequest, errorBody{Error: missingPromptMessage})
		return
	}

	size := req.Size
	if size == "" {
		size = h.defaultSize
	}

	result, err := h.synthesizer.Synthesize(r.Context(), *req.Prompt, size)
	if err != nil {
		h.logger.Error("Image generation failed",
			zap.String("size", size),
			zap.Error(err),
		)
		status := http.StatusInternalServerError
		if pkgerrors.IsUnavailable(err) {
			status = http.StatusServiceUnavailable
		}
		h.metrics.RecordImageRequest("error")
		common.WriteJSON(w, status, errorBody{Error: err.Error()})
		return
	}

	h.metrics.RecordImageRequest("ok")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result)
}
