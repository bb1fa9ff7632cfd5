package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"inspiration-backend/domain/config"
	pkgerrors "inspiration-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	generateImagePath = "/api/ai/generate-image"
	configPath        = "/api/config"
)

// Client calls the AI gateway. It holds no state between calls and never
// retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the gateway at baseURL. An empty baseURL
// issues same-origin relative requests, which only works behind a proxy that
// rewrites them, so callers normally pass one.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type configResponse struct {
	AIEnabled bool `json:"aiEnabled"`
}

// GenerateImage asks the gateway for an image and returns the response body
// unmodified. size defaults to 1024x1024.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) (json.RawMessage, error) {
	if size == "" {
		size = config.DefaultDomainConfig().DefaultImageSize
	}

	body, err := json.Marshal(generateImageRequest{Prompt: prompt, Size: size})
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generateImagePath, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to generate image", zap.Error(err))
		return nil, pkgerrors.NewNetworkError("image generation request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := pkgerrors.NewRequestFailedError(resp.StatusCode)
		c.logger.Error("Failed to generate image",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to generate image", zap.Error(err))
		return nil, pkgerrors.NewNetworkError("failed to read image generation response", err)
	}
	if !json.Valid(data) {
		err := pkgerrors.NewExternalError("ai-gateway", pkgerrors.NewValidationError("response is not valid JSON"))
		c.logger.Error("Failed to generate image", zap.Error(err))
		return nil, err
	}
	return json.RawMessage(data), nil
}

// CheckAvailability reports whether the gateway has AI features enabled.
// Every failure is logged and reported as unavailable.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+configPath, nil)
	if err != nil {
		c.logger.Error("Failed to check AI availability", zap.Error(err))
		return false
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to check AI availability", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	var cfg configResponse
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		c.logger.Error("Failed to check AI availability",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return false
	}
	return cfg.AIEnabled
}
