package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "inspiration-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultDashScopeURL is the DashScope text-to-image synthesis endpoint
const DefaultDashScopeURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/image-generation/image-synthesis"

// ImageSynthesizer produces images from text prompts
type ImageSynthesizer interface {
	// Enabled reports whether the synthesizer has credentials
	Enabled() bool
	// Synthesize returns the upstream JSON result for prompt
	Synthesize(ctx context.Context, prompt, size string) (json.RawMessage, error)
}

// BreakerConfig holds the circuit breaker settings for the upstream
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used in production
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// DashScope calls Alibaba Cloud DashScope image synthesis behind a circuit
// breaker.
type DashScope struct {
	apiKey     string
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewDashScope creates a synthesizer. An empty apiKey yields a synthesizer
// whose Enabled reports false and whose calls fail as unavailable.
func NewDashScope(apiKey, url string, httpClient *http.Client, breakerCfg BreakerConfig, logger *zap.Logger) *DashScope {
	if url == "" {
		url = DefaultDashScopeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &DashScope{
		apiKey:     apiKey,
		url:        url,
		httpClient: httpClient,
		logger:     logger,
	}
	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dashscope",
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return d
}

// Enabled reports whether an API key is configured
func (d *DashScope) Enabled() bool {
	return d.apiKey != ""
}

type synthesisRequest struct {
	Input synthesisInput `json:"input"`
}

type synthesisInput struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// Synthesize posts prompt to DashScope and returns its JSON response
func (d *DashScope) Synthesize(ctx context.Context, prompt, size string) (json.RawMessage, error) {
	if !d.Enabled() {
		return nil, pkgerrors.NewUnavailableError("dashscope").WithDetails(map[string]interface{}{
			"reason": "DASHSCOPE_API_KEY 环境变量未设置",
		})
	}

	result, err := d.breaker.Execute(func() (interface{}, error) {
		return d.do(ctx, prompt, size)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			d.logger.Warn("Circuit breaker rejected image synthesis", zap.Error(err))
			return nil, pkgerrors.NewUnavailableError("dashscope").WithCause(err)
		}
		d.logger.Error("Image synthesis request failed", zap.Error(err))
		return nil, err
	}
	return result.(json.RawMessage), nil
}

func (d *DashScope) do(ctx context.Context, prompt, size string) (json.RawMessage, error) {
	body, err := json.Marshal(synthesisRequest{Input: synthesisInput{Prompt: prompt, Size: size}})
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to create request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("dashscope request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("failed to read dashscope response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.NewExternalError("dashscope", fmt.Errorf("status %d: %s", resp.StatusCode, string(data))).
			WithDetails(map[string]interface{}{"status": resp.StatusCode})
	}
	if !json.Valid(data) {
		return nil, pkgerrors.NewExternalError("dashscope", errors.New("response is not valid JSON"))
	}
	return json.RawMessage(data), nil
}
