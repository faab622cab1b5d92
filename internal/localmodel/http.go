package localmodel

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"github.com/teamyoo/atomic-router/internal/domain"
	"go.uber.org/zap"
)

// HTTPRuntime talks to a local inference sidecar over HTTP. The sidecar
// loads the weights once per handle and answers completions with the raw
// result envelope as text.
type HTTPRuntime struct {
	client *req.Client
	handle string
	logger *zap.Logger
}

// NewHTTPRuntime creates a runtime client against baseURL. The timeout
// bounds each sidecar request, not the whole routing call.
func NewHTTPRuntime(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPRuntime {
	return &HTTPRuntime{
		client: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		logger: logger,
	}
}

type initRequest struct {
	WeightsPath string `json:"weights_path"`
}

type initResponse struct {
	Handle string `json:"handle"`
}

// wireTool is the {"type":"function","function":{...}} wrapper the runtime
// expects around each schema.
type wireTool struct {
	Type     string      `json:"type"`
	Function domain.Tool `json:"function"`
}

type completionRequest struct {
	Messages      []domain.Message `json:"messages"`
	Tools         []wireTool       `json:"tools"`
	ForceTools    bool             `json:"force_tools"`
	Temperature   float64          `json:"temperature"`
	MaxTokens     int              `json:"max_tokens"`
	StopSequences []string         `json:"stop_sequences"`
}

// Init loads the weights and stores the sidecar's handle id.
func (r *HTTPRuntime) Init(ctx context.Context, weightsPath string) error {
	var out initResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(initRequest{WeightsPath: weightsPath}).
		SetSuccessResult(&out).
		Post("/v1/models")
	if err != nil {
		return fmt.Errorf("runtime init request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("runtime init returned %s", resp.Status)
	}
	if out.Handle == "" {
		return fmt.Errorf("runtime init returned no handle")
	}
	r.handle = out.Handle
	r.logger.Debug("runtime handle created", zap.String("handle", r.handle))
	return nil
}

// Reset clears the handle's session and cache state.
func (r *HTTPRuntime) Reset(ctx context.Context) error {
	if r.handle == "" {
		return fmt.Errorf("runtime not initialized")
	}
	resp, err := r.client.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/v1/models/%s/reset", r.handle))
	if err != nil {
		return fmt.Errorf("runtime reset request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("runtime reset returned %s", resp.Status)
	}
	return nil
}

// Complete runs one completion and returns the response body verbatim. The
// body is expected to be the result envelope but is returned untouched so
// the decoder can salvage noisy output.
func (r *HTTPRuntime) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts Options) (string, error) {
	if r.handle == "" {
		return "", fmt.Errorf("runtime not initialized")
	}

	wrapped := make([]wireTool, len(tools))
	for i, t := range tools {
		wrapped[i] = wireTool{Type: "function", Function: t}
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Messages:      messages,
			Tools:         wrapped,
			ForceTools:    opts.ForceTools,
			Temperature:   opts.Temperature,
			MaxTokens:     opts.MaxTokens,
			StopSequences: opts.StopSequences,
		}).
		Post(fmt.Sprintf("/v1/models/%s/completion", r.handle))
	if err != nil {
		return "", fmt.Errorf("runtime completion request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return "", fmt.Errorf("runtime completion returned %s", resp.Status)
	}
	return resp.String(), nil
}

// Destroy releases the sidecar handle.
func (r *HTTPRuntime) Destroy(ctx context.Context) error {
	if r.handle == "" {
		return nil
	}
	handle := r.handle
	r.handle = ""
	resp, err := r.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/v1/models/%s", handle))
	if err != nil {
		return fmt.Errorf("runtime destroy request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("runtime destroy returned %s", resp.Status)
	}
	return nil
}
