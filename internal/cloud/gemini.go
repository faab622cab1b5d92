package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamyoo/atomic-router/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Result is the cloud adapter's output. TotalTimeMs covers the whole
// attempt including the single retry.
type Result struct {
	FunctionCalls []domain.FunctionCall
	TotalTimeMs   float64
}

// GeminiClient generates function calls through the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	model      string
	retryDelay time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Config holds the Gemini adapter settings.
type Config struct {
	APIKey     string
	Model      string
	RetryDelay time.Duration
	// RPS and Burst bound outbound request rate.
	RPS   float64
	Burst int
}

// NewGeminiClient builds the cloud adapter. Construction fails only when
// the underlying client cannot be created; per-call failures degrade to
// empty results.
func NewGeminiClient(ctx context.Context, cfg Config, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &GeminiClient{
		client:     client,
		model:      cfg.Model,
		retryDelay: cfg.RetryDelay,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}, nil
}

// Generate sends the full message list and tool declarations to Gemini and
// collects the returned function calls. A failed request is retried once
// after the configured delay; a second failure returns an empty result.
func (c *GeminiClient) Generate(ctx context.Context, messages []domain.Message, tools []domain.Tool, systemInstruction string) Result {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn("cloud rate limiter aborted", zap.Error(err))
		return Result{FunctionCalls: []domain.FunctionCall{}, TotalTimeMs: elapsedMs(start)}
	}

	var contents []*genai.Content
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FunctionDeclarations: declarations(tools)}},
	}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.logger.Warn("cloud generate failed, retrying once",
			zap.String("model", c.model),
			zap.Error(err),
		)
		time.Sleep(c.retryDelay)
		resp, err = c.client.Models.GenerateContent(ctx, c.model, contents, config)
		if err != nil {
			c.logger.Error("cloud generate failed after retry", zap.Error(err))
			return Result{FunctionCalls: []domain.FunctionCall{}, TotalTimeMs: elapsedMs(start)}
		}
	}

	var calls []domain.FunctionCall
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.FunctionCall == nil {
				continue
			}
			calls = append(calls, domain.FunctionCall{
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			})
		}
	}
	if calls == nil {
		calls = []domain.FunctionCall{}
	}

	return Result{FunctionCalls: calls, TotalTimeMs: elapsedMs(start)}
}

// declarations converts router tool schemas to Gemini declarations.
func declarations(tools []domain.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		properties := make(map[string]*genai.Schema, len(t.Parameters.Properties))
		for name, prop := range t.Parameters.Properties {
			properties[name] = &genai.Schema{
				Type:        schemaType(prop.Type),
				Description: prop.Description,
			}
		}
		decls[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   t.Parameters.Required,
			},
		}
	}
	return decls
}

func schemaType(t string) genai.Type {
	switch strings.ToLower(t) {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
