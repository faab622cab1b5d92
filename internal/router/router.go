package router

import (
	"context"
	"time"

	"github.com/teamyoo/atomic-router/internal/cloud"
	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/eval/template"
	"github.com/teamyoo/atomic-router/internal/extract"
	"github.com/teamyoo/atomic-router/internal/intent"
	"github.com/teamyoo/atomic-router/internal/localmodel"
	"go.uber.org/zap"
)

// ModelManager is the on-device model lifecycle the router drives: a fresh
// handle per top-level call and before retries, a reset before every
// sub-call.
type ModelManager interface {
	Fresh(ctx context.Context) error
	Reset(ctx context.Context) error
	Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts localmodel.Options) (string, error)
}

// CloudGenerator is the remote fallback boundary. Implementations never
// return an error; a failed attempt yields an empty result.
type CloudGenerator interface {
	Generate(ctx context.Context, messages []domain.Message, tools []domain.Tool, systemInstruction string) cloud.Result
}

// Config carries the router's tunables.
type Config struct {
	// AcceptConfidence is the minimum on-device confidence for a local
	// result to be trusted. AcceptRule, when set, replaces the threshold
	// comparison with a CEL expression over the result.
	AcceptConfidence float64
	AcceptRule       string

	LocalTimeout time.Duration
	CloudTimeout time.Duration

	LocalMaxTokens     int
	LocalTemperature   float64
	LocalStopSequences []string

	// Handlebars templates for the model system prompts. Rendered per call
	// with tool_names and tool_count.
	LocalSystemTemplate string
	CloudSystemTemplate string
}

// Router routes one request at a time through the hybrid pipeline.
type Router struct {
	model     ModelManager
	cloud     CloudGenerator
	accept    *acceptPolicy
	templates *template.Engine
	cfg       Config
	logger    *zap.Logger
}

// New creates a router. cloudClient may be nil; the cloud stage then
// degrades to an empty result.
func New(model ModelManager, cloudClient CloudGenerator, cfg Config, logger *zap.Logger) *Router {
	return &Router{
		model:     model,
		cloud:     cloudClient,
		accept:    newAcceptPolicy(cfg.AcceptConfidence, cfg.AcceptRule, logger),
		templates: template.NewEngine(),
		cfg:       cfg,
		logger:    logger,
	}
}

// trackedCall pairs a call with the text it was extracted from, so argument
// repair runs against the right scope: the atomic part for multi-intent
// calls, the whole request otherwise.
type trackedCall struct {
	call   domain.FunctionCall
	origin string
}

// Route executes the full state machine for one request and always returns
// a RouteResult, possibly with zero calls.
func (r *Router) Route(ctx context.Context, messages []domain.Message, tools []domain.Tool) domain.RouteResult {
	userText := domain.UserText(messages)
	intents := intent.Count(userText)

	r.logger.Info("routing request",
		zap.Int("intents", intents),
		zap.Int("tools", len(tools)),
	)

	// Fresh handle per top-level call so no session state bleeds across
	// logically independent requests.
	if err := r.model.Fresh(ctx); err != nil {
		r.logger.Warn("failed to refresh model handle", zap.Error(err))
	}

	var (
		tracked   []trackedCall
		totalMs   float64
		usedCloud bool
	)
	if intents >= 2 {
		tracked, totalMs, usedCloud = r.routeMulti(ctx, messages, tools, userText, intents)
	} else {
		tracked, totalMs, usedCloud = r.routeSingle(ctx, messages, tools, userText, intents)
	}

	calls := make([]domain.FunctionCall, 0, len(tracked))
	for _, tc := range tracked {
		calls = append(calls, extract.Postprocess(tc.call, tc.origin))
	}
	calls = domain.Dedupe(calls)

	source := domain.SourceOnDevice
	confidence := 1.0
	if usedCloud {
		source = domain.SourceCloud
		confidence = 0.0
	}

	r.logger.Info("routing decision",
		zap.String("source", source),
		zap.Int("calls", len(calls)),
		zap.Float64("total_time_ms", totalMs),
	)

	return domain.RouteResult{
		FunctionCalls: calls,
		TotalTimeMs:   totalMs,
		Source:        source,
		Confidence:    confidence,
	}
}

// localCall resets the shared handle and runs one on-device completion.
// Any adapter failure decodes to a hard local failure, never an error.
func (r *Router) localCall(ctx context.Context, messages []domain.Message, tools []domain.Tool) domain.LocalResult {
	if err := r.model.Reset(ctx); err != nil {
		r.logger.Warn("model reset failed", zap.Error(err))
		return domain.LocalResult{CloudHandoff: true}
	}

	preamble := r.renderSystem(r.cfg.LocalSystemTemplate, tools)
	full := append([]domain.Message{{Role: domain.RoleSystem, Content: preamble}}, messages...)

	cctx, cancel := context.WithTimeout(ctx, r.cfg.LocalTimeout)
	defer cancel()

	raw, err := r.model.Complete(cctx, full, tools, localmodel.Options{
		ForceTools:    true,
		Temperature:   r.cfg.LocalTemperature,
		MaxTokens:     r.cfg.LocalMaxTokens,
		StopSequences: r.cfg.LocalStopSequences,
	})
	if err != nil {
		r.logger.Warn("on-device completion failed", zap.Error(err))
		return domain.LocalResult{CloudHandoff: true}
	}
	return localmodel.DecodeResult(raw)
}

// cloudCall invokes the cloud fallback with the complete original message
// list. A missing cloud client degrades to an empty result.
func (r *Router) cloudCall(ctx context.Context, messages []domain.Message, tools []domain.Tool) cloud.Result {
	if r.cloud == nil {
		r.logger.Warn("cloud client not configured, returning empty result")
		return cloud.Result{FunctionCalls: []domain.FunctionCall{}}
	}

	instruction := r.renderSystem(r.cfg.CloudSystemTemplate, tools)

	cctx, cancel := context.WithTimeout(ctx, r.cfg.CloudTimeout)
	defer cancel()
	return r.cloud.Generate(cctx, messages, tools, instruction)
}

// renderSystem renders a system prompt template with the candidate tools.
// A broken template degrades to its raw text.
func (r *Router) renderSystem(tmpl string, tools []domain.Tool) string {
	names := make([]interface{}, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	out, err := r.templates.Render(tmpl, map[string]interface{}{
		"tool_names": names,
		"tool_count": len(tools),
	})
	if err != nil {
		r.logger.Warn("system template render failed", zap.Error(err))
		return tmpl
	}
	return out
}

// track wraps calls with a shared originating text.
func track(calls []domain.FunctionCall, origin string) []trackedCall {
	tracked := make([]trackedCall, 0, len(calls))
	for _, c := range calls {
		tracked = append(tracked, trackedCall{call: c, origin: origin})
	}
	return tracked
}
