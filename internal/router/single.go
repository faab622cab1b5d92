package router

import (
	"context"

	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/extract"
	"go.uber.org/zap"
)

// routeSingle handles a one-intent request: on-device model first, then
// deterministic extraction, then one fresh-model retry, then the cloud.
func (r *Router) routeSingle(ctx context.Context, messages []domain.Message, tools []domain.Tool, userText string, intents int) ([]trackedCall, float64, bool) {
	narrowed := extract.Narrow(userText, tools)
	bestTool := ""
	if len(narrowed) == 1 {
		bestTool = narrowed[0].Name
	}

	var totalMs float64

	local := r.localCall(ctx, messages, narrowed)
	totalMs += local.TotalTimeMs
	if r.accept.Accept(ctx, local, tools, intents) {
		r.logger.Debug("local result accepted",
			zap.Float64("confidence", local.Confidence),
		)
		return track(domain.ValidCalls(local.FunctionCalls, tools), userText), totalMs, false
	}

	if bestTool != "" {
		if manual, ok := extract.Manual(userText, bestTool); ok && domain.ValidCall(manual, tools) {
			r.logger.Info("deterministic extraction succeeded",
				zap.String("tool", bestTool),
			)
			return []trackedCall{{call: manual, origin: userText}}, totalMs, false
		}
	}

	// Completions are not deterministic; one retry on a fresh handle is
	// cheaper than the cloud.
	if err := r.model.Fresh(ctx); err != nil {
		r.logger.Warn("failed to refresh model handle for retry", zap.Error(err))
	}
	retry := r.localCall(ctx, messages, narrowed)
	totalMs += retry.TotalTimeMs
	if r.accept.Accept(ctx, retry, tools, intents) {
		r.logger.Debug("local retry accepted",
			zap.Float64("confidence", retry.Confidence),
		)
		return track(domain.ValidCalls(retry.FunctionCalls, tools), userText), totalMs, false
	}

	r.logger.Info("local path exhausted, falling back to cloud")
	res := r.cloudCall(ctx, messages, tools)
	totalMs += res.TotalTimeMs
	return track(res.FunctionCalls, userText), totalMs, true
}
