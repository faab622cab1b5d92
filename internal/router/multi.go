package router

import (
	"context"

	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/extract"
	"github.com/teamyoo/atomic-router/internal/intent"
	"go.uber.org/zap"
)

// routeMulti handles a request with two or more counted intents: decompose
// into atomic parts, route each part locally, and either commit all local
// results or abandon the whole attempt and call the cloud once with the
// full original context. Partial local commits never happen.
func (r *Router) routeMulti(ctx context.Context, messages []domain.Message, tools []domain.Tool, userText string, intents int) ([]trackedCall, float64, bool) {
	parts := intent.Decompose(userText, intents)
	if len(parts) < 2 {
		r.logger.Debug("decomposition failed, using single-intent flow on whole text")
		return r.routeSingle(ctx, messages, tools, userText, intents)
	}

	r.logger.Debug("decomposed request",
		zap.Int("parts", len(parts)),
	)

	// Pronoun recipients in later parts refer back to names mentioned
	// earlier, so nouns come from the full text.
	properNouns := extract.ProperNouns(userText)

	var (
		localCalls []trackedCall
		totalMs    float64
	)
	allGood := true

	for _, part := range parts {
		partMessages := []domain.Message{{Role: domain.RoleUser, Content: part}}
		narrowed := extract.Narrow(part, tools)
		bestTool := ""
		if len(narrowed) == 1 {
			bestTool = narrowed[0].Name
		}

		if err := r.model.Fresh(ctx); err != nil {
			r.logger.Warn("failed to refresh model handle for part", zap.Error(err))
		}
		local := r.localCall(ctx, partMessages, narrowed)
		totalMs += local.TotalTimeMs

		if r.accept.Accept(ctx, local, tools, 1) {
			for _, c := range domain.ValidCalls(local.FunctionCalls, tools) {
				localCalls = append(localCalls, trackedCall{
					call:   resolveRecipient(c, properNouns),
					origin: part,
				})
			}
			continue
		}

		if bestTool != "" {
			if manual, ok := extract.Manual(part, bestTool); ok && domain.ValidCall(manual, tools) {
				localCalls = append(localCalls, trackedCall{
					call:   resolveRecipient(manual, properNouns),
					origin: part,
				})
				continue
			}
		}

		r.logger.Info("atomic part failed locally, abandoning local attempt",
			zap.String("part", part),
		)
		allGood = false
		break
	}

	if allGood && len(localCalls) > 0 {
		return localCalls, totalMs, false
	}

	res := r.cloudCall(ctx, messages, tools)
	totalMs += res.TotalTimeMs
	tracked := track(res.FunctionCalls, userText)

	// The cloud sometimes returns fewer calls than the request has parts;
	// backfill the missing tools from per-part extraction.
	if len(res.FunctionCalls) < len(parts) {
		returned := make(map[string]struct{}, len(res.FunctionCalls))
		for _, c := range res.FunctionCalls {
			returned[c.Name] = struct{}{}
		}

		for _, part := range parts {
			name := extract.BestTool(part, tools)
			if name == "" {
				continue
			}
			if _, have := returned[name]; have {
				continue
			}
			manual, ok := extract.Manual(part, name)
			if !ok {
				continue
			}
			manual = resolveRecipient(manual, properNouns)
			if !domain.ValidCall(manual, tools) {
				continue
			}
			r.logger.Debug("backfilled call missing from cloud response",
				zap.String("tool", name),
			)
			tracked = append(tracked, trackedCall{call: manual, origin: part})
			returned[name] = struct{}{}
		}
	}

	return tracked, totalMs, true
}

// resolveRecipient substitutes a pronoun message recipient with the first
// proper noun of the full request.
func resolveRecipient(call domain.FunctionCall, properNouns []string) domain.FunctionCall {
	if call.Name != extract.ToolMessage {
		return call
	}
	if recipient, ok := call.Arguments["recipient"].(string); ok {
		call.Arguments["recipient"] = extract.ResolvePronoun(recipient, properNouns)
	}
	return call
}
