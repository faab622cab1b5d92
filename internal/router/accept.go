package router

import (
	"context"

	"github.com/teamyoo/atomic-router/internal/domain"
	celeval "github.com/teamyoo/atomic-router/internal/eval/cel"
	"go.uber.org/zap"
)

// acceptPolicy decides whether a local result is trustworthy. Structural
// rejections (handoff, no calls, no valid calls) always apply; the
// confidence gate is either a plain threshold or an operator-supplied CEL
// rule.
type acceptPolicy struct {
	threshold float64
	rule      string
	eval      *celeval.Evaluator
	logger    *zap.Logger
}

func newAcceptPolicy(threshold float64, rule string, logger *zap.Logger) *acceptPolicy {
	p := &acceptPolicy{
		threshold: threshold,
		logger:    logger,
	}
	if rule != "" {
		p.eval = celeval.NewEvaluator()
		if err := p.eval.Validate(rule); err != nil {
			logger.Warn("invalid accept rule, falling back to confidence threshold",
				zap.String("rule", rule),
				zap.Error(err),
			)
		} else {
			p.rule = rule
		}
	}
	return p
}

// Accept reports whether the local result should be used instead of
// escalating.
func (p *acceptPolicy) Accept(ctx context.Context, res domain.LocalResult, tools []domain.Tool, intents int) bool {
	if res.CloudHandoff {
		return false
	}
	if len(res.FunctionCalls) == 0 {
		return false
	}
	valid := domain.ValidCalls(res.FunctionCalls, tools)
	if len(valid) == 0 {
		return false
	}

	if p.rule != "" {
		vars := map[string]interface{}{
			"result": map[string]interface{}{
				"confidence":    res.Confidence,
				"num_calls":     len(res.FunctionCalls),
				"valid_calls":   len(valid),
				"cloud_handoff": res.CloudHandoff,
				"intents":       intents,
			},
		}
		ok, err := p.eval.EvaluateBool(ctx, p.rule, vars)
		if err == nil {
			return ok
		}
		p.logger.Warn("accept rule evaluation failed, falling back to confidence threshold",
			zap.Error(err),
		)
	}

	return res.Confidence >= p.threshold
}
