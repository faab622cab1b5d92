// Package cel evaluates CEL (Common Expression Language) acceptance rules
// for local routing results.
//
// The acceptance confidence gate is a tunable, not fixed behavior; an
// operator can replace the default threshold comparison with any boolean
// CEL expression over the "result" variable:
//
//	evaluator := cel.NewEvaluator()
//
//	vars := map[string]interface{}{
//	    "result": map[string]interface{}{
//	        "confidence":    0.42,
//	        "num_calls":     2,
//	        "valid_calls":   2,
//	        "cloud_handoff": false,
//	        "intents":       2,
//	    },
//	}
//
//	ok, err := evaluator.EvaluateBool(ctx, "result.confidence >= 0.3 && result.valid_calls >= result.intents", vars)
//
// Compiled programs are cached per expression, so re-evaluating the same
// rule on every request costs one map lookup.
package cel
