package localmodel

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/teamyoo/atomic-router/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// salvageMarker is where the runtime's result envelope starts when the
// surrounding output is noisy or truncated.
const salvageMarker = `{"success"`

// envelope is the wire shape the runtime emits.
type envelope struct {
	Success       bool                  `json:"success"`
	FunctionCalls []domain.FunctionCall `json:"function_calls"`
	TotalTimeMs   float64               `json:"total_time_ms"`
	Confidence    float64               `json:"confidence"`
	CloudHandoff  bool                  `json:"cloud_handoff"`
}

// hardFailure is the signal for output that could not be decoded at all:
// no calls, zero confidence, escalate.
func hardFailure() domain.LocalResult {
	return domain.LocalResult{CloudHandoff: true}
}

// DecodeResult parses the runtime's raw response text. Invalid JSON is
// salvaged by locating the envelope marker and scanning forward for a
// brace-balanced object; if no balanced object parses, the call is treated
// as a hard local failure rather than an error.
func DecodeResult(raw string) domain.LocalResult {
	var env envelope
	if err := json.UnmarshalFromString(raw, &env); err != nil {
		salvaged, ok := salvage(raw)
		if !ok {
			return hardFailure()
		}
		env = salvaged
	}

	calls := env.FunctionCalls
	if calls == nil {
		calls = []domain.FunctionCall{}
	}
	return domain.LocalResult{
		FunctionCalls: calls,
		TotalTimeMs:   env.TotalTimeMs,
		Confidence:    env.Confidence,
		CloudHandoff:  env.CloudHandoff,
	}
}

// salvage extracts the first brace-balanced object starting at the envelope
// marker and tries to parse it.
func salvage(raw string) (envelope, bool) {
	start := strings.Index(raw, salvageMarker)
	if start < 0 {
		return envelope{}, false
	}

	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				var env envelope
				if err := json.UnmarshalFromString(raw[start:i+1], &env); err == nil {
					return env, true
				}
				// A balanced-but-unparseable candidate: keep scanning in
				// case a longer object closes later.
			}
		}
	}
	return envelope{}, false
}
