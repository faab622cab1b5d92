package domain

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// json sorts map keys, so marshaled arguments are canonical and usable
// as dedup keys.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message roles read by the router. Assistant/tool turns are never consumed.
const (
	RoleUser   = "user"
	RoleSystem = "system"
)

// RouteResult provenance values.
const (
	SourceOnDevice = "on-device"
	SourceCloud    = "cloud (fallback)"
)

// Tool describes one callable function a caller exposes to the router.
// Schemas are supplied per request and never mutated.
type Tool struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// Parameters is the JSON-schema-shaped parameter block of a tool.
type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property describes a single named argument.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Message is one turn of the request conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FunctionCall is a structured tool invocation produced by the router.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// LocalResult is the decoded envelope returned by the on-device runtime.
// CloudHandoff set means the model itself asked for escalation.
type LocalResult struct {
	FunctionCalls []FunctionCall `json:"function_calls"`
	TotalTimeMs   float64        `json:"total_time_ms"`
	Confidence    float64        `json:"confidence"`
	CloudHandoff  bool           `json:"cloud_handoff"`
}

// RouteResult is the terminal output of a routing invocation. Confidence is
// a binary provenance flag: 1.0 when the whole request was served on-device,
// 0.0 when the cloud fallback was used.
type RouteResult struct {
	FunctionCalls []FunctionCall `json:"function_calls"`
	TotalTimeMs   float64        `json:"total_time_ms"`
	Source        string         `json:"source"`
	Confidence    float64        `json:"confidence"`
}

// UserText returns the content of the most recent user message.
func UserText(messages []Message) string {
	text := ""
	for _, m := range messages {
		if m.Role == RoleUser {
			text = m.Content
		}
	}
	return text
}

// FindTool looks up a tool schema by name.
func FindTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// ValidCall reports whether a call targets a known tool and carries every
// required argument with non-blank content. Non-string required values only
// need to be present.
func ValidCall(call FunctionCall, tools []Tool) bool {
	tool, ok := FindTool(tools, call.Name)
	if !ok {
		return false
	}
	for _, req := range tool.Parameters.Required {
		val, present := call.Arguments[req]
		if !present {
			return false
		}
		if s, isString := val.(string); isString && strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

// ValidCalls filters calls down to the valid ones, preserving order.
func ValidCalls(calls []FunctionCall, tools []Tool) []FunctionCall {
	valid := make([]FunctionCall, 0, len(calls))
	for _, c := range calls {
		if ValidCall(c, tools) {
			valid = append(valid, c)
		}
	}
	return valid
}

// DedupKey returns the identity of a call: its name plus the canonical
// (sorted-key) JSON form of its arguments.
func DedupKey(call FunctionCall) string {
	args, err := json.MarshalToString(call.Arguments)
	if err != nil {
		args = "{}"
	}
	return call.Name + "\x00" + args
}

// Dedupe drops exact duplicate calls, keeping the first occurrence of each
// distinct key. Dedupe of an already-deduplicated slice is the identity.
func Dedupe(calls []FunctionCall) []FunctionCall {
	seen := make(map[string]struct{}, len(calls))
	out := make([]FunctionCall, 0, len(calls))
	for _, c := range calls {
		key := DedupKey(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
