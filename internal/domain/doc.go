// Package domain defines the data model shared by every routing stage:
// tool schemas, messages, function calls, the on-device result envelope,
// and the final RouteResult.
//
// It also implements the two stages that operate purely on this model:
// call validation (a call is valid iff its tool is known and every required
// parameter is present with non-blank content) and deduplication (calls are
// collapsed by name plus canonicalized arguments, first occurrence wins).
//
// Example validation:
//
//	call := domain.FunctionCall{Name: "set_timer", Arguments: map[string]any{"minutes": 10}}
//	ok := domain.ValidCall(call, tools) // true iff "set_timer" is in tools and minutes is required-complete
//
// Example deduplication:
//
//	deduped := domain.Dedupe(calls) // order of first appearance preserved
package domain
