// Package router implements the hybrid atomic router: it turns a free-text
// user request into zero or more validated function calls, preferring the
// on-device model and escalating to the cloud only when the local path is
// exhausted.
//
// A routing invocation walks a fixed state machine:
//
//	START → COUNT → {SINGLE, MULTI} → CLEAN → DEDUP → DONE
//
// COUNT runs the intent counter on the latest user message; two or more
// intents take the MULTI path, otherwise SINGLE.
//
// SINGLE narrows the tool list, tries the on-device model, and on rejection
// falls through deterministic extraction, then one fresh-model retry, then
// the cloud.
//
// MULTI decomposes the text into atomic parts and routes each part locally
// (model first, deterministic extraction second). If any part fails both,
// the whole local attempt is abandoned and the cloud receives the complete
// original message list; tools the cloud omits are backfilled from the
// atomic parts.
//
// CLEAN repairs every surviving call's arguments against its originating
// text, DEDUP collapses exact duplicates, and DONE emits a RouteResult
// whose total time is the additive sum of every model and cloud call made
// along the taken path. No stage returns an error: every failure degrades
// to the next fallback, and the terminal state is always a (possibly
// empty) RouteResult.
//
// Example:
//
//	r := router.New(manager, geminiClient, cfg, logger)
//	result := r.Route(ctx, []domain.Message{{Role: domain.RoleUser, Content: "Set an alarm for 7:30 AM"}}, tools)
//	// result.FunctionCalls == [{set_alarm {hour:7 minute:30}}], result.Source == "on-device"
//
// A Router serves one request at a time; concurrent callers must serialize.
package router
