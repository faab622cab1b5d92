// Package localmodel wraps the on-device function-calling runtime behind a
// small boundary: a Runtime carries the init/reset/complete/destroy
// contract, a Manager owns the single shared handle's lifecycle, and
// DecodeResult turns the runtime's raw text into a LocalResult, salvaging
// truncated output by brace-balance scanning when the text is not valid
// JSON on its own.
//
// The runtime handle is a shared, stateful resource: the router resets it
// between sub-calls and rebuilds it fresh at the start of every top-level
// invocation so no session state bleeds across requests. Concurrent use of
// one Manager by multiple in-flight requests is undefined; callers
// serialize externally.
package localmodel
