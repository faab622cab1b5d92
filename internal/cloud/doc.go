// Package cloud implements the remote fallback boundary of the router: a
// Gemini client that receives the complete original message list (never a
// decomposed fragment) and returns whatever function calls the model
// produces.
//
// The adapter is deliberately forgiving: a transport failure is retried
// exactly once after a fixed delay, and a second failure yields an empty
// result instead of an error, so the router's terminal state is always a
// RouteResult. Outbound calls pass through a rate limiter to protect API
// quota.
package cloud
