// Package server exposes the router over HTTP.
//
// POST /api/route accepts either a bare query string or a full message
// list, with optional caller-supplied tool schemas (the built-in demo
// toolset is used when none are given), and responds with the RouteResult
// plus wall-clock timing. GET /healthz reports liveness.
//
// The router owns a single shared model handle, so request handling is
// serialized with a mutex; concurrent clients queue rather than corrupt
// runtime state.
package server
