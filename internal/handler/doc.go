// Package handler implements HTTP request handlers for the topoedit API.
//
// # Handlers
//
// CanvasHandler exposes the editor operations: node placement, direct
// linking, the click/pointer/drag gestures, link mode, traffic control,
// reset, import/export and the scene state used by remote renderers.
//
// Middleware provides panic recovery, CORS, request logging and request
// metrics.
//
// # Errors
//
// Errors are returned as JSON {error, details} with a status derived from
// the error kind: unknown ids give 404, invalid links and malformed
// requests 400, a full traffic cap 409 and a stopped canvas 503.
//
// # Server-Sent Events
//
// The /events endpoint streams editor events and scene frames. A client
// fetches /api/scene once and applies scene frames with a greater seq.
package handler
