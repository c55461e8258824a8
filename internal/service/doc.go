// Package service runs the topology editor for concurrent callers.
//
// # Canvas
//
// CanvasService owns a topology.Editor and a frame clock. A single run
// loop goroutine executes every editor operation and every animation
// frame, so the editor itself needs no locking. HTTP handlers, the seed
// watcher and the terminal UI submit work through the service's typed
// methods, which block until the loop has executed them.
//
// # Event System
//
// Operations publish events via EventBus for real-time updates to
// connected clients via Server-Sent Events (SSE). Scene frames from a
// streaming surface are published on the same bus, so one subscriber
// sees gestures and shape changes in order.
package service
