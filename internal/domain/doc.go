// Package domain defines the core types for the topoedit network topology editor.
//
// This package contains the entities and value objects shared by the
// topology engine, the rendering adapters and the HTTP layer.
//
// # Core Types
//
// Node is a positioned, typed entity on the canvas (building, server,
// switch, access point). Its center is its position.
//
// Link is an undirected connection between two distinct nodes whose
// geometry always equals the current centers of its endpoints.
//
// TrafficLevel classifies a link's simulated load and maps to the stroke
// color used while a traffic animation runs.
//
// # Errors
//
// ErrNotFound and ErrInvalidLink are contract violations surfaced to the
// caller. ErrTrafficLimit is returned when a per-link animation cap is set
// and reached.
//
// # Design Principles
//
// - No rendering or transport dependencies
// - Plain values that are safe to copy into snapshots
package domain
