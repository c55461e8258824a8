// Package topology implements the topology graph engine behind the editor.
//
// Store owns nodes, links and their shapes. LinkDraw runs the two-click
// link gesture and its preview segment. Synchronizer keeps link geometry
// equal to endpoint centers while nodes are dragged. Animator drives the
// cyclic traffic markers. Editor ties them together behind the operations
// the UI adapters call.
//
// Nothing in this package is safe for concurrent use. Callers serialize
// access the way a rendering clock does; see service.Canvas.
package topology
