// Package graph is the store for a reliability block diagram: its nodes,
// their named input and output ports, and the connections between ports.
//
// # Identity
//
// Nodes and ports are addressed by handle, never by pointer. NodeID, InputID
// and OutputID are opaque generational indices into arenas owned by the
// Store. Connections, the evaluator's output cache and any selection state
// kept by a user interface all refer to the same handles, and those handles
// stay valid across unrelated edits. When a node is removed its slots are
// recycled under a new generation, so a handle that outlived its node is
// reported as ErrNotFound instead of silently aliasing a newer node.
//
// # Invariants
//
// Every mutation keeps the following true:
//  1. Both ends of every connection exist in the store.
//  2. An input has at most one incoming connection; an output may feed any
//     number of inputs.
//  3. The dependency relation (input -> owner of its connected output) is
//     acyclic.
//  4. A connected input keeps its literal, but the literal is ignored until
//     the connection is removed.
//
// # Thread-Safety
//
// Individual Store methods are safe for concurrent use. Keeping edits and
// evaluations in separate phases is the caller's job; see package session.
package graph
