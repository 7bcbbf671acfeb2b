// Package session separates the edit phase of a diagram from its evaluate
// phase.
//
// A Session owns a graph.Store. Edits run under an exclusive lock and
// evaluations under a shared one, so a pass always sees one consistent
// version of the graph and never observes a half-applied edit. Concurrent
// evaluations are independent because each pass has its own cache.
//
// Which node a user interface is currently looking at is not session state.
// Inspect takes that node as an argument and reports what should be shown
// for it.
package session
