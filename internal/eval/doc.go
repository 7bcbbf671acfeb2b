// Package eval computes the value of an output port by pulling values through
// the diagram on demand.
//
// # Algorithm
//
// Evaluation is a depth-first recursion from the requested output toward the
// sources. For a node, every declared input is resolved: an unconnected
// input yields its literal, a connected one yields the upstream output's
// cached value. When the upstream value is missing, the upstream node is
// evaluated first and the input is resolved again. Once all inputs are
// known the node's template computes every output at once and all of them
// are stored in the pass's cache.
//
// Each pass starts with an empty cache, so a node is computed at most once
// per pass and never reuses a value from an earlier pass. Nodes on the
// current recursion path are tracked; reaching one of them again is reported
// as ErrCyclicDependency instead of recursing forever.
//
// # Errors
//
// Every failure is returned as an *Error naming the node and, when known,
// the port it concerns. The *Error is created where the failure happens and
// passed up the recursion untouched.
//
// # Observability
//
// The context carries the logger (see package ctxlog) and the parent span.
// Each pass and each computed node gets an OpenTelemetry span, and pass
// counts, computed nodes and failures are recorded as metrics.
package eval
