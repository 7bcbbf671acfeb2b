/*
Package builder constructs a graph.Store from a diagram definition. It is the
bridge between the static configuration model (the 'config' package) and the
evaluation engine (the 'eval' package).

Construction is a multi-phase process:

 1. Node Creation: every block is instantiated through the registry and added
    to the store under its name. This phase populates the store with nodes
    and their ports but does not yet bind any input.

 2. Binding: each input binding becomes either a literal on the input or a
    connection from the referenced node.port. The store rejects fan-in,
    type mismatches and cycles as the connections are made.

 3. Validation: the finished store is checked as a whole.

Problems within a phase are collected so a diagram with several mistakes
reports all of them at once; a failed phase stops the build.
*/
package builder
