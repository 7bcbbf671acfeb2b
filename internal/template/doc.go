// Package template defines the closed set of block kinds a reliability block
// diagram is built from.
//
// Every node in the graph is instantiated from exactly one Template. A
// Template is a tagged variant: the concrete type names the kind and its
// fields carry the kind-specific parameters. The set of variants is sealed
// (the interface has an unexported method), and behavior is dispatched with a
// type switch in two functions:
//
//   - PortsOf declares the named, typed input and output ports of a node,
//     together with the default literal of each input.
//   - Compute turns a map of resolved input values into a map of output
//     values. It is pure and deterministic, which is what makes memoizing its
//     results for the duration of an evaluation pass valid.
//
// Values are go-cty values; port data types are cty types, with
// cty.DynamicPseudoType standing for "any".
package template
