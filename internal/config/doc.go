// Package config defines the format-agnostic model of a diagram definition,
// along with the Loader interface for reading one from a concrete format.
//
// A config.Diagram is what the graph builder consumes. Concrete loaders, such
// as the HCL loader, live in separate packages.
package config
