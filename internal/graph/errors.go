package graph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrNotFound is returned when a node, input or output handle is unknown
	// or stale, or when no node has a requested name.
	ErrNotFound = errors.New("not found")

	// ErrUnknownPort is returned when a node has no port with the requested
	// name in the requested direction.
	ErrUnknownPort = errors.New("unknown port")

	// ErrAlreadyConnected is returned when connecting an input that already
	// has an incoming connection.
	ErrAlreadyConnected = errors.New("input already connected")

	// ErrCycle is returned when an edit would make a node depend on itself,
	// directly or transitively.
	ErrCycle = errors.New("connection would create a cycle")

	// ErrTypeMismatch is returned when a literal or an upstream output cannot
	// be converted to an input's data type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDuplicateName is returned when adding a node whose name is already
	// used in the store.
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrInvalidName is returned when a node name cannot be referenced as
	// node.port.
	ErrInvalidName = errors.New("invalid node name")

	// ErrDuplicatePort is returned when a template declares two ports with
	// the same name and direction.
	ErrDuplicatePort = errors.New("duplicate port name")
)
