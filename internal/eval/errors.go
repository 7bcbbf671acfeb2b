package eval

import (
	"errors"
	"fmt"

	"github.com/vk/block/internal/graph"
)

// Sentinel errors for evaluation.
var (
	// ErrCyclicDependency is returned when a node is reached again while it
	// is still being evaluated.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrCacheNotPopulated is returned when an upstream node was evaluated
	// but the output an input is connected to is still missing from the
	// cache. It indicates a broken store or template, not bad user input.
	ErrCacheNotPopulated = errors.New("output cache not populated after upstream evaluation")

	// ErrMissingOutput is returned when a block does not produce one of its
	// declared outputs.
	ErrMissingOutput = errors.New("block did not produce declared output")

	// ErrUnexpectedOutput is returned when a block produces an output it
	// does not declare.
	ErrUnexpectedOutput = errors.New("block produced undeclared output")
)

// Error reports a failure to evaluate a node.
type Error struct {
	Node     graph.NodeID
	NodeName string
	// Port is the input or output involved, if any.
	Port string
	Err  error
}

func (e *Error) Error() string {
	where := e.NodeName
	if where == "" && !e.Node.IsZero() {
		where = e.Node.String()
	}
	if e.Port != "" {
		where += "." + e.Port
	}
	if where == "" {
		return fmt.Sprintf("execution error: %v", e.Err)
	}
	return fmt.Sprintf("execution error: %s: %v", where, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fail wraps err for node n unless it already is an *Error from deeper in
// the recursion.
func fail(n graph.Node, port string, err error) error {
	var evalErr *Error
	if errors.As(err, &evalErr) {
		return err
	}
	return &Error{Node: n.ID, NodeName: n.Name, Port: port, Err: err}
}
