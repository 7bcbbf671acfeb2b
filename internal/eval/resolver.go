package eval

import (
	"fmt"

	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/outputcache"
	"github.com/zclconf/go-cty/cty"
)

// Miss names the upstream output a connected input is waiting on.
type Miss struct {
	Output graph.OutputID
	// Node owns Output and must be evaluated before the input resolves.
	Node graph.NodeID
}

// ResolveInput returns the current value of a node's input. An unconnected
// input yields its literal. A connected input yields the cached value of its
// upstream output, or a Miss when that output has not been computed in this
// pass; a Miss never comes with a value.
func ResolveInput(g graph.Reader, node graph.NodeID, name string, c *outputcache.Cache) (cty.Value, *Miss, error) {
	in, err := g.Input(node, name)
	if err != nil {
		return cty.NilVal, nil, err
	}

	if src, ok := g.ConnectionOf(in); ok {
		if v, hit := c.Get(src); hit {
			return v, nil, nil
		}
		out, err := g.OutputPort(src)
		if err != nil {
			return cty.NilVal, nil, err
		}
		return cty.NilVal, &Miss{Output: src, Node: out.Node}, nil
	}

	port, err := g.InputPort(in)
	if err != nil {
		return cty.NilVal, nil, err
	}
	return port.Literal, nil, nil
}

// resolvePopulated resolves an input whose upstream node has just been
// evaluated, so a miss means the cache was not filled as promised.
func resolvePopulated(g graph.Reader, node graph.NodeID, name string, c *outputcache.Cache) (cty.Value, error) {
	v, miss, err := ResolveInput(g, node, name, c)
	if err != nil {
		return cty.NilVal, err
	}
	if miss != nil {
		return cty.NilVal, fmt.Errorf("%s: %w", miss.Output, ErrCacheNotPopulated)
	}
	return v, nil
}
