package outputcache

import (
	"errors"
	"fmt"
	"maps"

	"github.com/vk/block/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// ErrAlreadySet is returned by Put when the output already has a value.
var ErrAlreadySet = errors.New("output already cached")

// Cache maps output ports to the values computed for them in one pass.
type Cache struct {
	values map[graph.OutputID]cty.Value
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{values: make(map[graph.OutputID]cty.Value)}
}

// Get returns the cached value of out, if any.
func (c *Cache) Get(out graph.OutputID) (cty.Value, bool) {
	v, ok := c.values[out]
	return v, ok
}

// Put records the value of out.
func (c *Cache) Put(out graph.OutputID, v cty.Value) error {
	if _, exists := c.values[out]; exists {
		return fmt.Errorf("%s: %w", out, ErrAlreadySet)
	}
	c.values[out] = v
	return nil
}

// Len returns the number of cached outputs.
func (c *Cache) Len() int {
	return len(c.values)
}

// Snapshot returns a copy of every cached value.
func (c *Cache) Snapshot() map[graph.OutputID]cty.Value {
	return maps.Clone(c.values)
}
