// Package registry maps the kind names used in diagrams to the block
// templates that implement them.
//
// Each registered Kind describes its parameters and knows how to build a
// template.Template from parameter values. Parameters are the fixed,
// per-block settings chosen when a block is placed (the value of a constant,
// the arity of a gate). They are distinct from input ports, which may be
// connected and change between evaluations.
//
// During application startup the registry is populated and then validated,
// so a kind whose parameters, defaults or declared ports disagree fails
// before any diagram is loaded.
package registry
