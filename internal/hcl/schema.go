package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a diagram file.
type fileRoot struct {
	Blocks []*blockSchema `hcl:"block,block"`
}

// blockSchema is a `block` definition.
type blockSchema struct {
	Kind     string     `hcl:"kind,label"`
	Name     string     `hcl:"name,label"`
	Params   *bodyBlock `hcl:"params,block"`
	Inputs   *bodyBlock `hcl:"inputs,block"`
	DefRange hcl.Range  `hcl:",def_range"`
}

// bodyBlock holds a block made only of attributes.
type bodyBlock struct {
	Body hcl.Body `hcl:",remain"`
}
