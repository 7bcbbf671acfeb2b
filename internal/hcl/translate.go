package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/block/internal/config"
	"github.com/vk/block/internal/portref"
	"github.com/zclconf/go-cty/cty"
)

// translateBlock converts the HCL block schema into the agnostic model.
func translateBlock(s *blockSchema) (*config.Block, error) {
	where := s.DefRange.String()
	if !portref.ValidName(s.Name) {
		return nil, fmt.Errorf("%s: invalid block name '%s'", where, s.Name)
	}

	b := &config.Block{
		Kind:     s.Kind,
		Name:     s.Name,
		Params:   make(map[string]cty.Value),
		Inputs:   make(map[string]*config.Binding),
		Location: where,
	}

	if s.Params != nil {
		attrs, diags := s.Params.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: params of '%s': %w", where, s.Name, diags)
		}
		for name, attr := range attrs {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("%s: parameter '%s' must be a constant: %w", attr.Range, name, diags)
			}
			b.Params[name] = v
		}
	}

	if s.Inputs != nil {
		attrs, diags := s.Inputs.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: inputs of '%s': %w", where, s.Name, diags)
		}
		for name, attr := range attrs {
			binding, err := translateBinding(attr)
			if err != nil {
				return nil, err
			}
			b.Inputs[name] = binding
		}
	}
	return b, nil
}

// translateBinding turns an input attribute into a connection when it is a
// node.port reference, and into a literal otherwise.
func translateBinding(attr *hcl.Attribute) (*config.Binding, error) {
	if expr, ok := attr.Expr.(*hclsyntax.ScopeTraversalExpr); ok {
		ref, err := refFromTraversal(expr.Traversal)
		if err != nil {
			return nil, fmt.Errorf("%s: input '%s': %w", attr.Range, attr.Name, err)
		}
		return &config.Binding{Source: &ref}, nil
	}

	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: input '%s' must be a constant or a node.port reference: %w", attr.Range, attr.Name, diags)
	}
	return &config.Binding{Literal: &v}, nil
}

func refFromTraversal(t hcl.Traversal) (portref.Ref, error) {
	if len(t) != 2 {
		return portref.Ref{}, fmt.Errorf("reference must have the form node.port")
	}
	root, ok := t[0].(hcl.TraverseRoot)
	if !ok {
		return portref.Ref{}, fmt.Errorf("reference must have the form node.port")
	}
	attr, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return portref.Ref{}, fmt.Errorf("reference must have the form node.port")
	}
	return portref.New(root.Name, attr.Name), nil
}
