package builder

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/block/internal/config"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/portref"
	"github.com/vk/block/internal/registry"
	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
)

func literal(v cty.Value) *config.Binding {
	return &config.Binding{Literal: &v}
}

func source(node, port string) *config.Binding {
	ref := portref.New(node, port)
	return &config.Binding{Source: &ref}
}

func block(kind, name string, params map[string]cty.Value, inputs map[string]*config.Binding) *config.Block {
	return &config.Block{Kind: kind, Name: name, Params: params, Inputs: inputs, Location: "test.hcl:1,1-2"}
}

func TestBuild_CreatesNodesAndBindings(t *testing.T) {
	d := &config.Diagram{Blocks: []*config.Block{
		block("series", "line", map[string]cty.Value{"n": cty.NumberIntVal(2)}, map[string]*config.Binding{
			"in1": source("pump", "reliability"),
			"in2": literal(cty.NumberFloatVal(0.99)),
		}),
		block("weibull", "pump", nil, map[string]*config.Binding{
			"time": literal(cty.NumberIntVal(100)),
		}),
	}}

	store, err := Build(context.Background(), d, registry.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	line, err := store.NodeByName("line")
	require.NoError(t, err)
	assert.Equal(t, template.Series{N: 2}, line.Template)

	in1, err := store.Input(line.ID, "in1")
	require.NoError(t, err)
	out, ok := store.ConnectionOf(in1)
	require.True(t, ok, "forward references resolve")
	port, err := store.OutputPort(out)
	require.NoError(t, err)
	assert.Equal(t, "reliability", port.Name)

	in2, err := store.Input(line.ID, "in2")
	require.NoError(t, err)
	p, err := store.InputPort(in2)
	require.NoError(t, err)
	assert.True(t, p.Literal.RawEquals(cty.NumberFloatVal(0.99)))
}

func TestBuild_CollectsNodeErrors(t *testing.T) {
	d := &config.Diagram{Blocks: []*config.Block{
		block("turbine", "a", nil, nil),
		block("identity", "b", nil, nil),
		block("identity", "b", nil, nil),
	}}

	_, err := Build(context.Background(), d, registry.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrUnknownKind)
	assert.ErrorIs(t, err, graph.ErrDuplicateName)
	assert.Contains(t, err.Error(), "test.hcl:1,1-2: block 'a'")
}

func TestBuild_BindingErrors(t *testing.T) {
	testCases := []struct {
		name    string
		inputs  map[string]*config.Binding
		wantErr error
	}{
		{"unknown input", map[string]*config.Binding{"nope": literal(cty.True)}, graph.ErrUnknownPort},
		{"unknown source node", map[string]*config.Binding{"in": source("ghost", "out")}, graph.ErrNotFound},
		{"unknown source port", map[string]*config.Binding{"in": source("src", "nope")}, graph.ErrUnknownPort},
		{"cycle", map[string]*config.Binding{"in": source("sink", "result")}, graph.ErrCycle},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := &config.Diagram{Blocks: []*config.Block{
				block("constant", "src", map[string]cty.Value{"value": cty.NumberIntVal(1)}, nil),
				block("identity", "sink", nil, tc.inputs),
			}}
			_, err := Build(context.Background(), d, registry.Default())
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBuild_LiteralTypeMismatch(t *testing.T) {
	d := &config.Diagram{Blocks: []*config.Block{
		block("series", "g", map[string]cty.Value{"n": cty.NumberIntVal(1)}, map[string]*config.Binding{
			"in1": literal(cty.StringVal("high")),
		}),
	}}

	_, err := Build(context.Background(), d, registry.Default())
	assert.ErrorIs(t, err, graph.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "g.in1")
}

func TestBuild_WiresEveryConnection(t *testing.T) {
	d := &config.Diagram{Blocks: []*config.Block{
		block("constant", "a", map[string]cty.Value{"value": cty.NumberFloatVal(0.9)}, nil),
		block("parallel", "p", nil, map[string]*config.Binding{
			"in1": source("a", "out"),
			"in2": source("a", "out"),
		}),
		block("identity", "top", nil, map[string]*config.Binding{
			"in": source("p", "reliability"),
		}),
	}}

	store, err := Build(context.Background(), d, registry.Default())
	require.NoError(t, err)

	label := func(node graph.NodeID, port string) string {
		n, err := store.Node(node)
		require.NoError(t, err)
		return n.Name + "." + port
	}
	var got []string
	for _, c := range store.Connections() {
		from, err := store.OutputPort(c.From)
		require.NoError(t, err)
		to, err := store.InputPort(c.To)
		require.NoError(t, err)
		got = append(got, label(from.Node, from.Name)+" -> "+label(to.Node, to.Name))
	}

	want := []string{
		"a.out -> p.in1",
		"a.out -> p.in2",
		"p.reliability -> top.in",
	}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("connections mismatch (-want +got):\n%s", diff)
	}
}
