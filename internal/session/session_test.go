package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/portref"
	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// newLine builds src(0.9) -> gate(series, n=2) with gate.in2 = 0.5.
func newLine(t *testing.T) (*Session, graph.NodeID, graph.NodeID) {
	t.Helper()
	store := graph.NewStore()
	src, err := store.AddNode("src", template.Constant{Value: cty.NumberFloatVal(0.9)})
	require.NoError(t, err)
	gate, err := store.AddNode("gate", template.Series{N: 2})
	require.NoError(t, err)

	out, err := store.Output(src, "out")
	require.NoError(t, err)
	in1, err := store.Input(gate, "in1")
	require.NoError(t, err)
	in2, err := store.Input(gate, "in2")
	require.NoError(t, err)
	require.NoError(t, store.Connect(out, in1))
	require.NoError(t, store.SetLiteral(in2, cty.NumberFloatVal(0.5)))

	return New(store, nil), src, gate
}

func TestInspect_ShowsInputsAndOutputs(t *testing.T) {
	s, _, gate := newLine(t)

	insp, err := s.Inspect(context.Background(), gate)
	require.NoError(t, err)

	assert.Equal(t, "series", insp.Kind)
	assert.Equal(t, "gate", insp.Node.Name)
	assert.Equal(t, 2, insp.Computed)

	require.Len(t, insp.Inputs, 2)
	assert.Equal(t, "src.out", insp.Inputs[0].Source)
	assert.True(t, insp.Inputs[0].Value.RawEquals(cty.NumberFloatVal(0.9)))
	assert.Empty(t, insp.Inputs[1].Source)
	assert.True(t, insp.Inputs[1].Value.RawEquals(cty.NumberFloatVal(0.5)))

	require.Len(t, insp.Outputs, 1)
	f, _ := insp.Outputs[0].Value.AsBigFloat().Float64()
	assert.InDelta(t, 0.45, f, 1e-12)
	assert.Empty(t, insp.Outputs[0].Consumers)
}

func TestInspect_ListsOutputConsumers(t *testing.T) {
	s, src, _ := newLine(t)

	insp, err := s.Inspect(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, insp.Outputs, 1)
	assert.Equal(t, []string{"gate.in1"}, insp.Outputs[0].Consumers)
	assert.Equal(t, 1, insp.Computed)
}

func TestInspect_ActiveNodeIsAParameter(t *testing.T) {
	s, src, _ := newLine(t)

	_, err := s.Inspect(context.Background(), graph.NodeID{})
	assert.ErrorIs(t, err, ErrNoActiveNode)

	require.NoError(t, s.Edit(context.Background(), func(g *graph.Store) error {
		return g.RemoveNode(src)
	}))
	_, err = s.Inspect(context.Background(), src)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestEdit_ChangesAreSeenByNextEvaluation(t *testing.T) {
	s, src, gate := newLine(t)
	var out graph.OutputID
	require.NoError(t, s.View(func(g graph.Reader) error {
		var err error
		out, err = g.Output(gate, "reliability")
		return err
	}))

	before, err := s.Evaluate(context.Background(), out)
	require.NoError(t, err)

	require.NoError(t, s.Edit(context.Background(), func(g *graph.Store) error {
		in1, err := g.Input(gate, "in1")
		if err != nil {
			return err
		}
		return g.Disconnect(in1)
	}))
	after, err := s.Evaluate(context.Background(), out)
	require.NoError(t, err)

	b, _ := before.Value.AsBigFloat().Float64()
	a, _ := after.Value.AsBigFloat().Float64()
	assert.InDelta(t, 0.45, b, 1e-12)
	assert.InDelta(t, 0.5, a, 1e-12, "in1 falls back to its default of 1")
	assert.NotContains(t, after.Computed, src)
}

func TestEdit_ReturnsCallbackError(t *testing.T) {
	s, src, _ := newLine(t)
	err := s.Edit(context.Background(), func(g *graph.Store) error {
		out, err := g.Output(src, "out")
		if err != nil {
			return err
		}
		in, err := g.Input(src, "nope")
		if err != nil {
			return err
		}
		return g.Connect(out, in)
	})
	assert.ErrorIs(t, err, graph.ErrUnknownPort)
}

func TestSession_ConcurrentEvaluateAndEdit(t *testing.T) {
	s, _, gate := newLine(t)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			values, err := s.EvaluateNode(context.Background(), gate)
			assert.NoError(t, err)
			assert.Contains(t, values, "reliability")
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Edit(context.Background(), func(g *graph.Store) error {
				in2, err := g.Input(gate, "in2")
				if err != nil {
					return err
				}
				return g.SetLiteral(in2, cty.NumberFloatVal(0.25))
			}))
		}()
	}
	wg.Wait()
}

func TestLookups(t *testing.T) {
	s, src, gate := newLine(t)

	n, err := s.Node("gate")
	require.NoError(t, err)
	assert.Equal(t, gate, n.ID)

	out, err := s.Output(portref.New("src", "out"))
	require.NoError(t, err)
	label, err := s.Label(out)
	require.NoError(t, err)
	assert.Equal(t, "src.out", label)
	assert.Equal(t, "src", s.NodeLabel(src))

	_, err = s.Output(portref.New("ghost", "out"))
	assert.ErrorIs(t, err, graph.ErrNotFound)
	_, err = s.Output(portref.New("src", "nope"))
	assert.ErrorIs(t, err, graph.ErrUnknownPort)
	assert.Equal(t, graph.NodeID{}.String(), s.NodeLabel(graph.NodeID{}))
}
