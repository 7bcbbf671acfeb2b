package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/outputcache"
	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTracerProvider sets the provider spans are created from. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Evaluator) {
		e.tracer = tp.Tracer(instrumentationName)
	}
}

// Evaluator computes output values of a graph. It holds no per-pass state
// and may be shared.
type Evaluator struct {
	tracer trace.Tracer
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{tracer: otel.Tracer(instrumentationName)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one successful pass.
type Result struct {
	// Value is the value of the requested output.
	Value cty.Value
	// Outputs is every output value computed during the pass.
	Outputs map[graph.OutputID]cty.Value
	// Computed lists the nodes computed during the pass in completion order.
	Computed []graph.NodeID
}

var defaultEvaluator = New()

// Evaluate computes the value of out with a default Evaluator.
func Evaluate(ctx context.Context, g graph.Reader, out graph.OutputID) (cty.Value, error) {
	return defaultEvaluator.Evaluate(ctx, g, out)
}

// Evaluate computes the value of out in a fresh pass.
func (e *Evaluator) Evaluate(ctx context.Context, g graph.Reader, out graph.OutputID) (cty.Value, error) {
	res, err := e.Run(ctx, g, out)
	if err != nil {
		return cty.NilVal, err
	}
	return res.Value, nil
}

// Run computes the value of out in a fresh pass and reports what the pass
// computed.
func (e *Evaluator) Run(ctx context.Context, g graph.Reader, out graph.OutputID) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "eval.Run", trace.WithAttributes(
		attribute.String("block.output", out.String()),
	))
	defer span.End()

	p := e.newPass(g)
	start := time.Now()
	v, err := p.output(ctx, out)
	recordPass(ctx, len(p.computed), time.Since(start), err)
	span.SetAttributes(
		attribute.Int("block.computed", len(p.computed)),
		attribute.Int("block.cached", p.cache.Len()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &Result{
		Value:    v,
		Outputs:  p.cache.Snapshot(),
		Computed: p.computed,
	}, nil
}

// EvaluateNode computes every output of one node in a fresh pass and returns
// them by output name.
func (e *Evaluator) EvaluateNode(ctx context.Context, g graph.Reader, id graph.NodeID) (map[string]cty.Value, error) {
	ctx, span := e.tracer.Start(ctx, "eval.EvaluateNode", trace.WithAttributes(
		attribute.String("block.node", id.String()),
	))
	defer span.End()

	p := e.newPass(g)
	start := time.Now()
	err := p.node(ctx, id)
	var values map[string]cty.Value
	if err == nil {
		values, err = p.outputsOf(id)
	}
	recordPass(ctx, len(p.computed), time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return values, nil
}

// pass is the state of one evaluation: its cache, the nodes on the current
// recursion path, and the nodes computed so far.
type pass struct {
	tracer   trace.Tracer
	g        graph.Reader
	cache    *outputcache.Cache
	active   map[graph.NodeID]bool
	computed []graph.NodeID
}

func (e *Evaluator) newPass(g graph.Reader) *pass {
	return &pass{
		tracer: e.tracer,
		g:      g,
		cache:  outputcache.New(),
		active: make(map[graph.NodeID]bool),
	}
}

func (p *pass) output(ctx context.Context, out graph.OutputID) (cty.Value, error) {
	if v, ok := p.cache.Get(out); ok {
		return v, nil
	}
	port, err := p.g.OutputPort(out)
	if err != nil {
		return cty.NilVal, &Error{Err: err}
	}
	if err := p.node(ctx, port.Node); err != nil {
		return cty.NilVal, err
	}
	v, ok := p.cache.Get(out)
	if !ok {
		return cty.NilVal, &Error{Node: port.Node, Port: port.Name, Err: ErrCacheNotPopulated}
	}
	return v, nil
}

func (p *pass) node(ctx context.Context, id graph.NodeID) error {
	n, err := p.g.Node(id)
	if err != nil {
		return &Error{Node: id, Err: err}
	}
	if p.active[id] {
		return fail(n, "", ErrCyclicDependency)
	}
	p.active[id] = true
	defer delete(p.active, id)

	ctx, span := p.tracer.Start(ctx, "eval.node", trace.WithAttributes(
		attribute.String("block.node", n.Label()),
		attribute.String("block.kind", n.Template.Kind().String()),
	))
	defer span.End()

	in, err := p.inputs(ctx, n)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	outs, err := template.Compute(n.Template, in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fail(n, "", err)
	}
	if err := p.store(ctx, n, outs); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	p.computed = append(p.computed, id)
	ctxlog.FromContext(ctx).Debug("Computed block.", "node", n.Label(), "kind", n.Template.Kind().String())
	return nil
}

func (p *pass) inputs(ctx context.Context, n graph.Node) (template.Values, error) {
	values := make(template.Values, len(n.Inputs))
	for _, inID := range n.Inputs {
		port, err := p.g.InputPort(inID)
		if err != nil {
			return nil, fail(n, "", err)
		}

		v, miss, err := ResolveInput(p.g, n.ID, port.Name, p.cache)
		if err != nil {
			return nil, fail(n, port.Name, err)
		}
		if miss != nil {
			if err := p.node(ctx, miss.Node); err != nil {
				return nil, err
			}
			v, err = resolvePopulated(p.g, n.ID, port.Name, p.cache)
			if err != nil {
				ctxlog.FromContext(ctx).Error("Upstream evaluation left input unresolved.",
					"node", n.Label(), "input", port.Name, "error", err)
				return nil, fail(n, port.Name, err)
			}
		}
		values[port.Name] = v
	}
	return values, nil
}

// store caches every output of n, checking the computed values against the
// declared outputs first.
func (p *pass) store(ctx context.Context, n graph.Node, outs template.Values) error {
	ports := make([]graph.OutputPort, 0, len(n.Outputs))
	declared := make(map[string]bool, len(n.Outputs))
	for _, outID := range n.Outputs {
		port, err := p.g.OutputPort(outID)
		if err != nil {
			return fail(n, "", err)
		}
		if _, ok := outs[port.Name]; !ok {
			return fail(n, port.Name, ErrMissingOutput)
		}
		declared[port.Name] = true
		ports = append(ports, port)
	}
	for name := range outs {
		if !declared[name] {
			return fail(n, name, ErrUnexpectedOutput)
		}
	}
	for _, port := range ports {
		if err := p.cache.Put(port.ID, outs[port.Name]); err != nil {
			ctxlog.FromContext(ctx).Error("Output computed twice in one pass.",
				"node", n.Label(), "output", port.Name, "error", err)
			return fail(n, port.Name, err)
		}
	}
	return nil
}

func (p *pass) outputsOf(id graph.NodeID) (map[string]cty.Value, error) {
	n, err := p.g.Node(id)
	if err != nil {
		return nil, &Error{Node: id, Err: err}
	}
	values := make(map[string]cty.Value, len(n.Outputs))
	for _, outID := range n.Outputs {
		port, err := p.g.OutputPort(outID)
		if err != nil {
			return nil, fail(n, "", err)
		}
		v, ok := p.cache.Get(outID)
		if !ok {
			return nil, fail(n, port.Name, fmt.Errorf("%s: %w", outID, ErrCacheNotPopulated))
		}
		values[port.Name] = v
	}
	return values, nil
}
