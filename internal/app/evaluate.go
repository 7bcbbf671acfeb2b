package app

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/portref"
	"github.com/vk/block/internal/publish"
	"github.com/vk/block/internal/session"
	"github.com/zclconf/go-cty/cty"
)

// Evaluate computes target and prints the result. The target is either
// node.port, printing that output, or a bare node name, printing every
// output of the node. The result is published when publishing is enabled.
func (a *App) Evaluate(ctx context.Context, target string) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	sess, err := a.Load(ctx)
	if err != nil {
		return err
	}

	var report *publish.Report
	if ref, perr := portref.Parse(target); perr == nil {
		report, err = a.evaluateOutput(ctx, sess, ref)
	} else if ref, nerr := portref.ParseNode(target); nerr == nil {
		report, err = a.evaluateNode(ctx, sess, ref.Node)
	} else {
		return fmt.Errorf("invalid target '%s': %w", target, perr)
	}
	if err != nil {
		return err
	}

	if a.publisher == nil {
		return nil
	}
	report.Diagram = filepath.Base(a.config.DiagramPath)
	report.EvaluatedAt = time.Now().UTC()
	if err := a.publisher.Publish(ctx, report); err != nil {
		logger.Error("Failed to publish report.", "error", err)
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

func (a *App) evaluateOutput(ctx context.Context, sess *session.Session, ref portref.Ref) (*publish.Report, error) {
	out, err := sess.Output(ref)
	if err != nil {
		return nil, err
	}
	res, err := sess.Evaluate(ctx, out)
	if err != nil {
		return nil, err
	}

	value, err := publish.EncodeValue(res.Value)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.outW, "%s = %s\n", ref, value)

	report := &publish.Report{
		Target:   ref.String(),
		Type:     res.Value.Type().FriendlyName(),
		Value:    value,
		Outputs:  make(map[string]json.RawMessage, len(res.Outputs)),
		Computed: make([]string, 0, len(res.Computed)),
	}
	for id, v := range res.Outputs {
		label, err := sess.Label(id)
		if err != nil {
			return nil, err
		}
		if report.Outputs[label], err = publish.EncodeValue(v); err != nil {
			return nil, err
		}
	}
	for _, id := range res.Computed {
		report.Computed = append(report.Computed, sess.NodeLabel(id))
	}
	return report, nil
}

func (a *App) evaluateNode(ctx context.Context, sess *session.Session, name string) (*publish.Report, error) {
	n, err := sess.Node(name)
	if err != nil {
		return nil, err
	}
	values, err := sess.EvaluateNode(ctx, n.ID)
	if err != nil {
		return nil, err
	}

	report := &publish.Report{
		Target:   n.Label(),
		Type:     cty.DynamicPseudoType.FriendlyName(),
		Value:    json.RawMessage("null"),
		Outputs:  make(map[string]json.RawMessage, len(values)),
		Computed: []string{n.Label()},
	}
	for _, port := range slices.Sorted(maps.Keys(values)) {
		encoded, err := publish.EncodeValue(values[port])
		if err != nil {
			return nil, err
		}
		label := portref.New(n.Label(), port).String()
		fmt.Fprintf(a.outW, "%s = %s\n", label, encoded)
		report.Outputs[label] = encoded
	}
	return report, nil
}
