package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/vk/block/internal/publish"
	"github.com/vk/block/internal/session"
)

// Inspect evaluates the named node and prints a table of its ports.
func (a *App) Inspect(ctx context.Context, name string) error {
	ctx = a.withLogger(ctx)

	sess, err := a.Load(ctx)
	if err != nil {
		return err
	}
	n, err := sess.Node(name)
	if err != nil {
		return err
	}
	insp, err := sess.Inspect(ctx, n.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%s (%s), %d node(s) computed\n", insp.Node.Label(), insp.Kind, insp.Computed)
	w := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIRECTION\tPORT\tTYPE\tVALUE\tLINKED")
	if err := writePorts(w, "in", insp.Inputs); err != nil {
		return err
	}
	if err := writePorts(w, "out", insp.Outputs); err != nil {
		return err
	}
	return w.Flush()
}

func writePorts(w *tabwriter.Writer, direction string, ports []session.PortView) error {
	for _, p := range ports {
		value, err := publish.EncodeValue(p.Value)
		if err != nil {
			return err
		}
		linked := p.Source
		if len(p.Consumers) > 0 {
			linked = strings.Join(p.Consumers, ",")
		}
		if linked == "" {
			linked = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", direction, p.Name, p.Type.FriendlyName(), value, linked)
	}
	return nil
}
