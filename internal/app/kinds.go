package app

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/vk/block/internal/template"
)

// Kinds prints every registered block kind with its parameters and the ports
// of its default instance.
func (a *App) Kinds() error {
	w := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPARAMS\tINPUTS\tOUTPUTS\tDESCRIPTION")
	for _, name := range a.registry.Names() {
		k, _ := a.registry.Lookup(name)

		params := make([]string, 0, len(k.Params))
		for _, p := range k.Params {
			if p.Default == nil {
				params = append(params, p.Name+"*")
			} else {
				params = append(params, p.Name)
			}
		}

		t, err := a.registry.Instantiate(name, k.Sample)
		if err != nil {
			return fmt.Errorf("kind '%s': %w", name, err)
		}
		ports := template.PortsOf(t)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name,
			orDash(params),
			orDash(ports.InputNames()),
			orDash(ports.OutputNames()),
			k.Description,
		)
	}
	return w.Flush()
}

func orDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
