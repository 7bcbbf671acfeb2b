package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ValidateRegistry checks that every kind is internally consistent: defaults
// match their parameter types, the kind instantiates from its defaults and
// samples, the built template reports the kind's name, and its ports are
// uniquely named with defaults of the declared type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		k := r.kinds[name]
		if k.New == nil {
			errs = append(errs, fmt.Sprintf("kind '%s': no constructor", name))
			continue
		}

		for _, p := range k.Params {
			if p.Type.Equals(cty.DynamicPseudoType) {
				logger.Debug("Kind has parameter with 'type = any', which disables static type checking.", "kind", name, "param", p.Name)
			}
			if p.Default == nil {
				if _, ok := k.Sample[p.Name]; !ok {
					errs = append(errs, fmt.Sprintf("kind '%s', parameter '%s': required but has no sample value", name, p.Name))
				}
				continue
			}
			if _, err := convert.Convert(*p.Default, p.Type); err != nil {
				errs = append(errs, fmt.Sprintf("kind '%s', parameter '%s': default does not match type '%s': %v", name, p.Name, p.Type.FriendlyName(), err))
			}
		}

		t, err := r.Instantiate(name, k.Sample)
		if err != nil {
			errs = append(errs, fmt.Sprintf("kind '%s': cannot instantiate: %v", name, err))
			continue
		}
		if got := t.Kind().String(); got != name {
			errs = append(errs, fmt.Sprintf("kind '%s': builds a template of kind '%s'", name, got))
		}

		ports := template.PortsOf(t)
		errs = append(errs, checkPorts(name, "input", ports.Inputs)...)
		errs = append(errs, checkPorts(name, "output", ports.Outputs)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func checkPorts(kind, direction string, specs []template.PortSpec) []string {
	var errs []string
	seen := make(map[string]bool, len(specs))
	for _, p := range specs {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("kind '%s': %s with empty name", kind, direction))
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("kind '%s': duplicate %s '%s'", kind, direction, p.Name))
		}
		seen[p.Name] = true

		if p.Default == cty.NilVal || p.Type.Equals(cty.DynamicPseudoType) {
			continue
		}
		if !p.Default.Type().Equals(p.Type) {
			errs = append(errs, fmt.Sprintf("kind '%s', %s '%s': default of type '%s' does not match declared '%s'",
				kind, direction, p.Name, p.Default.Type().FriendlyName(), p.Type.FriendlyName()))
		}
	}
	return errs
}
