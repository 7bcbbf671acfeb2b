package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var (
	// ErrUnknownKind is returned when instantiating a kind that was never
	// registered.
	ErrUnknownKind = errors.New("unknown block kind")

	// ErrInvalidParams is returned when parameters are missing, undeclared
	// or of the wrong type.
	ErrInvalidParams = errors.New("invalid block parameters")
)

// ParamDefinition declares a single parameter of a kind.
type ParamDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	// Default is used when the parameter is omitted. A nil Default makes
	// the parameter required.
	Default *cty.Value
}

// Kind describes one block kind.
type Kind struct {
	Name        string
	Description string
	Params      []ParamDefinition
	// New builds the template from parameters that are complete and already
	// converted to their declared types.
	New func(params map[string]cty.Value) (template.Template, error)
	// Sample supplies values for required parameters when the registry is
	// validated.
	Sample map[string]cty.Value
}

// Registry holds the kinds available to one application instance.
type Registry struct {
	kinds map[string]*Kind
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds a kind. It panics if a kind with the same name exists.
func (r *Registry) Register(k *Kind) {
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("block kind with name '%s' already registered", k.Name))
	}
	slog.Debug("Registering block kind.", "name", k.Name)
	r.kinds[k.Name] = k
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Instantiate builds a template of the named kind. Omitted parameters take
// their defaults and every value is converted to its declared type.
func (r *Registry) Instantiate(kind string, params map[string]cty.Value) (template.Template, error) {
	k, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("'%s': %w", kind, ErrUnknownKind)
	}

	var problems []string
	for name := range params {
		if !slices.ContainsFunc(k.Params, func(p ParamDefinition) bool { return p.Name == name }) {
			problems = append(problems, fmt.Sprintf("unsupported parameter '%s'", name))
		}
	}

	resolved := make(map[string]cty.Value, len(k.Params))
	for _, def := range k.Params {
		v, ok := params[def.Name]
		if !ok || v.IsNull() {
			if def.Default == nil {
				problems = append(problems, fmt.Sprintf("missing required parameter '%s'", def.Name))
				continue
			}
			v = *def.Default
		}
		converted, err := convert.Convert(v, def.Type)
		if err != nil {
			problems = append(problems, fmt.Sprintf("parameter '%s': %s", def.Name, err))
			continue
		}
		resolved[def.Name] = converted
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("%s: %w: %s", kind, ErrInvalidParams, strings.Join(problems, "; "))
	}

	t, err := k.New(resolved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if err := template.Validate(t); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return t, nil
}
