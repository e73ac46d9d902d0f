package apispec

import (
	"fmt"
	"os"

	paceErrors "github.com/harunnryd/pace/internal/errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Registry maps tool names to specs and keeps declaration order.
type Registry struct {
	specs *orderedmap.OrderedMap[string, ToolSpec]
}

func NewRegistry() *Registry {
	return &Registry{specs: orderedmap.New[string, ToolSpec]()}
}

// Add validates spec and stores it. Names must be unique.
func (r *Registry) Add(spec ToolSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, exists := r.specs.Get(spec.Name); exists {
		return paceErrors.InvalidInput(fmt.Sprintf("tool %s is declared more than once", spec.Name))
	}
	r.specs.Set(spec.Name, spec)
	return nil
}

func (r *Registry) Get(name string) (ToolSpec, bool) {
	return r.specs.Get(name)
}

func (r *Registry) Len() int {
	return r.specs.Len()
}

// Specs returns every spec in declaration order.
func (r *Registry) Specs() []ToolSpec {
	out := make([]ToolSpec, 0, r.specs.Len())
	for pair := r.specs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

type specFile struct {
	Tools []ToolSpec `yaml:"tools"`
}

// LoadFile adds every spec listed under the top-level "tools" key of a YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return paceErrors.Wrap(err, "read tool spec file")
	}

	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return paceErrors.InvalidInput(fmt.Sprintf("parse tool spec file %s: %v", path, err))
	}

	for _, spec := range f.Tools {
		if err := r.Add(spec); err != nil {
			return paceErrors.Wrap(err, path)
		}
	}
	return nil
}
