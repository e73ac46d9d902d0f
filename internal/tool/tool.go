package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	paceErrors "github.com/harunnryd/pace/internal/errors"
	"github.com/harunnryd/pace/internal/model/contract"
)

// Tool represents an executable capability.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// DirectReplier is implemented by tools whose result goes straight to the user.
type DirectReplier interface {
	DirectReply() bool
}

// IsDirect reports whether t asks for its result to bypass the model.
func IsDirect(t Tool) bool {
	d, ok := t.(DirectReplier)
	return ok && d.DirectReply()
}

// Registry holds all available tools in registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) error {
	name := NormalizeToolName(t.Name())
	if name == "" {
		return paceErrors.InvalidInput("tool: empty tool name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return paceErrors.InvalidInput(fmt.Sprintf("tool: %s already registered", name))
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[NormalizeToolName(name)]
	return t, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

func (r *Registry) GetDescriptors() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]

		var meta ToolMetadata
		if provider, ok := t.(MetadataProvider); ok {
			meta = provider.ToolMetadata()
		}
		meta = normalizeToolMetadata(meta)
		meta.Direct = meta.Direct || IsDirect(t)

		descriptors = append(descriptors, ToolDescriptor{
			Definition: contract.ToolDef{
				Name:        name,
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
			Metadata: meta,
		})
	}
	return descriptors
}

// Definitions returns the model-facing definitions of every registered tool.
func (r *Registry) Definitions() []contract.ToolDef {
	descriptors := r.GetDescriptors()
	defs := make([]contract.ToolDef, 0, len(descriptors))
	for _, d := range descriptors {
		defs = append(defs, d.Definition)
	}
	return defs
}

func NormalizeToolName(name string) string {
	return strings.TrimSpace(name)
}
