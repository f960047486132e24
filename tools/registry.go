package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"google.golang.org/genai"
)

// ErrUnknownTool is returned for a tool the server did not declare.
var ErrUnknownTool = errors.New("tool not declared by the server")

// Lister fetches the tools declared by the tool server.
type Lister interface {
	ListTools(ctx context.Context) ([]Descriptor, error)
}

// Registry is the snapshot of remote tools taken once at startup. It is not
// refreshed during the session.
type Registry struct {
	tools map[string]Descriptor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Descriptor),
	}
}

// LoadRegistry fetches the tool list once and snapshots it.
func LoadRegistry(ctx context.Context, lister Lister) (*Registry, error) {
	descriptors, err := lister.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tools: %w", err)
	}

	r := NewRegistry()
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, errors.New("loading tools: tool without a name")
		}
		r.Register(d)
	}
	return r, nil
}

// Register adds a tool to the registry
func (r *Registry) Register(d Descriptor) {
	r.tools[d.Name] = d
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// All returns all registered tools sorted by name.
func (r *Registry) All() []Descriptor {
	result := make([]Descriptor, 0, len(r.tools))
	for _, d := range r.tools {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// ToGeminiFormat converts all tools to Gemini function declarations.
func (r *Registry) ToGeminiFormat() []*genai.FunctionDeclaration {
	all := r.All()
	result := make([]*genai.FunctionDeclaration, 0, len(all))
	for _, d := range all {
		result = append(result, &genai.FunctionDeclaration{
			Name:                 d.Name,
			Description:          d.Description,
			ParametersJsonSchema: d.ParametersJSONSchema(),
		})
	}
	return result
}
