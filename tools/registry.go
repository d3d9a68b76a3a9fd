// Package tools holds the fixed catalog of tools the model may invoke and
// the adapters behind them.
package tools

import (
	"context"

	"github.com/cantorix/aide/domain"
	"github.com/cantorix/aide/llm"
)

// HandlerFunc executes a tool. Handlers never return a Go error: every
// failure mode collapses into the result's success/error fields.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) interface{}

// Tool is a registered tool.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Category    string
	Enabled     bool
	Handler     HandlerFunc
}

// Registry holds the tool catalog. It is populated once at startup and
// immutable for the process lifetime.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the catalog.
func (r *Registry) Register(t *Tool) {
	if _, ok := r.tools[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.tools)
}

// List returns the public descriptions of all registered tools, in
// registration order.
func (r *Registry) List() []domain.ToolInfo {
	infos := make([]domain.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		infos = append(infos, domain.ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
		})
	}
	return infos
}

// Specs returns the enabled tools in the model-facing wire format.
func (r *Registry) Specs() []llm.Tool {
	specs := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		if !t.Enabled {
			continue
		}
		specs = append(specs, llm.Tool{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return specs
}

// ErrorResult is the uniform failure shape for calls that never started
// (blocked by policy, broken dispatch).
type ErrorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func queryParam(args map[string]interface{}) string {
	return stringArg(args, "query")
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
