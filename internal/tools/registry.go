package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cobalt/internal/logging"
)

// Registry holds all available tools and provides lookup. Tools are
// registered when the registry is built and the set is immutable for the
// session's lifetime; nothing registers after construction.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}

	r.tools[tool.Name] = tool

	logging.ToolsDebug("Registered tool: %s (confirm=%v)", tool.Name, tool.RequiresConfirmation)
	return nil
}

// MustRegister registers a tool and panics on error.
// Use this for static tool registration at construction time.
func (r *Registry) MustRegister(tool *Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Name, err))
	}
}

// Get returns a tool by name, or nil if not found. Names are
// case-sensitive.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// All returns all registered tools sorted by name, for prompt
// construction and user-facing listings.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs a tool by name. An unknown name or a missing required
// argument comes back as a failed Result, never as a panic; tool panics
// are recovered into failed Results too.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) *Result {
	tool := r.Get(name)
	if tool == nil {
		return &Result{
			ToolName: name,
			Success:  false,
			Error:    fmt.Sprintf("Tool not found: %s", name),
			Metadata: map[string]any{},
		}
	}
	return r.ExecuteTool(ctx, tool, args)
}

// ExecuteTool runs a specific tool with the given arguments.
func (r *Registry) ExecuteTool(ctx context.Context, tool *Tool, args map[string]any) (result *Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logging.ToolsError("tool %s panicked: %v", tool.Name, rec)
			result = Fail(fmt.Sprintf("tool %s failed: %v", tool.Name, rec))
		}
		result.ToolName = tool.Name
		result.DurationMs = time.Since(start).Milliseconds()
	}()

	for _, required := range tool.Schema.Required() {
		if _, ok := args[required]; !ok {
			return Fail(fmt.Sprintf("%v: %s", ErrMissingRequiredArg, required))
		}
	}

	logging.ToolsDebug("Executing tool: %s", tool.Name)
	result = tool.Execute(ctx, args)
	if result == nil {
		result = Fail(fmt.Sprintf("tool %s returned no result", tool.Name))
	}
	logging.ToolsDebug("Tool %s completed in %v (success=%v)", tool.Name, time.Since(start), result.Success)

	return result
}
