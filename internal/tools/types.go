// Package tools provides the tool descriptors the agent can invoke and the
// registry that holds them. The tool set is fixed when the registry is
// built; execution is uniform over a single ExecuteFunc capability so the
// registry never needs to know concrete tool types.
package tools

import (
	"context"
	"sort"
)

// Property describes a single parameter for the JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"-"`
}

// Schema defines the expected arguments of a tool.
type Schema struct {
	Properties map[string]Property
}

// Required returns the names of required parameters, sorted.
func (s Schema) Required() []string {
	var req []string
	for name, prop := range s.Properties {
		if prop.Required {
			req = append(req, name)
		}
	}
	sort.Strings(req)
	return req
}

// ExecuteFunc is the signature for tool execution. It never panics its
// failures outward; anything that goes wrong becomes a failed Result.
type ExecuteFunc func(ctx context.Context, args map[string]any) *Result

// Tool pairs a descriptor with its execution capability.
type Tool struct {
	// Name is the unique, case-sensitive identifier.
	Name string

	// Description explains what the tool does. Used in the system
	// prompt and user-facing listings.
	Description string

	// Schema defines the expected arguments.
	Schema Schema

	// RequiresConfirmation marks tools that must pass the confirmation
	// gate before executing.
	RequiresConfirmation bool

	// Execute runs the tool.
	Execute ExecuteFunc
}

// Validate checks if the tool definition is usable.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// FunctionSpec renders the descriptor in function-calling-style schema
// form, independent of the text-parsing path.
func (t *Tool) FunctionSpec() map[string]any {
	props := make(map[string]any, len(t.Schema.Properties))
	for name, prop := range t.Schema.Properties {
		props[name] = map[string]any{
			"type":        prop.Type,
			"description": prop.Description,
		}
	}
	return map[string]any{
		"name":        t.Name,
		"description": t.Description,
		"parameters": map[string]any{
			"type":       "object",
			"properties": props,
			"required":   t.Schema.Required(),
		},
	}
}

// Result is the outcome of one tool execution. Exactly one Result is
// produced per executed call; failures are carried here, never raised.
type Result struct {
	// ToolName identifies which tool produced the result.
	ToolName string

	// Success reports whether the tool did what was asked.
	Success bool

	// Output is the text fed back into the conversation.
	Output string

	// Error holds the failure description when Success is false.
	Error string

	// Metadata carries structured extras (sizes, exit codes, counts).
	Metadata map[string]any

	// DurationMs is how long execution took.
	DurationMs int64
}

// Ok builds a successful result.
func Ok(output string) *Result {
	return &Result{Success: true, Output: output, Metadata: map[string]any{}}
}

// OkMeta builds a successful result with metadata.
func OkMeta(output string, metadata map[string]any) *Result {
	return &Result{Success: true, Output: output, Metadata: metadata}
}

// Fail builds a failed result.
func Fail(errText string) *Result {
	return &Result{Success: false, Error: errText, Metadata: map[string]any{}}
}
