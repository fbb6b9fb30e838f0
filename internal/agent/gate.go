package agent

// Decision is the user's answer to a confirmation prompt.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionProceed
	DecisionViewContent
)

// ConfirmationGate asks the user whether a gated tool call may run.
// allowView indicates whether a "view content first" answer is still
// available; after content has been shown the gate is asked again with
// allowView false and must return proceed or cancel.
type ConfirmationGate interface {
	Decide(call ToolCall, allowView bool) Decision
}

// GateFunc adapts a function to the ConfirmationGate interface.
type GateFunc func(call ToolCall, allowView bool) Decision

func (f GateFunc) Decide(call ToolCall, allowView bool) Decision {
	return f(call, allowView)
}

// UI receives the agent's progress narration. Implementations decide
// how to render it; the agent never writes to stdout directly.
type UI interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Plain(format string, args ...any)
	Separator()
}

// NopUI discards all output. Used when the agent runs headless.
type NopUI struct{}

func (NopUI) Info(string, ...any)    {}
func (NopUI) Success(string, ...any) {}
func (NopUI) Warn(string, ...any)    {}
func (NopUI) Error(string, ...any)   {}
func (NopUI) Plain(string, ...any)   {}
func (NopUI) Separator()             {}
