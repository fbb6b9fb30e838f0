// Package agent drives the multi-turn conversation loop between the model
// gateway and the tool registry. Each task execution owns its conversation
// state; the state is discarded when the task returns.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cobalt/internal/llm"
	"cobalt/internal/logging"
	"cobalt/internal/tools"
)

// Outcome classifies how a task execution ended.
type Outcome string

const (
	// OutcomeCompleted means the model signalled completion.
	OutcomeCompleted Outcome = "completed"

	// OutcomeTurnLimit means the turn budget ran out. Not a failure.
	OutcomeTurnLimit Outcome = "turn_limit"

	// OutcomeUnparseable means no tool call and no completion signal
	// could be recovered from a reply.
	OutcomeUnparseable Outcome = "unparseable"

	// OutcomeGatewayError means the model endpoint failed. Fatal to
	// the task; no retry is attempted.
	OutcomeGatewayError Outcome = "gateway_error"
)

// Done reports whether the outcome is a successful termination.
func (o Outcome) Done() bool {
	return o == OutcomeCompleted || o == OutcomeTurnLimit
}

// Report summarizes one task execution.
type Report struct {
	RunID     string
	Outcome   Outcome
	Turns     int
	ToolCalls int
	Err       error
}

// Options configures a task execution.
type Options struct {
	WorkspaceRoot string
	Temperature   float64
	MaxTokens     int
	MaxTurns      int
}

// DefaultMaxTurns caps the conversation when the caller does not.
const DefaultMaxTurns = 10

// Agent orchestrates the turn loop: model request, parse, confirmation,
// tool execution, history update.
type Agent struct {
	opts     Options
	gateway  llm.Gateway
	registry *tools.Registry
	gate     ConfirmationGate
	ui       UI
}

// New builds an agent. gate may be nil when no tool requires
// confirmation (tests); ui may be nil for a silent agent.
func New(opts Options, gateway llm.Gateway, registry *tools.Registry, gate ConfirmationGate, ui UI) *Agent {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if ui == nil {
		ui = NopUI{}
	}
	return &Agent{
		opts:     opts,
		gateway:  gateway,
		registry: registry,
		gate:     gate,
		ui:       ui,
	}
}

// ExecuteTask runs the multi-turn loop for one task until the model
// declares completion, a reply cannot be parsed, the gateway fails, or
// the turn budget runs out.
func (a *Agent) ExecuteTask(ctx context.Context, task string) *Report {
	report := &Report{RunID: uuid.NewString()}

	logging.Session("[%s] task started: %s", report.RunID, task)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.systemPrompt()},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Task: %s\nWorkspace: %s", task, a.opts.WorkspaceRoot)},
	}

	for turn := 1; turn <= a.opts.MaxTurns; turn++ {
		report.Turns = turn
		a.ui.Plain("\n[Turn %d/%d]", turn, a.opts.MaxTurns)
		a.ui.Info("Requesting AI action...")

		resp, err := a.gateway.Generate(ctx, messages, a.opts.Temperature, a.opts.MaxTokens)
		if err != nil {
			a.ui.Error("LLM failed: %v", err)
			logging.Session("[%s] gateway failure on turn %d: %v", report.RunID, turn, err)
			report.Outcome = OutcomeGatewayError
			report.Err = err
			return report
		}

		a.ui.Success("Response (%dms)", resp.LatencyMs)
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

		calls := Parse(resp.Content)

		if len(calls) == 0 {
			if LooksCompleted(resp.Content) {
				a.ui.Success("Task completed!")
				logging.Session("[%s] completed after %d turns", report.RunID, turn)
				report.Outcome = OutcomeCompleted
				return report
			}
			a.ui.Warn("No tool calls detected. Model may not understand the format.")
			logging.Session("[%s] unparseable reply on turn %d", report.RunID, turn)
			report.Outcome = OutcomeUnparseable
			report.Err = fmt.Errorf("response format not understood")
			return report
		}

		var summaries []string
		for i, call := range calls {
			result := a.executeCall(ctx, call, i+1, len(calls))
			report.ToolCalls++
			summaries = append(summaries, fmt.Sprintf("%s: %s", call.Name, summarize(result)))
		}

		if turn == a.opts.MaxTurns {
			// Budget exhausted without an explicit completion signal.
			logging.Session("[%s] turn limit reached", report.RunID)
			report.Outcome = OutcomeTurnLimit
			return report
		}

		resultsMsg := "Results:\n" + strings.Join(summaries, "\n") +
			"\n\nContinue or say 'Task completed'."
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: resultsMsg})
	}

	report.Outcome = OutcomeTurnLimit
	return report
}

// executeCall resolves one tool call through the confirmation gate and
// the registry. Every failure mode lands in the returned result; nothing
// escapes the turn loop.
func (a *Agent) executeCall(ctx context.Context, call ToolCall, index, total int) *tools.Result {
	a.ui.Separator()
	a.ui.Plain(">> AI wants to: %s (%d/%d)", call.Name, index, total)
	if call.Reasoning != "" {
		a.ui.Plain("   Reason: %s", call.Reasoning)
	}
	for key, value := range call.Parameters {
		text := fmt.Sprintf("%v", value)
		if key == "content" && len(text) > 200 {
			a.ui.Plain("     - %s: %s... (%d chars)", key, text[:200], len(text))
		} else {
			a.ui.Plain("     - %s: %s", key, text)
		}
	}

	tool := a.registry.Get(call.Name)
	if tool == nil {
		a.ui.Error("Tool not found: %s", call.Name)
		logging.ToolsError("unknown tool requested: %s", call.Name)
		return &tools.Result{
			ToolName: call.Name,
			Success:  false,
			Error:    fmt.Sprintf("Tool not found: %s", call.Name),
			Metadata: map[string]any{},
		}
	}

	if tool.RequiresConfirmation && a.gate != nil {
		decision := a.gate.Decide(call, true)
		if decision == DecisionViewContent {
			if content, ok := call.Parameters["content"].(string); ok {
				a.ui.Plain("\n%s\n%s\n%s", strings.Repeat("=", 80), content, strings.Repeat("=", 80))
			}
			decision = a.gate.Decide(call, false)
		}
		if decision != DecisionProceed {
			a.ui.Plain(">> Cancelled")
			logging.Tools("call to %s cancelled by user", call.Name)
			return &tools.Result{
				ToolName: call.Name,
				Success:  false,
				Output:   "Cancelled by user",
				Metadata: map[string]any{},
			}
		}
	}

	a.ui.Plain(">> Executing...")
	result := a.registry.Execute(ctx, call.Name, call.Parameters)

	if result.Success {
		a.ui.Success("Success!")
		if result.Output != "" {
			a.ui.Plain("%s", result.Output)
		}
	} else {
		a.ui.Error("Failed: %s", result.Error)
	}
	return result
}

// summarize renders a tool result for the feedback message. Failures are
// deliberately fed back so the model can correct itself.
func summarize(result *tools.Result) string {
	if result.Success {
		if result.Output != "" {
			return result.Output
		}
		return "Success"
	}
	if result.Error != "" {
		return "Error: " + result.Error
	}
	return "Error: " + result.Output
}
