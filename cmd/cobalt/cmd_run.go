package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cobalt/cmd/cobalt/ui"
	"cobalt/internal/agent"
	"cobalt/internal/executor"
	"cobalt/internal/llm"
	"cobalt/internal/tools"
	"cobalt/internal/tools/core"
	"cobalt/internal/tools/shell"
	"cobalt/internal/workspace"
)

// runCmd executes a single task through the agent loop
var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Execute a task through the agent loop",
	Long: `Sends the task to the model and loops: the model requests tool calls,
cobalt executes them (asking for confirmation on writes and commands),
feeds the results back, and repeats until the model declares completion
or the turn budget runs out.

Example:
  cobalt run "write a fizzbuzz script and run it"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

var (
	yesFlag      bool
	safeModeFlag bool
	maxTurnsFlag int
)

func init() {
	runCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip confirmation prompts (auto-approve)")
	runCmd.Flags().BoolVar(&safeModeFlag, "safe-mode", false, "Restrict commands to the allow-list")
	runCmd.Flags().IntVar(&maxTurnsFlag, "max-turns", 0, "Override the turn budget")
}

func runTask(cmd *cobra.Command, args []string) error {
	task := strings.Join(args, " ")

	if safeModeFlag {
		cfg.Agent.SafeMode = true
	}
	if maxTurnsFlag > 0 {
		cfg.Agent.MaxTurns = maxTurnsFlag
	}

	timeout, err := time.ParseDuration(cfg.LLM.Timeout)
	if err != nil {
		return fmt.Errorf("invalid llm timeout %q: %w", cfg.LLM.Timeout, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	ws, err := workspace.New(cfg.Workspace, cfg.IgnorePatterns)
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	ex := executor.New(cfg.Workspace, cfg.Agent.SafeMode)

	registry := tools.NewRegistry()
	core.Register(registry, ws)
	shell.Register(registry, ex)

	client := llm.NewClient(llm.ClientConfig{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		Timeout:  timeout,
	})

	console := ui.Console{}
	var gate agent.ConfirmationGate
	if yesFlag {
		gate = agent.GateFunc(func(agent.ToolCall, bool) agent.Decision {
			return agent.DecisionProceed
		})
	} else {
		gate = &terminalGate{in: bufio.NewReader(os.Stdin)}
	}

	ag := agent.New(agent.Options{
		WorkspaceRoot: cfg.Workspace,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		MaxTurns:      cfg.Agent.MaxTurns,
	}, client, registry, gate, console)

	fmt.Println(ui.Title("COBALT CODING AGENT"))
	fmt.Println(ui.Dim(fmt.Sprintf("workspace: %s", cfg.Workspace)))
	fmt.Println(ui.Dim(fmt.Sprintf("model: %s @ %s", cfg.LLM.Model, cfg.LLM.Endpoint)))
	console.Separator()

	report := ag.ExecuteTask(ctx, task)

	console.Separator()
	logger.Info("task finished",
		zap.String("run_id", report.RunID),
		zap.String("outcome", string(report.Outcome)),
		zap.Int("turns", report.Turns),
		zap.Int("tool_calls", report.ToolCalls),
	)

	switch report.Outcome {
	case agent.OutcomeCompleted:
		console.Success("Done in %d turns (%d tool calls)", report.Turns, report.ToolCalls)
	case agent.OutcomeTurnLimit:
		console.Warn("Turn limit reached after %d turns (%d tool calls)", report.Turns, report.ToolCalls)
	case agent.OutcomeUnparseable:
		console.Error("Could not understand the model's reply")
		return report.Err
	case agent.OutcomeGatewayError:
		console.Error("Model endpoint failed: %v", report.Err)
		return report.Err
	}
	return nil
}

// terminalGate asks the user on stdin before a gated tool call runs.
type terminalGate struct {
	in *bufio.Reader
}

func (g *terminalGate) Decide(call agent.ToolCall, allowView bool) agent.Decision {
	_, hasContent := call.Parameters["content"].(string)
	for {
		if allowView && hasContent {
			fmt.Print(ui.Prompt("Proceed? [y]es / [n]o / [v]iew content: "))
		} else {
			fmt.Print(ui.Prompt("Proceed? [y]es / [n]o: "))
		}

		line, err := g.in.ReadString('\n')
		if err != nil {
			return agent.DecisionCancel
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return agent.DecisionProceed
		case "n", "no", "":
			return agent.DecisionCancel
		case "v", "view":
			if allowView && hasContent {
				return agent.DecisionViewContent
			}
		}
	}
}
