package shell

import (
	"context"
	"errors"
	"fmt"

	"cobalt/internal/executor"
	"cobalt/internal/tools"
)

// RunCommandTool returns a tool for executing terminal commands through
// the sandboxed executor.
func RunCommandTool(ex *executor.Executor) *tools.Tool {
	return &tools.Tool{
		Name:                 "run_command",
		Description:          "Execute a terminal/shell command. Use for running tests, installing packages, etc.",
		RequiresConfirmation: true,
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"command": {
					Type:        "string",
					Description: "Full command to execute (e.g. 'python test.py' or 'pip install requests')",
					Required:    true,
				},
				"reason": {
					Type:        "string",
					Description: "Brief explanation of why this command needs to run",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			command, _ := args["command"].(string)
			reason, _ := args["reason"].(string)

			res, err := ex.Run(ctx, command)
			if err != nil {
				out := ""
				meta := map[string]any{"command": command, "reason": reason}
				if res != nil {
					out = res.Output
					meta["returncode"] = res.ExitCode
				}
				failure := &tools.Result{
					Success:  false,
					Output:   out,
					Error:    err.Error(),
					Metadata: meta,
				}
				switch {
				case errors.Is(err, executor.ErrTimeout):
					failure.Error = fmt.Sprintf("Command timed out after %s", executor.Timeout)
				case errors.Is(err, executor.ErrNotFound):
					failure.Error = err.Error()
				}
				return failure
			}

			output := res.Output
			if output == "" {
				output = "(no output)"
			}
			return tools.OkMeta(output, map[string]any{
				"returncode": res.ExitCode,
				"command":    command,
				"reason":     reason,
			})
		},
	}
}

// Register adds the executor-bound tools to the registry.
func Register(reg *tools.Registry, ex *executor.Executor) {
	reg.MustRegister(RunCommandTool(ex))
}
