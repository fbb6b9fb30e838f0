package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cobalt/cmd/cobalt/ui"
	"cobalt/internal/executor"
)

// statusCmd shows the effective configuration
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Title("cobalt status"))
		fmt.Printf("  workspace:    %s\n", cfg.Workspace)
		fmt.Printf("  endpoint:     %s\n", cfg.LLM.Endpoint)
		fmt.Printf("  model:        %s\n", cfg.LLM.Model)
		fmt.Printf("  temperature:  %v\n", cfg.LLM.Temperature)
		fmt.Printf("  max tokens:   %d\n", cfg.LLM.MaxTokens)
		fmt.Printf("  max turns:    %d\n", cfg.Agent.MaxTurns)
		fmt.Printf("  safe mode:    %v\n", cfg.Agent.SafeMode)
		fmt.Printf("  debug logs:   %v\n", cfg.Logging.Debug)
		if cfg.Agent.SafeMode {
			fmt.Println(ui.Dim("  allowed commands: " + strings.Join(executor.AllowedPrefixes(), ", ")))
		}
		return nil
	},
}
