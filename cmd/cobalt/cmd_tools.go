package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cobalt/cmd/cobalt/ui"
	"cobalt/internal/executor"
	"cobalt/internal/tools"
	"cobalt/internal/tools/core"
	"cobalt/internal/tools/shell"
	"cobalt/internal/workspace"
)

// toolsCmd lists the registered tools
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available to the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := workspace.New(cfg.Workspace, cfg.IgnorePatterns)
		if err != nil {
			return fmt.Errorf("failed to open workspace: %w", err)
		}
		ex := executor.New(cfg.Workspace, cfg.Agent.SafeMode)

		registry := tools.NewRegistry()
		core.Register(registry, ws)
		shell.Register(registry, ex)

		fmt.Println(ui.Title(fmt.Sprintf("Registered tools (%d)", registry.Count())))
		for _, tool := range registry.All() {
			marker := " "
			if tool.RequiresConfirmation {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s\n", marker, tool.Name, tool.Description)
			if required := tool.Schema.Required(); len(required) > 0 {
				fmt.Println(ui.Dim(fmt.Sprintf("    required: %s", strings.Join(required, ", "))))
			}
		}
		fmt.Println(ui.Dim("\n* requires confirmation"))
		return nil
	},
}
