package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cobalt/cmd/cobalt/ui"
	"cobalt/internal/llm"
)

// checkCmd verifies the model endpoint is reachable
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the model endpoint is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := llm.NewClient(llm.ClientConfig{
			Endpoint: cfg.LLM.Endpoint,
			Model:    cfg.LLM.Model,
			Timeout:  10 * time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		console := ui.Console{}
		console.Info("Checking %s ...", cfg.LLM.Endpoint)
		if err := client.CheckConnection(ctx); err != nil {
			console.Error("Endpoint unreachable: %v", err)
			return fmt.Errorf("endpoint check failed: %w", err)
		}
		console.Success("Endpoint is up")
		return nil
	},
}
