package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cobalt/cmd/cobalt/ui"
	"cobalt/internal/config"
)

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default cobalt.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "cobalt.yaml"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}

		console := ui.Console{}
		console.Success("Wrote %s", path)
		fmt.Println(ui.Dim("Edit the endpoint and model, then try: cobalt check"))
		return nil
	},
}
