package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cobalt/internal/config"
	"cobalt/internal/logging"
)

var (
	// Global flags
	configPath    string
	workspaceFlag string
	endpointFlag  string
	modelFlag     string
	debugFlag     bool

	// Loaded in PersistentPreRunE, shared by all subcommands.
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cobalt",
	Short: "cobalt - local-first coding agent",
	Long: `cobalt is a coding agent that drives a local OpenAI-compatible model
(LM Studio, Ollama, vLLM) through a tool-calling loop.

The model reads, writes and searches files inside a sandboxed workspace
and runs commands through a confirmation gate. Nothing leaves the machine.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if debugFlag {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		if err := logging.Initialize(cfg.Workspace, logging.Options{
			Debug: cfg.Logging.Debug || debugFlag,
			Level: cfg.Logging.Level,
		}); err != nil {
			return fmt.Errorf("failed to initialize file logging: %w", err)
		}

		logging.Boot("cobalt starting, workspace=%s endpoint=%s model=%s",
			cfg.Workspace, cfg.LLM.Endpoint, cfg.LLM.Model)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig resolves the effective configuration: defaults, then the
// YAML file (when present), then COBALT_* environment variables, then
// command-line flags.
func loadConfig() (*config.Config, error) {
	c := config.DefaultConfig()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		c = loaded
	} else if _, err := os.Stat("cobalt.yaml"); err == nil {
		loaded, err := config.Load("cobalt.yaml")
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	c.ApplyEnvOverrides()

	if workspaceFlag != "" {
		c.Workspace = workspaceFlag
	}
	if endpointFlag != "" {
		c.LLM.Endpoint = endpointFlag
	}
	if modelFlag != "" {
		c.LLM.Model = modelFlag
	}
	if debugFlag {
		c.Logging.Debug = true
	}

	if err := c.ResolveWorkspace(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./cobalt.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Model endpoint base URL")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model name to request")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
