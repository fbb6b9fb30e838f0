// Package config holds all cobalt configuration: workspace location, LLM
// endpoint settings, agent behavior and logging. Configuration is loaded from
// YAML with COBALT_* environment variables layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all cobalt configuration.
type Config struct {
	// Workspace is the root directory all tool file operations are
	// sandboxed to.
	Workspace string `yaml:"workspace"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Agent behavior
	Agent AgentConfig `yaml:"agent"`

	// Ignore patterns for workspace file listings (gitignore-style).
	IgnorePatterns []string `yaml:"ignore_patterns"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the model endpoint.
type LLMConfig struct {
	Endpoint    string  `yaml:"endpoint"` // OpenAI-compatible base URL
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"` // request timeout, e.g. "120s"
}

// AgentConfig configures the conversation loop.
type AgentConfig struct {
	// MaxTurns caps the number of model round-trips per task.
	MaxTurns int `yaml:"max_turns"`

	// SafeMode restricts run_command to an allow-listed set of
	// executable-name prefixes.
	SafeMode bool `yaml:"safe_mode"`
}

// LoggingConfig configures the category file loggers.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return &Config{
		Workspace: cwd,

		LLM: LLMConfig{
			Endpoint:    "http://localhost:1234",
			Model:       "local-model",
			Temperature: 0.7,
			MaxTokens:   4096,
			Timeout:     "120s",
		},

		Agent: AgentConfig{
			MaxTurns: 10,
			SafeMode: false,
		},

		IgnorePatterns: []string{
			"__pycache__",
			"*.pyc",
			".git",
			".venv",
			"venv",
			"node_modules",
			".env",
		},

		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnvOverrides layers COBALT_* environment variables over the config.
// Unparseable numeric values are ignored rather than failing startup.
func (c *Config) ApplyEnvOverrides() {
	if ws := os.Getenv("COBALT_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	if endpoint := os.Getenv("COBALT_ENDPOINT"); endpoint != "" {
		c.LLM.Endpoint = endpoint
	}
	if model := os.Getenv("COBALT_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if temp := os.Getenv("COBALT_TEMPERATURE"); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			c.LLM.Temperature = v
		}
	}
	if tokens := os.Getenv("COBALT_MAX_TOKENS"); tokens != "" {
		if v, err := strconv.Atoi(tokens); err == nil {
			c.LLM.MaxTokens = v
		}
	}
}

// Validate checks the configuration for values the agent cannot run with.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Workspace)
	if err != nil {
		return fmt.Errorf("workspace does not exist: %s", c.Workspace)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace is not a directory: %s", c.Workspace)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2: %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive: %d", c.LLM.MaxTokens)
	}
	if c.Agent.MaxTurns < 1 {
		return fmt.Errorf("max_turns must be positive: %d", c.Agent.MaxTurns)
	}

	return nil
}

// ResolveWorkspace normalizes the workspace path to an absolute path.
func (c *Config) ResolveWorkspace() error {
	abs, err := filepath.Abs(c.Workspace)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace path: %w", err)
	}
	c.Workspace = abs
	return nil
}
