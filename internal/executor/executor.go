// Package executor runs external commands on behalf of the agent. Commands
// execute with the workspace root as working directory, a hard timeout, and
// no shell interpretation. Safe mode restricts execution to an allow-listed
// set of executable-name prefixes.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"cobalt/internal/logging"
)

// Executor errors.
var (
	// ErrEmptyCommand is returned when the command line has no tokens.
	ErrEmptyCommand = errors.New("empty command")

	// ErrNotAllowed is returned when safe mode refuses the executable.
	ErrNotAllowed = errors.New("command not allowed in safe mode")

	// ErrTimeout is returned when the command exceeds the execution timeout.
	ErrTimeout = errors.New("command timed out")

	// ErrNotFound is returned when the executable cannot be located.
	ErrNotFound = errors.New("command not found")
)

// Timeout is the hard limit for a single command execution.
const Timeout = 60 * time.Second

// allowedPrefixes is the safe-mode allow-list: interpreters and common
// dev tools. The first token of the command line must start with one of
// these names.
var allowedPrefixes = []string{
	"python", "python3", "pip", "pip3", "node", "npm", "npx",
	"ls", "dir", "cat", "type", "echo", "git", "pytest", "test",
}

// Result carries the outcome of one command execution.
type Result struct {
	Output   string
	ExitCode int
}

// Executor runs commands pinned to a working directory.
type Executor struct {
	workDir  string
	safeMode bool
}

// New creates an executor. workDir should be the workspace root.
func New(workDir string, safeMode bool) *Executor {
	return &Executor{workDir: workDir, safeMode: safeMode}
}

// SafeMode reports whether the allow-list is active.
func (e *Executor) SafeMode() bool {
	return e.safeMode
}

// AllowedPrefixes returns the safe-mode allow-list.
func AllowedPrefixes() []string {
	out := make([]string, len(allowedPrefixes))
	copy(out, allowedPrefixes)
	return out
}

// splitCommand tokenizes a command line with shell-word rules, falling
// back to naive whitespace splitting when quoting is malformed.
func splitCommand(commandLine string) []string {
	parts, err := shlex.Split(commandLine)
	if err != nil {
		return strings.Fields(commandLine)
	}
	return parts
}

// Run executes the command line. Arguments are passed literally to the
// process; there is no shell in between.
func (e *Executor) Run(ctx context.Context, commandLine string) (*Result, error) {
	parts := splitCommand(commandLine)
	if len(parts) == 0 {
		return nil, ErrEmptyCommand
	}

	base := parts[0]

	if e.safeMode {
		allowed := false
		for _, prefix := range allowedPrefixes {
			if strings.HasPrefix(base, prefix) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %q (allowed: %s)",
				ErrNotAllowed, base, strings.Join(allowedPrefixes, ", "))
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, base, parts[1:]...)
	cmd.Dir = e.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Exec("run: %s (dir=%s)", commandLine, e.workDir)

	err := cmd.Run()

	output := stdout.String()
	if stderr.Len() > 0 {
		output += fmt.Sprintf("\n[stderr]: %s", stderr.String())
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logging.Exec("run timed out: %s", commandLine)
		return &Result{Output: output, ExitCode: -1},
			fmt.Errorf("%w after %s", ErrTimeout, Timeout)
	}

	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, base)
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		logging.Exec("run failed: %s (exit=%d)", commandLine, exitCode)
		return &Result{Output: output, ExitCode: exitCode},
			fmt.Errorf("command exited with code %d", exitCode)
	}

	logging.Exec("run completed: %s (%d bytes output)", commandLine, len(output))
	return &Result{Output: output, ExitCode: 0}, nil
}
