package executor

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestRunEmptyCommand(t *testing.T) {
	e := New(t.TempDir(), false)
	for _, cmd := range []string{"", "   ", "\t\n"} {
		if _, err := e.Run(context.Background(), cmd); !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("Run(%q) = %v, want ErrEmptyCommand", cmd, err)
		}
	}
}

func TestSafeModeRejects(t *testing.T) {
	e := New(t.TempDir(), true)

	_, err := e.Run(context.Background(), "rm -rf /")
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	// The refusal must enumerate the allow-list.
	if !strings.Contains(err.Error(), "python") || !strings.Contains(err.Error(), "git") {
		t.Errorf("allow-list not enumerated: %v", err)
	}
}

func TestSafeModeAllowsInterpreter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on echo binary")
	}
	e := New(t.TempDir(), true)

	// echo is on the allow-list; the command itself must actually run.
	res, err := e.Run(context.Background(), "echo safe hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.Output, "safe hello") {
		t.Errorf("unexpected output: %q", res.Output)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code %d", res.ExitCode)
	}
}

func TestRunNotFound(t *testing.T) {
	e := New(t.TempDir(), false)

	_, err := e.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunCapturesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	e := New(t.TempDir(), false)

	res, err := e.Run(context.Background(), `sh -c "echo out; echo err 1>&2"`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.Output, "out") {
		t.Errorf("stdout missing: %q", res.Output)
	}
	if !strings.Contains(res.Output, "[stderr]: err") {
		t.Errorf("stderr marker missing: %q", res.Output)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	e := New(t.TempDir(), false)

	res, err := e.Run(context.Background(), `sh -c "exit 3"`)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if res == nil || res.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %+v", res)
	}
	if !strings.Contains(err.Error(), "exited with code 3") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestRunPinsWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on pwd")
	}
	dir := t.TempDir()
	e := New(dir, false)

	res, err := e.Run(context.Background(), "pwd")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.Output, dir) {
		t.Errorf("expected cwd %s, got %q", dir, res.Output)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"python test.py", []string{"python", "test.py"}},
		{`git commit -m "two words"`, []string{"git", "commit", "-m", "two words"}},
		// Malformed quoting falls back to whitespace splitting.
		{`echo "unclosed`, []string{"echo", `"unclosed`}},
	}
	for _, tt := range tests {
		got := splitCommand(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitCommand(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitCommand(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
