package core

import (
	"context"
	"strings"
	"testing"

	"cobalt/internal/tools"
	"cobalt/internal/workspace"
)

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	ws, err := workspace.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("workspace.New failed: %v", err)
	}
	reg := tools.NewRegistry()
	Register(reg, ws)
	return reg
}

func TestRegisterProvidesAllWorkspaceTools(t *testing.T) {
	reg := newRegistry(t)

	want := []string{
		"analyze_code", "create_file", "file_info", "get_tree",
		"list_files", "read_file", "search_code", "write_file",
	}
	names := reg.Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("position %d: expected %s, got %s", i, name, names[i])
		}
	}

	// Only the mutating tools are confirmation-gated.
	gated := map[string]bool{"create_file": true, "write_file": true}
	for _, tool := range reg.All() {
		if tool.RequiresConfirmation != gated[tool.Name] {
			t.Errorf("%s: RequiresConfirmation = %v", tool.Name, tool.RequiresConfirmation)
		}
	}
}

func TestCreateThenReadFile(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	res := reg.Execute(ctx, "create_file", map[string]any{
		"filepath": "pkg/mod.py",
		"content":  "x = 42\n",
		"reason":   "test fixture",
	})
	if !res.Success {
		t.Fatalf("create_file failed: %s", res.Error)
	}
	if !strings.Contains(res.Output, "Created pkg/mod.py") {
		t.Errorf("unexpected output: %q", res.Output)
	}
	if !strings.Contains(res.Output, "Reason: test fixture") {
		t.Errorf("reason missing from output: %q", res.Output)
	}

	res = reg.Execute(ctx, "read_file", map[string]any{"filepath": "pkg/mod.py"})
	if !res.Success {
		t.Fatalf("read_file failed: %s", res.Error)
	}
	if res.Output != "x = 42\n" {
		t.Errorf("content mismatch: %q", res.Output)
	}
}

func TestReadFileOutsideRoot(t *testing.T) {
	reg := newRegistry(t)

	res := reg.Execute(context.Background(), "read_file", map[string]any{
		"filepath": "../../etc/passwd",
	})
	if res.Success {
		t.Fatal("traversal read must fail")
	}
	if !strings.Contains(res.Error, "Failed to read file") {
		t.Errorf("unexpected error: %q", res.Error)
	}
}

func TestListFilesTool(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	for _, f := range []string{"a.py", "b.txt", "sub/c.py"} {
		res := reg.Execute(ctx, "create_file", map[string]any{"filepath": f, "content": "pass\n"})
		if !res.Success {
			t.Fatalf("setup failed for %s: %s", f, res.Error)
		}
	}

	res := reg.Execute(ctx, "list_files", map[string]any{"pattern": "*.py"})
	if !res.Success {
		t.Fatalf("list_files failed: %s", res.Error)
	}
	if res.Output != "a.py\nsub/c.py" {
		t.Errorf("unexpected listing: %q", res.Output)
	}
	if res.Metadata["count"] != 2 {
		t.Errorf("count metadata = %v", res.Metadata["count"])
	}

	// JSON booleans arrive as real bools; recursive=false stays shallow.
	res = reg.Execute(ctx, "list_files", map[string]any{"pattern": "*.py", "recursive": false})
	if !res.Success || res.Output != "a.py" {
		t.Errorf("non-recursive listing: %q", res.Output)
	}
}

func TestSearchCodeTool(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	reg.Execute(ctx, "create_file", map[string]any{
		"filepath": "app.py",
		"content":  "def run():\n    return 'ok'\n",
	})

	res := reg.Execute(ctx, "search_code", map[string]any{"pattern": "def run"})
	if !res.Success {
		t.Fatalf("search_code failed: %s", res.Error)
	}
	if !strings.Contains(res.Output, "app.py:1: def run():") {
		t.Errorf("match line missing: %q", res.Output)
	}

	res = reg.Execute(ctx, "search_code", map[string]any{"pattern": "nowhere_to_be_seen"})
	if !res.Success || res.Output != "No matches found" {
		t.Errorf("empty search: success=%v output=%q", res.Success, res.Output)
	}
}

func TestAnalyzeCodeTool(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	reg.Execute(ctx, "create_file", map[string]any{
		"filepath": "m.py",
		"content":  "# comment\n\ncode = 1\n",
	})

	res := reg.Execute(ctx, "analyze_code", map[string]any{"file_pattern": "*.py"})
	if !res.Success {
		t.Fatalf("analyze_code failed: %s", res.Error)
	}
	if !strings.Contains(res.Output, "Total Files: 1") {
		t.Errorf("output: %q", res.Output)
	}
	if res.Metadata["code_lines"] != 1 || res.Metadata["comment_lines"] != 1 || res.Metadata["blank_lines"] != 1 {
		t.Errorf("metadata: %v", res.Metadata)
	}
}

func TestGetTreeTool(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	reg.Execute(ctx, "create_file", map[string]any{"filepath": "dir/leaf.txt", "content": "x"})

	// max_depth arrives as float64 when decoded from JSON.
	res := reg.Execute(ctx, "get_tree", map[string]any{"max_depth": float64(2)})
	if !res.Success {
		t.Fatalf("get_tree failed: %s", res.Error)
	}
	if !strings.Contains(res.Output, "└── dir") || !strings.Contains(res.Output, "leaf.txt") {
		t.Errorf("tree output: %q", res.Output)
	}
	if res.Metadata["max_depth"] != 2 {
		t.Errorf("max_depth metadata = %v", res.Metadata["max_depth"])
	}
}

func TestFileInfoTool(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	reg.Execute(ctx, "create_file", map[string]any{"filepath": "data.json", "content": "{}"})

	res := reg.Execute(ctx, "file_info", map[string]any{"filepath": "data.json"})
	if !res.Success {
		t.Fatalf("file_info failed: %s", res.Error)
	}
	if !strings.Contains(res.Output, "Extension: .json") {
		t.Errorf("output: %q", res.Output)
	}
	if res.Metadata["is_dir"] != false {
		t.Errorf("is_dir = %v", res.Metadata["is_dir"])
	}

	res = reg.Execute(ctx, "file_info", map[string]any{"filepath": "absent.bin"})
	if res.Success {
		t.Error("missing file must fail")
	}
}
