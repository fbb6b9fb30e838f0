package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func newWorkspace(t *testing.T, patterns []string) (*Workspace, string) {
	t.Helper()
	root := t.TempDir()
	w, err := New(root, patterns)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w, root
}

func TestResolveRejectsTraversal(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	bad := []string{
		"../../etc/passwd",
		"..",
		"../sibling",
		"a/../../outside",
	}
	for _, path := range bad {
		if _, err := w.ReadFile(path); !errors.Is(err, ErrOutsideRoot) {
			t.Errorf("ReadFile(%q) = %v, want ErrOutsideRoot", path, err)
		}
		if err := w.WriteFile(path, "x"); !errors.Is(err, ErrOutsideRoot) {
			t.Errorf("WriteFile(%q) = %v, want ErrOutsideRoot", path, err)
		}
		if err := w.DeleteFile(path); !errors.Is(err, ErrOutsideRoot) {
			t.Errorf("DeleteFile(%q) = %v, want ErrOutsideRoot", path, err)
		}
	}

	// The write attempts above must not have created anything outside.
	if _, err := os.Stat(filepath.Join(w.Root(), "..", "outside")); err == nil {
		t.Error("traversal write escaped the root")
	}
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	w, root := newWorkspace(t, nil)

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("outside-data"), 0644); err != nil {
		t.Fatal(err)
	}

	// Directory symlink inside the workspace pointing outside.
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.ReadFile("link/secret.txt"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("ReadFile through dir symlink = %v, want ErrOutsideRoot", err)
	}
	if err := w.WriteFile("link/planted.txt", "x"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("WriteFile through dir symlink = %v, want ErrOutsideRoot", err)
	}
	if err := w.DeleteFile("link/secret.txt"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("DeleteFile through dir symlink = %v, want ErrOutsideRoot", err)
	}
	if _, err := os.Stat(filepath.Join(outside, "secret.txt")); err != nil {
		t.Error("outside file was touched through the symlink")
	}
	if _, err := os.Stat(filepath.Join(outside, "planted.txt")); err == nil {
		t.Error("write escaped the root through the symlink")
	}

	// File symlink aimed directly at an outside file.
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "alias.txt")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.ReadFile("alias.txt"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("ReadFile through file symlink = %v, want ErrOutsideRoot", err)
	}
	if err := w.WriteFile("alias.txt", "overwrite"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("WriteFile through file symlink = %v, want ErrOutsideRoot", err)
	}
}

func TestResolveAllowsSymlinkWithinRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	w, root := newWorkspace(t, nil)

	if err := w.WriteFile("real/data.txt", "inside"); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(w.Root(), "real"), filepath.Join(root, "shortcut")); err != nil {
		t.Fatal(err)
	}

	got, err := w.ReadFile("shortcut/data.txt")
	if err != nil {
		t.Fatalf("ReadFile through in-root symlink failed: %v", err)
	}
	if got != "inside" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	content := "héllo wörld\nsecond line\n\ttabs too\n"
	if err := w.WriteFile("sub/dir/file.txt", content); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := w.ReadFile("sub/dir/file.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != content {
		t.Errorf("roundtrip mismatch: %q != %q", got, content)
	}
}

func TestReadFileLatin1Fallback(t *testing.T) {
	w, root := newWorkspace(t, nil)

	// 0xE9 is é in Latin-1 but invalid as a standalone UTF-8 byte.
	raw := []byte{'c', 'a', 'f', 0xE9}
	if err := os.WriteFile(filepath.Join(root, "legacy.txt"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := w.ReadFile("legacy.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != "café" {
		t.Errorf("expected café, got %q", got)
	}
}

func TestReadFileMissing(t *testing.T) {
	w, _ := newWorkspace(t, nil)
	if _, err := w.ReadFile("absent.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteFile(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	if err := w.WriteFile("gone.txt", "x"); err != nil {
		t.Fatal(err)
	}
	if err := w.DeleteFile("gone.txt"); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if w.FileExists("gone.txt") {
		t.Error("file still exists after delete")
	}

	// Deleting again is an error, not a silent no-op.
	if err := w.DeleteFile("gone.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilesIgnoresAndSorts(t *testing.T) {
	w, _ := newWorkspace(t, []string{"*.log"})

	for _, f := range []string{"b.py", "a.py", "keep.txt", "noise.log", "__pycache__/c.pyc", "pkg/d.py"} {
		if err := w.WriteFile(f, "pass\n"); err != nil {
			t.Fatal(err)
		}
	}

	files, err := w.ListFiles("*.py", true)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	want := []string{"a.py", "b.py", "pkg/d.py"}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], files[i])
		}
	}

	all, err := w.ListFiles("*", true)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range all {
		if strings.HasSuffix(f, ".log") || strings.Contains(f, "__pycache__") {
			t.Errorf("ignored file leaked into listing: %s", f)
		}
	}
}

func TestListFilesNonRecursive(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	if err := w.WriteFile("top.py", "x"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFile("pkg/nested.py", "x"); err != nil {
		t.Fatal(err)
	}

	files, err := w.ListFiles("*.py", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != "top.py" {
		t.Errorf("expected only top.py, got %v", files)
	}
}

func TestShouldIgnore(t *testing.T) {
	w, _ := newWorkspace(t, []string{"build/", "*.tmp", "secret"})

	tests := []struct {
		rel  string
		want bool
	}{
		{"build/out.bin", true},        // dir-component rule
		{"pkg/build/x.go", true},       // dir component anywhere
		{"scratch.tmp", true},          // glob rule
		{"notes/secret_plan.md", true}, // substring rule
		{"main.go", false},
		{"builder.go", false}, // "build/" must not match as substring
	}
	for _, tt := range tests {
		if got := w.ShouldIgnore(tt.rel); got != tt.want {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestSearchInFiles(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	if err := w.WriteFile("a.py", "import os\ndef main():\n    pass\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFile("b.py", "# DEF is not a def\ndef helper():\n    return 1\n"); err != nil {
		t.Fatal(err)
	}

	// Case-insensitive substring search.
	matches, err := w.SearchInFiles("DEF", "*.py", false, false)
	if err != nil {
		t.Fatalf("SearchInFiles failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d: %v", len(matches), matches)
	}

	// Case-sensitive regex search.
	matches, err = w.SearchInFiles(`^def \w+`, "*.py", true, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 regex matches, got %d", len(matches))
	}
	if matches[0].Path != "a.py" || matches[0].Line != 2 {
		t.Errorf("unexpected first match: %+v", matches[0])
	}
	if matches[0].Text != "def main():" {
		t.Errorf("expected trimmed line text, got %q", matches[0].Text)
	}
}

func TestSearchInFilesInvalidRegex(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	if err := w.WriteFile("a.py", "anything\n"); err != nil {
		t.Fatal(err)
	}

	matches, err := w.SearchInFiles("[unclosed", "*.py", true, true)
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
	if matches != nil {
		t.Errorf("invalid regex must yield no partial matches, got %v", matches)
	}
}

func TestTree(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	for _, f := range []string{"zfile.txt", "pkg/inner.py", "pkg/sub/deep.py", "afile.txt"} {
		if err := w.WriteFile(f, "x"); err != nil {
			t.Fatal(err)
		}
	}

	tree := w.Tree(2)
	lines := strings.Split(tree, "\n")

	if lines[0] != w.Root() {
		t.Errorf("first line should be the root, got %q", lines[0])
	}
	// pkg (dir) sorts before the files despite 'afile' < 'pkg'.
	if !strings.Contains(lines[1], "pkg") {
		t.Errorf("expected pkg first, got %q", lines[1])
	}
	if !strings.Contains(tree, "├── ") || !strings.Contains(tree, "└── ") {
		t.Error("tree connectors missing")
	}
	// Depth 2 stops above deep.py.
	if strings.Contains(tree, "deep.py") {
		t.Error("maxDepth not honored")
	}
}

func TestCountLines(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	content := "# header comment\n\nx = 1\ny = 2\n  # indented comment\n"
	if err := w.WriteFile("stats.py", content); err != nil {
		t.Fatal(err)
	}

	stats, err := w.CountLines("*.py", "#")
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}

	if stats.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", stats.TotalFiles)
	}
	if stats.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", stats.TotalLines)
	}
	if stats.CommentLines != 2 {
		t.Errorf("CommentLines = %d, want 2", stats.CommentLines)
	}
	if stats.BlankLines != 1 {
		t.Errorf("BlankLines = %d, want 1", stats.BlankLines)
	}
	if stats.CodeLines != 2 {
		t.Errorf("CodeLines = %d, want 2", stats.CodeLines)
	}
}

func TestFileInfo(t *testing.T) {
	w, _ := newWorkspace(t, nil)

	if err := w.WriteFile("info.py", "print()\n"); err != nil {
		t.Fatal(err)
	}

	info, err := w.FileInfo("info.py")
	if err != nil {
		t.Fatalf("FileInfo failed: %v", err)
	}
	if info.Size != int64(len("print()\n")) {
		t.Errorf("Size = %d", info.Size)
	}
	if info.IsDir {
		t.Error("IsDir should be false")
	}
	if info.Extension != ".py" {
		t.Errorf("Extension = %q", info.Extension)
	}
}
