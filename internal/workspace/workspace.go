// Package workspace provides sandboxed file operations rooted at a fixed
// directory. Every path is resolved against the root and rejected if it
// escapes it; rejections come back as errors, never partial operations.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"cobalt/internal/logging"
)

// Workspace errors.
var (
	// ErrOutsideRoot is returned when a path resolves outside the workspace.
	ErrOutsideRoot = errors.New("path is outside workspace")

	// ErrNotFound is returned when a file does not exist or cannot be decoded.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidPattern is returned for unparseable search patterns.
	ErrInvalidPattern = errors.New("invalid search pattern")
)

// defaultIgnores are always active regardless of configuration.
var defaultIgnores = []string{
	"__pycache__", "*.pyc", ".git", ".venv", "venv", "node_modules",
}

// Workspace manages file operations within a sandboxed root directory.
type Workspace struct {
	root           string
	ignorePatterns []string
}

// New creates a workspace rooted at the given directory. The root is
// resolved to an absolute path once; it is immutable afterwards.
func New(root string, ignorePatterns []string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	// The root itself may sit behind a symlink (macOS /tmp). Resolving it
	// once keeps the containment comparison on real paths.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	patterns := make([]string, len(ignorePatterns))
	copy(patterns, ignorePatterns)
	for _, def := range defaultIgnores {
		found := false
		for _, p := range patterns {
			if p == def {
				found = true
				break
			}
		}
		if !found {
			patterns = append(patterns, def)
		}
	}

	return &Workspace{root: abs, ignorePatterns: patterns}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// resolve joins a relative path against the root and verifies containment.
// Symlinks are followed before the check, so a link inside the workspace
// cannot smuggle operations outside it.
func (w *Workspace) resolve(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(w.root, path))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	real, err := resolveSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	if real != w.root && !strings.HasPrefix(real, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return abs, nil
}

// resolveSymlinks follows symlinks in the deepest existing prefix of abs.
// Trailing components that do not exist yet (the write-path case) are
// joined back on unresolved; abs is already cleaned, so they contain no
// dot-dot segments.
func resolveSymlinks(abs string) (string, error) {
	remainder := ""
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		remainder = filepath.Join(filepath.Base(cur), remainder)
		cur = parent
	}
}

// ShouldIgnore reports whether a workspace-relative path matches any
// ignore rule. Three rules apply: directory-component match for patterns
// ending in a separator, glob match against the relative path, and plain
// substring containment.
func (w *Workspace) ShouldIgnore(rel string) bool {
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")

	for _, pattern := range w.ignorePatterns {
		if strings.HasSuffix(pattern, "/") {
			dir := strings.TrimSuffix(pattern, "/")
			for _, part := range parts {
				if part == dir {
					return true
				}
			}
			continue
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if strings.Contains(rel, pattern) {
			return true
		}
	}
	return false
}

// ListFiles returns workspace-relative paths of files whose base name
// matches the glob pattern, sorted, with ignore rules applied.
func (w *Workspace) ListFiles(pattern string, recursive bool) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	var files []string

	if recursive {
		err := filepath.Walk(w.root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped, not fatal
			}
			rel, relErr := filepath.Rel(w.root, p)
			if relErr != nil || rel == "." {
				return nil
			}
			if w.ShouldIgnore(rel) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}
			if ok, _ := filepath.Match(pattern, info.Name()); ok {
				files = append(files, filepath.ToSlash(rel))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk workspace: %w", err)
		}
	} else {
		entries, err := os.ReadDir(w.root)
		if err != nil {
			return nil, fmt.Errorf("failed to read workspace root: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || w.ShouldIgnore(entry.Name()) {
				continue
			}
			if ok, _ := filepath.Match(pattern, entry.Name()); ok {
				files = append(files, entry.Name())
			}
		}
	}

	sort.Strings(files)
	logging.WorkspaceDebug("list_files pattern=%q recursive=%v -> %d files", pattern, recursive, len(files))
	return files, nil
}

// ReadFile returns the content of a workspace file. UTF-8 is attempted
// first with a Latin-1 fallback for legacy encodings.
func (w *Workspace) ReadFile(path string) (string, error) {
	abs, err := w.resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	logging.WorkspaceDebug("read_file %s: latin-1 fallback", path)
	return string(decoded), nil
}

// WriteFile writes content to a workspace file, creating parent
// directories as needed. Existing content is overwritten.
func (w *Workspace) WriteFile(path, content string) error {
	abs, err := w.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create directories for %s: %w", path, err)
	}

	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Workspace("write_file %s (%d bytes)", path, len(content))
	return nil
}

// DeleteFile removes a workspace file. Deleting a missing file is an error.
func (w *Workspace) DeleteFile(path string) error {
	abs, err := w.resolve(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	logging.Workspace("delete_file %s", path)
	return nil
}

// FileExists reports whether a workspace path exists and is a regular file.
func (w *Workspace) FileExists(path string) bool {
	abs, err := w.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Match is one search hit: a workspace-relative path, a 1-based line
// number and the trimmed line text.
type Match struct {
	Path string
	Line int
	Text string
}

// SearchInFiles scans every file selected by the file pattern for the
// search pattern. An invalid regex aborts the whole search with an error
// rather than returning partial matches.
func (w *Workspace) SearchInFiles(pattern, filePattern string, caseSensitive, useRegex bool) ([]Match, error) {
	var re *regexp.Regexp
	if useRegex {
		expr := pattern
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		var err error
		re, err = regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}

	files, err := w.ListFiles(filePattern, true)
	if err != nil {
		return nil, err
	}

	needle := pattern
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}

	var results []Match
	for _, rel := range files {
		content, err := w.ReadFile(rel)
		if err != nil {
			continue
		}

		for i, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
			matched := false
			if useRegex {
				matched = re.MatchString(line)
			} else {
				haystack := line
				if !caseSensitive {
					haystack = strings.ToLower(haystack)
				}
				matched = strings.Contains(haystack, needle)
			}
			if matched {
				results = append(results, Match{Path: rel, Line: i + 1, Text: strings.TrimSpace(line)})
			}
		}
	}

	logging.WorkspaceDebug("search %q in %q -> %d matches", pattern, filePattern, len(results))
	return results, nil
}

// Info describes a single workspace entry.
type Info struct {
	Path      string
	Size      int64
	Modified  time.Time
	IsDir     bool
	Extension string
}

// FileInfo returns metadata for a workspace path.
func (w *Workspace) FileInfo(path string) (*Info, error) {
	abs, err := w.resolve(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return &Info{
		Path:      path,
		Size:      stat.Size(),
		Modified:  stat.ModTime(),
		IsDir:     stat.IsDir(),
		Extension: filepath.Ext(abs),
	}, nil
}
