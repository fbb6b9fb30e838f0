package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Tree returns a depth-bounded textual tree of the workspace. Directories
// sort before files, alphabetically within each group, and the ignore
// rules apply to every entry.
func (w *Workspace) Tree(maxDepth int) string {
	lines := []string{w.root}
	lines = append(lines, w.buildTree(w.root, "", 0, maxDepth)...)
	return strings.Join(lines, "\n")
}

func (w *Workspace) buildTree(dir, prefix string, depth, maxDepth int) []string {
	if depth >= maxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // unreadable directories are silently skipped
	}

	var kept []os.DirEntry
	for _, entry := range entries {
		rel, err := filepath.Rel(w.root, filepath.Join(dir, entry.Name()))
		if err != nil || w.ShouldIgnore(filepath.ToSlash(rel)) {
			continue
		}
		kept = append(kept, entry)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].IsDir() != kept[j].IsDir() {
			return kept[i].IsDir()
		}
		return kept[i].Name() < kept[j].Name()
	})

	var lines []string
	for i, entry := range kept {
		last := i == len(kept)-1

		connector := "├── "
		childPrefix := "│   "
		if last {
			connector = "└── "
			childPrefix = "    "
		}

		lines = append(lines, prefix+connector+entry.Name())

		if entry.IsDir() {
			sub := w.buildTree(filepath.Join(dir, entry.Name()), prefix+childPrefix, depth+1, maxDepth)
			lines = append(lines, sub...)
		}
	}
	return lines
}

// Stats aggregates line counts across a set of files.
type Stats struct {
	TotalFiles   int
	TotalLines   int
	CodeLines    int
	CommentLines int
	BlankLines   int
}

// CountLines classifies every line in files selected by the pattern.
// A line is blank if empty after trimming, a comment if the trimmed line
// starts with the marker, otherwise code.
func (w *Workspace) CountLines(filePattern, commentMarker string) (Stats, error) {
	if commentMarker == "" {
		commentMarker = "#"
	}

	files, err := w.ListFiles(filePattern, true)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, rel := range files {
		content, err := w.ReadFile(rel)
		if err != nil || content == "" {
			continue
		}

		stats.TotalFiles++
		for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
			stats.TotalLines++
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				stats.BlankLines++
			case strings.HasPrefix(trimmed, commentMarker):
				stats.CommentLines++
			default:
				stats.CodeLines++
			}
		}
	}

	return stats, nil
}
