package core

import (
	"context"
	"fmt"
	"strings"

	"cobalt/internal/tools"
	"cobalt/internal/workspace"
)

// SearchCodeTool returns a tool for searching text patterns in files.
func SearchCodeTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:        "search_code",
		Description: "Search for text patterns in code files",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"pattern": {
					Type:        "string",
					Description: "Text or regex pattern to search for",
					Required:    true,
				},
				"file_pattern": {
					Type:        "string",
					Description: "File pattern to search in (default: *)",
				},
				"regex": {
					Type:        "boolean",
					Description: "Use regex matching (default: false)",
				},
				"case_sensitive": {
					Type:        "boolean",
					Description: "Case-sensitive search (default: false)",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			pattern, _ := args["pattern"].(string)
			filePattern, _ := args["file_pattern"].(string)
			if filePattern == "" {
				filePattern = "*"
			}
			useRegex := boolArg(args, "regex", false)
			caseSensitive := boolArg(args, "case_sensitive", false)

			matches, err := ws.SearchInFiles(pattern, filePattern, caseSensitive, useRegex)
			if err != nil {
				return tools.Fail(fmt.Sprintf("Search failed: %v", err))
			}

			if len(matches) == 0 {
				return tools.OkMeta("No matches found", map[string]any{
					"matches": 0,
					"pattern": pattern,
				})
			}

			var lines []string
			for _, m := range matches {
				lines = append(lines, fmt.Sprintf("%s:%d: %s", m.Path, m.Line, m.Text))
			}
			return tools.OkMeta(strings.Join(lines, "\n"), map[string]any{
				"matches": len(matches),
				"pattern": pattern,
			})
		},
	}
}

// AnalyzeCodeTool returns a tool reporting line statistics across files.
func AnalyzeCodeTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:        "analyze_code",
		Description: "Analyze code structure and statistics",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"file_pattern": {
					Type:        "string",
					Description: "File pattern to analyze (default: *)",
				},
				"comment_marker": {
					Type:        "string",
					Description: "Line-comment marker (default: #)",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			filePattern, _ := args["file_pattern"].(string)
			if filePattern == "" {
				filePattern = "*"
			}
			marker, _ := args["comment_marker"].(string)

			stats, err := ws.CountLines(filePattern, marker)
			if err != nil {
				return tools.Fail(fmt.Sprintf("Analysis failed: %v", err))
			}

			total := stats.TotalLines
			if total < 1 {
				total = 1
			}

			output := fmt.Sprintf(`Code Analysis Results:

Total Files: %d
Total Lines: %d
Code Lines: %d
Comment Lines: %d
Blank Lines: %d

Code Ratio: %.1f%%
Comment Ratio: %.1f%%
`,
				stats.TotalFiles, stats.TotalLines, stats.CodeLines,
				stats.CommentLines, stats.BlankLines,
				float64(stats.CodeLines)/float64(total)*100,
				float64(stats.CommentLines)/float64(total)*100,
			)

			return tools.OkMeta(output, map[string]any{
				"total_files":   stats.TotalFiles,
				"total_lines":   stats.TotalLines,
				"code_lines":    stats.CodeLines,
				"comment_lines": stats.CommentLines,
				"blank_lines":   stats.BlankLines,
			})
		},
	}
}
