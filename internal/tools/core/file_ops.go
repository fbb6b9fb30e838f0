package core

import (
	"context"
	"fmt"
	"strings"

	"cobalt/internal/tools"
	"cobalt/internal/workspace"
)

// ReadFileTool returns a tool for reading file contents.
func ReadFileTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:        "read_file",
		Description: "Read the contents of a file",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"filepath": {
					Type:        "string",
					Description: "Path to the file to read (relative to workspace)",
					Required:    true,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			filepath, _ := args["filepath"].(string)
			if filepath == "" {
				return tools.Fail("filepath is required")
			}

			content, err := ws.ReadFile(filepath)
			if err != nil {
				return tools.Fail(fmt.Sprintf("Failed to read file: %s", filepath))
			}

			return tools.OkMeta(content, map[string]any{
				"filepath": filepath,
				"size":     len(content),
			})
		},
	}
}

// CreateFileTool returns a tool for creating new files. The model decides
// the filename.
func CreateFileTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:                 "create_file",
		Description:          "Create a new file with specified content",
		RequiresConfirmation: true,
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"filepath": {
					Type:        "string",
					Description: "Path for the new file (relative to workspace, e.g. 'src/calculator.py')",
					Required:    true,
				},
				"content": {
					Type:        "string",
					Description: "Complete content to write to the file",
					Required:    true,
				},
				"reason": {
					Type:        "string",
					Description: "Brief explanation of why this file is being created",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			filepath, _ := args["filepath"].(string)
			content, _ := args["content"].(string)
			reason, _ := args["reason"].(string)

			if err := ws.WriteFile(filepath, content); err != nil {
				return tools.Fail(fmt.Sprintf("Failed to create file: %s", filepath))
			}

			output := fmt.Sprintf("Created %s (%d bytes)", filepath, len(content))
			if reason != "" {
				output += "\nReason: " + reason
			}
			return tools.OkMeta(output, map[string]any{
				"filepath": filepath,
				"bytes":    len(content),
				"reason":   reason,
			})
		},
	}
}

// WriteFileTool returns a tool for modifying existing files.
func WriteFileTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:                 "write_file",
		Description:          "Write or modify content in an existing file",
		RequiresConfirmation: true,
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"filepath": {
					Type:        "string",
					Description: "Path to the file to write (relative to workspace)",
					Required:    true,
				},
				"content": {
					Type:        "string",
					Description: "Content to write to the file",
					Required:    true,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			filepath, _ := args["filepath"].(string)
			content, _ := args["content"].(string)

			if err := ws.WriteFile(filepath, content); err != nil {
				return tools.Fail(fmt.Sprintf("Failed to write file: %s", filepath))
			}

			return tools.OkMeta(
				fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), filepath),
				map[string]any{"filepath": filepath, "bytes": len(content)},
			)
		},
	}
}

// ListFilesTool returns a tool for listing workspace files.
func ListFilesTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:        "list_files",
		Description: "List files in the workspace matching a pattern",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"pattern": {
					Type:        "string",
					Description: "Glob pattern to match files (default: *)",
				},
				"recursive": {
					Type:        "boolean",
					Description: "Search recursively (default: true)",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			pattern, _ := args["pattern"].(string)
			if pattern == "" {
				pattern = "*"
			}
			recursive := boolArg(args, "recursive", true)

			files, err := ws.ListFiles(pattern, recursive)
			if err != nil {
				return tools.Fail(fmt.Sprintf("Failed to list files: %v", err))
			}

			return tools.OkMeta(strings.Join(files, "\n"), map[string]any{
				"count":   len(files),
				"pattern": pattern,
			})
		},
	}
}

// FileInfoTool returns a tool reporting file metadata.
func FileInfoTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:        "file_info",
		Description: "Get information about a file",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"filepath": {
					Type:        "string",
					Description: "Path to the file",
					Required:    true,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			filepath, _ := args["filepath"].(string)

			info, err := ws.FileInfo(filepath)
			if err != nil {
				return tools.Fail(fmt.Sprintf("File not found: %s", filepath))
			}

			kind := "File"
			if info.IsDir {
				kind = "Directory"
			}
			output := fmt.Sprintf(`File Information:
Path: %s
Size: %d bytes
Extension: %s
Type: %s
`, info.Path, info.Size, info.Extension, kind)

			return tools.OkMeta(output, map[string]any{
				"filepath":  info.Path,
				"size":      info.Size,
				"extension": info.Extension,
				"is_dir":    info.IsDir,
			})
		},
	}
}

// GetTreeTool returns a tool rendering the directory tree.
func GetTreeTool(ws *workspace.Workspace) *tools.Tool {
	return &tools.Tool{
		Name:        "get_tree",
		Description: "Get directory tree structure",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"max_depth": {
					Type:        "integer",
					Description: "Maximum depth to traverse (default: 3)",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) *tools.Result {
			maxDepth := intArg(args, "max_depth", 3)
			return tools.OkMeta(ws.Tree(maxDepth), map[string]any{"max_depth": maxDepth})
		},
	}
}

// boolArg reads an optional boolean argument with a default.
func boolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// intArg reads an optional integer argument with a default.
// JSON numbers decode as float64, so both shapes are accepted.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}
