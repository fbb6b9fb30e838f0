package core

import (
	"cobalt/internal/tools"
	"cobalt/internal/workspace"
)

// Register adds all workspace-bound tools to the registry.
func Register(reg *tools.Registry, ws *workspace.Workspace) {
	reg.MustRegister(ReadFileTool(ws))
	reg.MustRegister(CreateFileTool(ws))
	reg.MustRegister(WriteFileTool(ws))
	reg.MustRegister(ListFilesTool(ws))
	reg.MustRegister(SearchCodeTool(ws))
	reg.MustRegister(AnalyzeCodeTool(ws))
	reg.MustRegister(GetTreeTool(ws))
	reg.MustRegister(FileInfoTool(ws))
}
