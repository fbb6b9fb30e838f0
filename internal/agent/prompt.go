package agent

import (
	"fmt"
	"sort"
	"strings"
)

// systemPrompt renders the instruction block sent on the first turn. The
// tool listing is built from the registry so newly registered tools show
// up without touching the prompt text.
func (a *Agent) systemPrompt() string {
	var b strings.Builder

	b.WriteString("You MUST respond with tool calls. Do NOT write explanatory text.\n\n")
	b.WriteString("AVAILABLE TOOLS:\n")
	b.WriteString(a.formatTools())
	b.WriteString("\n\nFORMAT (use EXACTLY this):\n")
	b.WriteString("```json\n")
	b.WriteString(`{"tool": "create_file", "parameters": {"filepath": "test.py", "content": "print('hello')", "reason": "Create Python file"}}`)
	b.WriteString("\n```\n\n")
	b.WriteString("EXAMPLES:\n\n")
	b.WriteString("1. Create a file:\n```json\n")
	b.WriteString(`{"tool": "create_file", "parameters": {"filepath": "main.py", "content": "print('test')", "reason": "Create Python program"}}`)
	b.WriteString("\n```\n\n")
	b.WriteString("2. Run it:\n```json\n")
	b.WriteString(`{"tool": "run_command", "parameters": {"command": "python main.py", "reason": "Run the program"}}`)
	b.WriteString("\n```\n\n")
	b.WriteString("IMPORTANT:\n")
	b.WriteString("- ONLY output ```json blocks\n")
	b.WriteString("- NO explanations or text outside JSON\n")
	b.WriteString("- After tools execute, you get results and continue\n")
	b.WriteString("- Say \"Task completed\" when done\n\n")
	fmt.Fprintf(&b, "Workspace: %s\n\n", a.opts.WorkspaceRoot)
	b.WriteString("Respond with ```json block now.")

	return b.String()
}

// formatTools lists every registered tool with its parameters, one per line.
// Required parameters lead so the listing reads like a signature.
func (a *Agent) formatTools() string {
	var lines []string
	for _, tool := range a.registry.All() {
		var params []string
		for _, name := range tool.Schema.Required() {
			params = append(params, name)
		}
		var optional []string
		for name := range tool.Schema.Properties {
			if !tool.Schema.Properties[name].Required {
				optional = append(optional, name)
			}
		}
		sort.Strings(optional)
		params = append(params, optional...)
		lines = append(lines, fmt.Sprintf("- %s(%s): %s", tool.Name, strings.Join(params, ", "), tool.Description))
	}
	return strings.Join(lines, "\n")
}
