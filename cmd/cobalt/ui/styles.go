// Package ui provides the terminal styling for the cobalt CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, same in light and dark terminals.
var (
	Success = lipgloss.Color("#8BC34A") // Lime Green
	Warning = lipgloss.Color("#FFC107") // Yellow
	Danger  = lipgloss.Color("#e53935") // Red
	Info    = lipgloss.Color("#2196F3") // Blue
	Muted   = lipgloss.Color("#6b7280") // Gray
)

var (
	successStyle = lipgloss.NewStyle().Foreground(Success)
	warnStyle    = lipgloss.NewStyle().Foreground(Warning)
	errorStyle   = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(Info)
	mutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	titleStyle   = lipgloss.NewStyle().Foreground(Info).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(Warning).Bold(true)
)

// Console renders agent progress to stdout with lipgloss styling. It
// satisfies the agent's UI interface.
type Console struct{}

func (Console) Info(format string, args ...any) {
	fmt.Println(infoStyle.Render("* " + fmt.Sprintf(format, args...)))
}

func (Console) Success(format string, args ...any) {
	fmt.Println(successStyle.Render("+ " + fmt.Sprintf(format, args...)))
}

func (Console) Warn(format string, args ...any) {
	fmt.Println(warnStyle.Render("! " + fmt.Sprintf(format, args...)))
}

func (Console) Error(format string, args ...any) {
	fmt.Println(errorStyle.Render("x " + fmt.Sprintf(format, args...)))
}

func (Console) Plain(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func (Console) Separator() {
	fmt.Println(mutedStyle.Render(strings.Repeat("-", 60)))
}

// Title renders a bold heading.
func Title(text string) string {
	return titleStyle.Render(text)
}

// Prompt renders an interactive question.
func Prompt(text string) string {
	return promptStyle.Render(text)
}

// Dim renders secondary text.
func Dim(text string) string {
	return mutedStyle.Render(text)
}
