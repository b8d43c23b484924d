package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zero-day-ai/conductor/internal/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("36"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// renderResult formats a terminal run result for stdout.
func renderResult(result *orchestrator.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Run completed"))
	b.WriteString("\n\n")

	if result.FinalMessage != "" {
		b.WriteString(result.FinalMessage)
		b.WriteString("\n\n")
	}

	b.WriteString(labelStyle.Render("Run ID:     "))
	b.WriteString(result.RunID.String())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Iterations: "))
	b.WriteString(fmt.Sprintf("%d", result.Iterations))
	b.WriteString("\n")

	if len(result.History) > 0 {
		b.WriteString(labelStyle.Render("Phases:     "))
		phases := make([]string, 0, len(result.History)+1)
		phases = append(phases, result.History[0].From.String())
		for _, tr := range result.History {
			phases = append(phases, tr.To.String())
		}
		b.WriteString(dimStyle.Render(strings.Join(phases, " > ")))
		b.WriteString("\n")
	}

	if len(result.State) > 0 {
		if data, err := json.MarshalIndent(result.State, "", "  "); err == nil {
			b.WriteString("\n")
			b.WriteString(labelStyle.Render("State"))
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(string(data)))
		}
	}

	return b.String()
}
