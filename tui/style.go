package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleMessageBox = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleEffective = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleFaint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleHPHigh = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("40"))

	styleHPMid = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("220"))

	styleHPLow = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("196"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindEffective
	kindFaint
	kindReward
	kindSystem
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasSuffix(line, "fainted!"), line == "You blacked out!":
		return kindFaint
	case strings.HasPrefix(line, "It's super effective"),
		strings.HasPrefix(line, "It's not very effective"),
		strings.HasPrefix(line, "It doesn't affect"),
		strings.HasPrefix(line, "A critical hit"):
		return kindEffective
	case strings.HasPrefix(line, "You won"),
		strings.HasPrefix(line, "You got"),
		strings.HasPrefix(line, "You received"),
		strings.HasPrefix(line, "Gotcha!"),
		strings.Contains(line, " grew to level "),
		strings.Contains(line, " learned "):
		return kindReward
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindEffective:
		return styleEffective.Render(line)
	case kindFaint:
		return styleFaint.Render(line)
	case kindReward:
		return styleReward.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
