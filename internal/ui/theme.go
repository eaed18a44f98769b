package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Skeleton                            lipgloss.Style

	Border lipgloss.Border
	Frame  lipgloss.TerminalColor

	SymOK, SymFail            string
	SymFilterOn, SymFilterOff string
	SymBarFilled, SymBarEmpty string
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

var current = build("classic")

// SetTheme switches the active theme; unknown names fall back to classic.
func SetTheme(name string) {
	current = build(name)
}

// Current returns the active theme.
func Current() Theme { return current }

func build(name string) Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:  "neon",
			Title: fg("13").Bold(true), Muted: fg("8"), Accent: fg("14"),
			Success: fg("10"), Error: fg("9").Bold(true), Pending: fg("11"),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Skeleton: fg("8").Faint(true),
			Border:   lipgloss.RoundedBorder(), Frame: lipgloss.Color("13"),
			SymOK: "✔", SymFail: "✖", SymFilterOn: "◉", SymFilterOff: "○",
			SymBarFilled: "█", SymBarEmpty: "░",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain.Bold(true), Pending: plain,
			Selected: plain.Reverse(true),
			Skeleton: plain,
			Border:   asciiBorder, Frame: lipgloss.NoColor{},
			SymOK: "ok", SymFail: "x", SymFilterOn: "[f]", SymFilterOff: "[ ]",
			SymBarFilled: "#", SymBarEmpty: "-",
		}
	default: // classic
		return Theme{
			Name:  "classic",
			Title: lipgloss.NewStyle().Bold(true), Muted: lipgloss.NewStyle().Faint(true), Accent: fg("12"),
			Success: fg("42"), Error: fg("9").Bold(true), Pending: fg("214"),
			Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
			Skeleton: fg("8").Faint(true),
			Border:   lipgloss.RoundedBorder(), Frame: lipgloss.Color("8"),
			SymOK: "✔", SymFail: "✖", SymFilterOn: "◉", SymFilterOff: "○",
			SymBarFilled: "█", SymBarEmpty: "░",
		}
	}
}
