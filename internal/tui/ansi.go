package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FitToWidth pads or truncates s to exactly width cells, keeping styling.
func FitToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// FitWithEllipsis is FitToWidth but marks truncation with "…".
func FitWithEllipsis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		if width == 1 {
			return "…"
		}
		return ansi.Truncate(s, width, "…")
	}
	return FitToWidth(s, width)
}

// Center places s in the middle of a line width cells wide.
func Center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return FitWithEllipsis(s, width)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// PlainText drops escape sequences, for text leaving the terminal.
func PlainText(s string) string {
	return strings.TrimSpace(ansi.Strip(s))
}
