package tui

import "github.com/charmbracelet/lipgloss"

// Terminal theme colors (ANSI 0-15) so the demo follows the user's scheme
var (
	colorBlack       = lipgloss.Color("0")
	colorRed         = lipgloss.Color("1")
	colorGreen       = lipgloss.Color("2")
	colorYellow      = lipgloss.Color("3")
	colorMagenta     = lipgloss.Color("5")
	colorCyan        = lipgloss.Color("6")
	colorWhite       = lipgloss.Color("7")
	colorBrightBlack = lipgloss.Color("8")

	primaryColor   = colorYellow
	successColor   = colorGreen
	dangerColor    = colorRed
	highlightColor = colorMagenta
	mutedColor     = colorBrightBlack
	fgColor        = colorWhite

	headerStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(colorBlack).
			Bold(true).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Padding(0, 1)

	flagOnStyle = lipgloss.NewStyle().
			Foreground(successColor)

	flagOffStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	// Feed rows; selection uses a bright black background
	selectionBg = colorBrightBlack

	rowStyle = lipgloss.NewStyle()

	rowSelectedStyle = lipgloss.NewStyle().
				Background(selectionBg)

	rowTimeStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	rowTimeSelectedStyle = lipgloss.NewStyle().
				Foreground(colorCyan).
				Background(selectionBg)

	rowIDStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	rowIDSelectedStyle = lipgloss.NewStyle().
				Foreground(highlightColor).
				Background(selectionBg)

	// Indicator
	indicatorTextStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	indicatorArmedStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	indicatorLoadingStyle = lipgloss.NewStyle().
				Foreground(successColor)

	progressFullStyle = lipgloss.NewStyle().
				Foreground(primaryColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(fgColor)
)
