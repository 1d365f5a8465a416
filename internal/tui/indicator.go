package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
)

// progressWidth is the width of the pull progress bar in cells.
const progressWidth = 12

// Indicator is the refresh.View drawn above (or below) the feed. The
// spinner only runs while loading; post hands its tick to the Update loop.
type Indicator struct {
	*refresh.DefaultView
	direction refresh.Direction
	spinner   spinner.Model
	post      func(tea.Cmd)
}

// NewIndicator returns an indicator rows tall for dir.
func NewIndicator(dir refresh.Direction, width, rows int, post func(tea.Cmd)) *Indicator {
	return &Indicator{
		DefaultView: refresh.NewDefaultView(refresh.Rect{
			Size: refresh.Size{Width: float64(width), Height: float64(rows)},
		}),
		direction: dir,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(indicatorLoadingStyle),
		),
		post: post,
	}
}

func (i *Indicator) StateChanged(c *refresh.Controller, s refresh.State) {
	wasLoading := i.State() == refresh.Loading
	i.DefaultView.StateChanged(c, s)
	if s == refresh.Loading && !wasLoading && i.post != nil {
		i.post(i.spinner.Tick)
	}
}

// Update advances the spinner. Ticks that arrive after loading ended are
// dropped, which stops the spinner.
func (i *Indicator) Update(msg spinner.TickMsg) tea.Cmd {
	if i.State() != refresh.Loading {
		return nil
	}
	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return cmd
}

// SetWidth follows the viewport width.
func (i *Indicator) SetWidth(width int) {
	f := i.Frame()
	f.Size.Width = float64(width)
	i.SetFrame(f)
}

func (i *Indicator) label() string {
	if i.direction.IsLoadMore() {
		switch i.State() {
		case refresh.Trigger:
			return "↓ release to load more"
		case refresh.Loading:
			return i.spinner.View() + " loading more…"
		default:
			return "↑ pull to load more"
		}
	}
	switch i.State() {
	case refresh.Trigger:
		return "↑ release to refresh"
	case refresh.Loading:
		return i.spinner.View() + " loading…"
	default:
		return "↓ pull to refresh"
	}
}

func (i *Indicator) progress() string {
	filled := int(i.Percentage()*progressWidth + 0.5)
	return progressFullStyle.Render(strings.Repeat("━", filled)) +
		progressEmptyStyle.Render(strings.Repeat("─", progressWidth-filled))
}

// Lines renders the indicator, one string per row of its frame.
func (i *Indicator) Lines(width int) []string {
	rows := int(i.Frame().Size.Height)
	if rows <= 0 {
		return nil
	}
	lines := make([]string, rows)

	var text string
	switch i.State() {
	case refresh.Trigger:
		text = indicatorArmedStyle.Render(i.label())
	case refresh.Loading:
		text = i.label()
	default:
		text = indicatorTextStyle.Render(i.label())
	}

	mid := (rows - 1) / 2
	lines[mid] = Center(text, width)
	if mid+1 < rows && i.State() != refresh.Loading {
		lines[mid+1] = Center(i.progress(), width)
	}
	return lines
}
