package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/stretchr/testify/assert"
)

func TestIndicator_Labels(t *testing.T) {
	tests := []struct {
		name  string
		dir   refresh.Direction
		state refresh.State
		want  string
	}{
		{"top idle", refresh.Top, refresh.Stop, "pull to refresh"},
		{"top armed", refresh.Top, refresh.Trigger, "release to refresh"},
		{"top loading", refresh.Top, refresh.Loading, "loading…"},
		{"bottom idle", refresh.Bottom, refresh.Stop, "pull to load more"},
		{"bottom armed", refresh.Bottom, refresh.Trigger, "release to load more"},
		{"bottom loading", refresh.Bottom, refresh.Loading, "loading more…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := NewIndicator(tt.dir, 40, 3, nil)
			ind.StateChanged(nil, tt.state)

			lines := ind.Lines(40)
			if len(lines) != 3 {
				t.Fatalf("Lines() returned %d lines, want 3", len(lines))
			}
			if !strings.Contains(lines[1], tt.want) {
				t.Errorf("Lines()[1] = %q, want it to contain %q", lines[1], tt.want)
			}
		})
	}
}

func TestIndicator_ProgressFollowsPercentage(t *testing.T) {
	ind := NewIndicator(refresh.Top, 40, 3, nil)

	ind.PercentageChanged(nil, 0.5)
	bar := ind.Lines(40)[2]
	assert.Equal(t, progressWidth/2, strings.Count(bar, "━"))
	assert.Equal(t, progressWidth/2, strings.Count(bar, "─"))

	ind.StateChanged(nil, refresh.Loading)
	assert.Empty(t, strings.TrimSpace(ind.Lines(40)[2]), "no bar while loading")
}

func TestIndicator_SingleRow(t *testing.T) {
	ind := NewIndicator(refresh.Top, 40, 1, nil)
	lines := ind.Lines(40)
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "pull to refresh")
}

func TestIndicator_SpinnerRunsOnlyWhileLoading(t *testing.T) {
	var posted []tea.Cmd
	ind := NewIndicator(refresh.Bottom, 40, 3, func(c tea.Cmd) { posted = append(posted, c) })

	assert.Nil(t, ind.Update(spinner.TickMsg{}), "stopped indicator drops ticks")

	ind.StateChanged(nil, refresh.Loading)
	assert.Len(t, posted, 1, "loading starts the spinner")
	assert.NotNil(t, ind.Update(spinner.TickMsg{}))

	ind.StateChanged(nil, refresh.Stop)
	assert.Nil(t, ind.Update(spinner.TickMsg{}))
	assert.Len(t, posted, 1)
}

func TestIndicator_SetWidth(t *testing.T) {
	ind := NewIndicator(refresh.Top, 40, 3, nil)
	ind.SetWidth(100)
	assert.Equal(t, 100.0, ind.Frame().Size.Width)
	assert.Equal(t, 3.0, ind.Frame().Size.Height)
}
