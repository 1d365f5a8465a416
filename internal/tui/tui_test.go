package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juanibiapina/pullrefresh/internal/config"
	"github.com/juanibiapina/pullrefresh/internal/feed"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, rows int) (Model, *fakeClock, *feed.Store) {
	t.Helper()
	ctx := context.Background()

	store, err := feed.Open(filepath.Join(t.TempDir(), "feed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Seed(ctx, rows, time.Now()))
	entries, err := store.List(ctx)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Feed.FetchDelay = 0
	cfg.Refresh.MinRefreshDuration = config.Duration(600 * time.Millisecond)

	m := New(store, cfg, entries)
	clock := &fakeClock{}
	m.view.tick = clock.tick
	m.view.Cmds()

	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 12})
	return m, clock, store
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return m
}

// advance runs the clock, feeding due messages through Update.
func advance(m Model, clock *fakeClock, d time.Duration) Model {
	clock.advance(d, func(msg tea.Msg) {
		m = update(m, msg)
	})
	return m
}

func fetchResult(t *testing.T, store *feed.Store, dir refresh.Direction) fetchedMsg {
	t.Helper()
	ctx := context.Background()
	var err error
	if dir.IsLoadMore() {
		_, err = store.Append(ctx, time.Now())
	} else {
		_, err = store.Prepend(ctx, time.Now())
	}
	require.NoError(t, err)
	entries, err := store.List(ctx)
	require.NoError(t, err)
	return fetchedMsg{dir: dir, entries: entries}
}

func TestModel_NotReadyBeforeWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, 3)
	m.ready = false
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_SelectionRevealsRow(t *testing.T) {
	m, _, _ := newTestModel(t, 30)

	m = press(m, "j")
	assert.Equal(t, 1, m.selection.Cursor)
	assert.Equal(t, 0.0, m.view.ContentOffset().Y)

	m = press(m, "G")
	assert.Equal(t, 29, m.selection.Cursor)
	assert.Equal(t, 20.0, m.view.ContentOffset().Y)

	m = press(m, "g")
	assert.Equal(t, 0, m.selection.Cursor)
	assert.Equal(t, 0.0, m.view.ContentOffset().Y)
}

func TestModel_RefreshKeyPrependsRow(t *testing.T) {
	m, clock, store := newTestModel(t, 30)

	m = press(m, "r")
	assert.Equal(t, refresh.Loading, m.top.State())
	assert.Equal(t, refresh.Loading, m.topIndicator.State())
	assert.Equal(t, -3.0, m.view.ContentOffset().Y)
	assert.Equal(t, 3.0, m.view.ContentInset().Top)

	m = advance(m, clock, 300*time.Millisecond)
	m = update(m, fetchResult(t, store, refresh.Top))

	assert.Len(t, m.entries, 31)
	assert.Equal(t, 1, m.selection.Cursor, "selection stays on the same entry")
	assert.Equal(t, refresh.Loading, m.top.State(), "stop waits out the grace delay")

	m = advance(m, clock, 10*time.Millisecond)
	assert.Equal(t, refresh.Stop, m.top.State())
	assert.Equal(t, 0.0, m.view.ContentInset().Top)
	assert.Equal(t, 0.0, m.view.ContentOffset().Y)
}

func TestModel_LoadMoreKeyAppendsRow(t *testing.T) {
	m, clock, store := newTestModel(t, 30)

	m = press(m, "m")
	assert.Equal(t, refresh.Loading, m.bottom.State())
	assert.Equal(t, 23.0, m.view.ContentOffset().Y)
	assert.Equal(t, 6.0, m.view.ContentInset().Bottom)

	m = update(m, fetchResult(t, store, refresh.Bottom))
	assert.Len(t, m.entries, 31)
	assert.Equal(t, 31.0, m.view.ContentSize().Height)

	m = advance(m, clock, 400*time.Millisecond)
	assert.Equal(t, refresh.Stop, m.bottom.State())
	assert.Equal(t, 3.0, m.view.ContentInset().Bottom, "back to the reservation made on attach")
	assert.Equal(t, 31.0, m.bottomIndicator.Frame().Origin.Y, "indicator moves below the new row")

	m = press(m, "m")
	assert.Equal(t, 6.0, m.view.ContentInset().Bottom)
	m = update(m, fetchResult(t, store, refresh.Bottom))
	m = advance(m, clock, 400*time.Millisecond)
	assert.Equal(t, 3.0, m.view.ContentInset().Bottom)
}

func TestModel_FetchErrorStillStops(t *testing.T) {
	m, clock, _ := newTestModel(t, 5)

	m = press(m, "r")
	m = update(m, fetchedMsg{dir: refresh.Top, err: errors.New("disk full")})

	assert.True(t, m.isError)
	assert.Contains(t, m.message, "disk full")
	assert.Len(t, m.entries, 5)

	m = advance(m, clock, 400*time.Millisecond)
	assert.Equal(t, refresh.Stop, m.top.State())
}

func TestModel_ToggleEnabled(t *testing.T) {
	m, _, _ := newTestModel(t, 5)

	m = press(m, "e")
	assert.False(t, m.top.Enabled())
	assert.False(t, m.bottom.Enabled())
	assert.True(t, m.topIndicator.Hidden())
	assert.Contains(t, m.View(), "○ enabled")

	m = press(m, "r")
	assert.Equal(t, refresh.Stop, m.top.State(), "disabled controller ignores triggers")

	m = press(m, "e")
	assert.True(t, m.top.Enabled())
	assert.Contains(t, m.View(), "● enabled")
}

func TestModel_ToggleAutoLoadMore(t *testing.T) {
	m, _, _ := newTestModel(t, 30)
	require.True(t, m.bottom.AutoLoadMore())
	assert.Equal(t, 3.0, m.view.ContentInset().Bottom)

	m = press(m, "a")
	assert.False(t, m.bottom.AutoLoadMore())
	assert.Equal(t, 0.0, m.view.ContentInset().Bottom)

	m = press(m, "a")
	assert.True(t, m.bottom.AutoLoadMore())
	assert.Equal(t, 3.0, m.view.ContentInset().Bottom)
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, 5)

	m = press(m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(m, "q")
	assert.False(t, m.showHelp, "q closes help instead of quitting")
	assert.NotNil(t, m.top.Surface())

	m = press(m, "?")
	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestModel_QuitClosesControllers(t *testing.T) {
	m, _, _ := newTestModel(t, 5)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.top.Surface())
	assert.Nil(t, m.bottom.Surface())
}

func TestModel_ViewRendersFeed(t *testing.T) {
	m, _, _ := newTestModel(t, 30)

	out := m.View()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, lines[0], "[Refresh]")
	assert.Contains(t, lines[0], "[Load more]")
	assert.Contains(t, lines[0], "30 rows")
	assert.Contains(t, lines[1], m.entries[0].FetchedAt.Local().Format("15:04:05"))
	assert.Contains(t, lines[11], "refresh")
}

func TestModel_MouseDragRefreshes(t *testing.T) {
	m, _, _ := newTestModel(t, 30)

	m = update(m, tea.MouseMsg{X: 5, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 5, Y: 7, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Equal(t, refresh.Trigger, m.top.State())

	m = update(m, tea.MouseMsg{X: 5, Y: 7, Action: tea.MouseActionRelease})
	assert.Equal(t, refresh.Loading, m.top.State())
	assert.False(t, m.view.IsDragging())
}

func TestModel_ClickSelectsRow(t *testing.T) {
	m, _, _ := newTestModel(t, 30)

	m = update(m, tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionRelease})

	assert.Equal(t, 3, m.selection.Cursor)
	assert.Equal(t, refresh.Stop, m.top.State())
}

func TestModel_WheelScrolls(t *testing.T) {
	m, _, _ := newTestModel(t, 30)

	m = update(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = update(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 2.0, m.view.ContentOffset().Y)

	m = update(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 1.0, m.view.ContentOffset().Y)
	assert.Equal(t, refresh.Stop, m.top.State())
}

func TestFetchCmd(t *testing.T) {
	_, _, store := newTestModel(t, 2)

	msg := fetchCmd(store, refresh.Top, 0)()
	fm, ok := msg.(fetchedMsg)
	require.True(t, ok)
	require.NoError(t, fm.err)
	assert.Equal(t, refresh.Top, fm.dir)
	require.Len(t, fm.entries, 3)
	assert.Equal(t, int64(3), fm.entries[0].ID)
}
