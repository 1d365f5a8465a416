package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/juanibiapina/pullrefresh/internal/config"
	"github.com/juanibiapina/pullrefresh/internal/feed"
	"github.com/juanibiapina/pullrefresh/internal/logging"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/juanibiapina/pullrefresh/internal/telemetry"
	"github.com/juanibiapina/pullrefresh/internal/version"
	zone "github.com/lrstanley/bubblezone"
)

const (
	zoneRefresh  = "refresh"
	zoneLoadMore = "load_more"

	// header + status bar
	chromeHeight = 2
)

// fetchedMsg is sent when a simulated fetch has written to the feed
type fetchedMsg struct {
	dir     refresh.Direction
	entries []feed.Entry
	err     error
}

// Model is the demo: a feed of fetch timestamps with a refresh controller
// on top and a load-more controller at the bottom.
type Model struct {
	// State
	entries     []feed.Entry
	selection   Selection
	showHelp    bool
	width       int
	height      int
	ready       bool
	message     string
	messageTime time.Time
	isError     bool

	// pointer position when the current drag started
	pressRow    int
	pressOffset float64

	// Components
	store           *feed.Store
	view            *ScrollView
	top             *refresh.Controller
	bottom          *refresh.Controller
	topIndicator    *Indicator
	bottomIndicator *Indicator
	zones           *zone.Manager
	help            help.Model
}

// New creates the demo model over entries already loaded from store.
func New(store *feed.Store, cfg *config.Config, entries []feed.Entry) Model {
	rows := max(1, int(cfg.Refresh.IndicatorExtent))
	delay := time.Duration(cfg.Feed.FetchDelay)

	view := NewScrollView(80, 24-chromeHeight)
	view.SetRows(len(entries))

	topIndicator := NewIndicator(refresh.Top, 80, rows, view.Post)
	bottomIndicator := NewIndicator(refresh.Bottom, 80, rows, view.Post)

	top := refresh.New(view, refresh.Top,
		controllerOptions(cfg, refresh.Top, topIndicator, fetchHandler(view, store, refresh.Top, delay))...)
	bottom := refresh.New(view, refresh.Bottom,
		controllerOptions(cfg, refresh.Bottom, bottomIndicator, fetchHandler(view, store, refresh.Bottom, delay))...)

	h := help.New()
	h.ShowAll = true

	return Model{
		entries:         entries,
		store:           store,
		view:            view,
		top:             top,
		bottom:          bottom,
		topIndicator:    topIndicator,
		bottomIndicator: bottomIndicator,
		zones:           zone.New(),
		help:            h,
	}
}

func controllerOptions(cfg *config.Config, dir refresh.Direction, v refresh.View, h refresh.Handler) []refresh.Option {
	opts := cfg.Options(dir)
	return append(opts,
		refresh.WithView(v),
		refresh.WithHandler(h),
		refresh.WithLogger(logging.Logger),
	)
}

// fetchHandler starts a simulated fetch for dir. The result comes back to
// Update as a fetchedMsg.
func fetchHandler(view *ScrollView, store *feed.Store, dir refresh.Direction, delay time.Duration) refresh.Handler {
	return func() {
		telemetry.TUIRefreshTriggered(dir.String())
		view.Post(fetchCmd(store, dir, delay))
	}
}

func fetchCmd(store *feed.Store, dir refresh.Direction, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		ctx := context.Background()
		var err error
		if dir.IsLoadMore() {
			_, err = store.Append(ctx, t)
		} else {
			_, err = store.Prepend(ctx, t)
		}
		if err != nil {
			return fetchedMsg{dir: dir, err: err}
		}
		entries, err := store.List(ctx)
		return fetchedMsg{dir: dir, entries: entries, err: err}
	})
}

// Init starts the TUI
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("pullrefresh"), m.view.Cmds())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.view.SetSize(msg.Width, max(1, msg.Height-chromeHeight))
		m.topIndicator.SetWidth(msg.Width)
		m.bottomIndicator.SetWidth(msg.Width)
		m.reveal()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && !m.showHelp {
			m.close()
			return m, tea.Quit
		}
		m.updateKeys(msg)

	case tea.MouseMsg:
		m.updateMouse(msg)

	case spinner.TickMsg:
		cmds = append(cmds, m.topIndicator.Update(msg), m.bottomIndicator.Update(msg))

	case fetchedMsg:
		m.fetched(msg)

	case taskMsg, frameMsg:
		m.view.Update(msg)
	}

	cmds = append(cmds, m.view.Cmds())
	return m, tea.Batch(cmds...)
}

func (m *Model) updateKeys(msg tea.KeyMsg) {
	if m.showHelp {
		if key.Matches(msg, keys.Help, keys.Escape, keys.Quit) {
			m.showHelp = false
		}
		return
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.selection.Up() {
			m.reveal()
		}
	case key.Matches(msg, keys.Down):
		if m.selection.Down(len(m.entries)) {
			m.reveal()
		}
	case key.Matches(msg, keys.First):
		m.selection.First()
		m.reveal()
	case key.Matches(msg, keys.Last):
		m.selection.Last(len(m.entries))
		m.reveal()
	case key.Matches(msg, keys.Refresh):
		telemetry.TUIActionExecute("refresh")
		m.top.TriggerRefresh(true)
	case key.Matches(msg, keys.LoadMore):
		telemetry.TUIActionExecute("load_more")
		m.bottom.TriggerRefresh(true)
	case key.Matches(msg, keys.Enable):
		telemetry.TUIActionExecute("toggle_enabled")
		enabled := !m.top.Enabled()
		m.top.SetEnabled(enabled)
		m.bottom.SetEnabled(enabled)
		m.setMessage(fmt.Sprintf("Pull to refresh %s", onOff(enabled)))
	case key.Matches(msg, keys.Auto):
		telemetry.TUIActionExecute("toggle_auto_load_more")
		auto := !m.bottom.AutoLoadMore()
		m.bottom.SetAutoLoadMore(auto)
		m.setMessage(fmt.Sprintf("Auto load more %s", onOff(auto)))
	case key.Matches(msg, keys.Copy):
		m.copySelected()
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	}
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	row := msg.Y - 1 // below the header

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.view.Scroll(-1)

	case msg.Button == tea.MouseButtonWheelDown:
		m.view.Scroll(1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if row >= 0 && row < m.view.Height() {
			m.pressRow = row
			m.pressOffset = m.view.ContentOffset().Y
			m.view.Press(row)
		}

	case msg.Action == tea.MouseActionMotion:
		m.view.Motion(row)

	case msg.Action == tea.MouseActionRelease:
		if m.view.IsDragging() {
			clicked := m.view.ContentOffset().Y == m.pressOffset
			m.view.Release()
			if clicked {
				m.selectRow(m.pressRow)
			}
			return
		}
		switch {
		case m.zones.Get(zoneRefresh).InBounds(msg):
			telemetry.TUIActionExecute("refresh_button")
			m.top.TriggerRefresh(true)
		case m.zones.Get(zoneLoadMore).InBounds(msg):
			telemetry.TUIActionExecute("load_more_button")
			m.bottom.TriggerRefresh(true)
		}
	}
}

func (m *Model) fetched(msg fetchedMsg) {
	if msg.err != nil {
		logging.Logger.Error("fetch failed", "direction", msg.dir, "error", msg.err)
		m.setError(fmt.Sprintf("Fetch failed: %v", msg.err))
	} else {
		added := len(msg.entries) - len(m.entries)
		if !msg.dir.IsLoadMore() && added > 0 && len(m.entries) > 0 {
			m.selection.Shift(added, len(msg.entries))
		}
		m.entries = msg.entries
		m.selection.Clamp(len(m.entries))
		m.view.SetRows(len(m.entries))
	}

	if msg.dir.IsLoadMore() {
		// the indicator is only laid out while stopped, so re-publish the
		// size once it is
		view := m.view
		m.bottom.StopToRefresh(true, func() {
			view.SetContentSize(view.ContentSize())
		})
	} else {
		m.top.StopToRefresh(true, nil)
	}
}

func (m *Model) selectRow(row int) {
	i := int(m.view.ContentOffset().Y) + row
	if i >= 0 && i < len(m.entries) {
		m.selection.Cursor = i
	}
}

// reveal scrolls just enough to keep the selected row visible.
func (m *Model) reveal() {
	current := int(m.view.ContentOffset().Y)
	if offset := m.selection.Reveal(current, m.view.Height()); offset != current {
		m.view.ScrollTo(float64(offset))
	}
}

func (m *Model) copySelected() {
	if len(m.entries) == 0 {
		return
	}
	telemetry.TUIActionExecute("copy_row")
	text := PlainText(m.formatEntry(m.entries[m.selection.Cursor], false))
	if err := clipboard.WriteAll(text); err != nil {
		m.setError(fmt.Sprintf("Failed to copy: %v", err))
		return
	}
	m.setMessage("Row copied to clipboard")
}

func (m *Model) setMessage(s string) {
	m.message = s
	m.isError = false
	m.messageTime = time.Now()
}

func (m *Model) setError(s string) {
	m.message = s
	m.isError = true
	m.messageTime = time.Now()
}

func (m *Model) close() {
	m.top.Close()
	m.bottom.Close()
	m.zones.Close()
}

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.view.Render(m.renderRow))
	s.WriteString("\n")
	s.WriteString(m.renderStatusBar())

	return m.zones.Scan(s.String())
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("pullrefresh " + version.Version)

	style := buttonStyle
	if !m.top.Enabled() {
		style = buttonDisabledStyle
	}
	buttons := m.zones.Mark(zoneRefresh, style.Render("[Refresh]")) +
		m.zones.Mark(zoneLoadMore, style.Render("[Load more]"))

	flags := renderFlag("enabled", m.top.Enabled()) + " " +
		renderFlag("auto", m.bottom.AutoLoadMore()) + " " +
		mutedStyle.Render(fmt.Sprintf("%d rows", len(m.entries)))

	left := title + " " + buttons
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(flags) - 1
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + flags + " "
}

func renderFlag(name string, on bool) string {
	if on {
		return flagOnStyle.Render("● " + name)
	}
	return flagOffStyle.Render("○ " + name)
}

func (m Model) renderRow(i, width int) string {
	return FitToWidth(m.formatEntry(m.entries[i], i == m.selection.Cursor), width)
}

func (m Model) formatEntry(e feed.Entry, selected bool) string {
	base, timeStyle, idStyle := rowStyle, rowTimeStyle, rowIDStyle
	if selected {
		base, timeStyle, idStyle = rowSelectedStyle, rowTimeSelectedStyle, rowIDSelectedStyle
	}
	return base.Render(" ") +
		timeStyle.Render(e.FetchedAt.Local().Format("15:04:05")) +
		base.Render("  ") +
		idStyle.Render(fmt.Sprintf("#%d", e.ID)) +
		base.Render("  "+formatRelativeTime(e.FetchedAt))
}

func (m Model) renderStatusBar() string {
	var content string

	if m.message != "" && time.Since(m.messageTime) < 3*time.Second {
		styled := successStyle.Render(m.message)
		if m.isError {
			styled = errorStyle.Render(m.message)
		}
		content = " " + styled
	} else {
		parts := []string{
			m.renderKey("drag", "pull"),
			m.renderKey("r", "refresh"),
			m.renderKey("m", "load more"),
			m.renderKey("e", "enable"),
			m.renderKey("a", "auto"),
			m.renderKey("y", "copy"),
			m.renderKey("?", "help"),
			m.renderKey("q", "quit"),
		}
		content = " " + strings.Join(parts, " ")
	}

	return statusBarStyle.Render(FitToWidth(content, m.width))
}

func (m Model) renderKey(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}

func (m Model) renderHelp() string {
	title := dialogTitleStyle.Render("Keyboard Shortcuts")
	hint := mutedStyle.Render("drag the list past either end to refresh or load more")
	footer := helpDescStyle.Render("press esc or ? to close")

	content := title + "\n\n" + m.help.View(keys) + "\n\n" + hint + "\n" + footer
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialogStyle.Render(content))
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		m := int(d.Minutes())
		if m == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d min ago", m)
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		if h == 1 {
			return "1 hr ago"
		}
		return fmt.Sprintf("%d hr ago", h)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

// Start runs the demo against the feed database named in cfg.
func Start(cfg *config.Config) error {
	telemetry.TUISessionStart()
	defer telemetry.TUISessionEnd()

	if err := config.EnsureDir(cfg.Feed.Database); err != nil {
		return err
	}
	store, err := feed.Open(cfg.Feed.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		if err := store.Seed(ctx, cfg.Feed.SeedRows, time.Now()); err != nil {
			return err
		}
	}
	entries, err := store.List(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(New(store, cfg, entries), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
