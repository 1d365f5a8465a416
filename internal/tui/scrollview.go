package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
)

// rubberBand is how much of a drag past the content edge moves the content.
const rubberBand = 0.5

// taskMsg runs a task scheduled with After.
type taskMsg struct {
	view *ScrollView
	id   int
}

// frameMsg advances the displayed offset by one spring step.
type frameMsg struct {
	view *ScrollView
}

// lineRenderer is an element that can draw itself into the list.
type lineRenderer interface {
	refresh.Element
	Hidden() bool
	Lines(width int) []string
}

// ScrollView is a refresh.Surface measured in terminal cells. It runs on the
// bubbletea Update loop: deferred work and animation frames come back as
// messages, and whatever it needs scheduled is collected with Cmds.
type ScrollView struct {
	offset   refresh.Point
	size     refresh.Size
	inset    refresh.Insets
	bounds   refresh.Rect
	dragging bool

	offsetListeners refresh.Listeners[refresh.Point]
	sizeListeners   refresh.Listeners[refresh.Size]
	insetListeners  refresh.Listeners[refresh.Insets]

	elements []refresh.Element

	// shown trails offset.Y through the spring unless the user is dragging.
	spring    harmonica.Spring
	shown     float64
	velocity  float64
	animating bool

	dragStartY      int
	dragStartOffset float64

	tasks    map[int]func()
	nextTask int
	pending  []tea.Cmd
	tick     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// NewScrollView returns an empty view of the given size.
func NewScrollView(width, height int) *ScrollView {
	return &ScrollView{
		bounds: refresh.Rect{Size: refresh.Size{Width: float64(width), Height: float64(height)}},
		spring: harmonica.NewSpring(harmonica.FPS(60), 8.0, 1.0),
		tasks:  make(map[int]func()),
		tick:   tea.Tick,
	}
}

func (v *ScrollView) ContentOffset() refresh.Point { return v.offset }
func (v *ScrollView) ContentSize() refresh.Size { return v.size }
func (v *ScrollView) ContentInset() refresh.Insets { return v.inset }
func (v *ScrollView) Bounds() refresh.Rect { return v.bounds }
func (v *ScrollView) IsDragging() bool { return v.dragging }

func (v *ScrollView) SetContentOffset(p refresh.Point) {
	v.offset = p
	if v.dragging {
		v.shown, v.velocity = p.Y, 0
	} else {
		v.animate()
	}
	v.offsetListeners.Publish(p)
}

func (v *ScrollView) SetContentInset(i refresh.Insets) {
	v.inset = i
	v.insetListeners.Publish(i)
	if !v.dragging {
		v.settle()
	}
}

func (v *ScrollView) SetContentSize(s refresh.Size) {
	v.size = s
	v.sizeListeners.Publish(s)
	if !v.dragging {
		v.settle()
	}
}

func (v *ScrollView) ObserveContentOffset(fn func(refresh.Point)) refresh.Subscription {
	return v.offsetListeners.Add(fn)
}

func (v *ScrollView) ObserveContentSize(fn func(refresh.Size)) refresh.Subscription {
	return v.sizeListeners.Add(fn)
}

func (v *ScrollView) ObserveContentInset(fn func(refresh.Insets)) refresh.Subscription {
	return v.insetListeners.Add(fn)
}

// Animate applies changes at once; the displayed offset catches up through
// the spring, and completion runs after d.
func (v *ScrollView) Animate(d time.Duration, changes func(), completion func(bool)) {
	if changes != nil {
		changes()
	}
	if completion != nil {
		v.After(d, func() { completion(true) })
	}
}

// After schedules fn on the Update loop once d has passed.
func (v *ScrollView) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	v.nextTask++
	id := v.nextTask
	v.tasks[id] = fn
	v.Post(v.tick(d, func(time.Time) tea.Msg {
		return taskMsg{view: v, id: id}
	}))
}

func (v *ScrollView) AddElement(e refresh.Element) {
	v.elements = append(v.elements, e)
}

func (v *ScrollView) RemoveElement(e refresh.Element) {
	for i, el := range v.elements {
		if el == e {
			v.elements = append(v.elements[:i:i], v.elements[i+1:]...)
			return
		}
	}
}

// Post queues a command to be returned by the next Cmds call.
func (v *ScrollView) Post(cmd tea.Cmd) {
	if cmd != nil {
		v.pending = append(v.pending, cmd)
	}
}

// Cmds returns and clears everything queued since the last call.
func (v *ScrollView) Cmds() tea.Cmd {
	if len(v.pending) == 0 {
		return nil
	}
	cmds := v.pending
	v.pending = nil
	return tea.Batch(cmds...)
}

// Update handles the view's own messages. Messages addressed to another
// view are ignored.
func (v *ScrollView) Update(msg tea.Msg) {
	switch msg := msg.(type) {
	case taskMsg:
		if msg.view != v {
			return
		}
		if fn, ok := v.tasks[msg.id]; ok {
			delete(v.tasks, msg.id)
			fn()
		}
	case frameMsg:
		if msg.view != v {
			return
		}
		v.step()
	}
}

// SetSize resizes the viewport and keeps the offset in range.
func (v *ScrollView) SetSize(width, height int) {
	v.bounds.Size = refresh.Size{Width: float64(width), Height: float64(height)}
	if v.size.Width != float64(width) {
		v.SetContentSize(refresh.Size{Width: float64(width), Height: v.size.Height})
	}
	if !v.dragging {
		v.settle()
	}
}

// SetRows sets the content height to n rows.
func (v *ScrollView) SetRows(n int) {
	v.SetContentSize(refresh.Size{Width: v.bounds.Size.Width, Height: float64(n)})
}

// Height returns the viewport height in rows.
func (v *ScrollView) Height() int {
	return int(v.bounds.Size.Height)
}

// Offset returns the row drawn at the top of the viewport.
func (v *ScrollView) Offset() int {
	return int(math.Round(v.shown))
}

// minOffset and maxOffset bound the resting offset.
func (v *ScrollView) minOffset() float64 {
	return -v.inset.Top
}

func (v *ScrollView) maxOffset() float64 {
	return math.Max(v.minOffset(), v.size.Height+v.inset.Bottom-v.bounds.Size.Height)
}

func (v *ScrollView) clamp(y float64) float64 {
	return math.Min(v.maxOffset(), math.Max(v.minOffset(), y))
}

// Press starts a drag at row y of the viewport.
func (v *ScrollView) Press(y int) {
	v.dragging = true
	v.dragStartY = y
	v.dragStartOffset = v.offset.Y
	v.shown, v.velocity = v.offset.Y, 0
}

// Motion moves the content with the pointer. Past either edge the content
// follows at half speed.
func (v *ScrollView) Motion(y int) {
	if !v.dragging {
		return
	}
	target := v.dragStartOffset + float64(v.dragStartY-y)
	lo, hi := v.minOffset(), v.maxOffset()
	switch {
	case target < lo:
		target = lo - (lo-target)*rubberBand
	case target > hi:
		target = hi + (target-hi)*rubberBand
	}
	v.SetContentOffset(refresh.Point{X: v.offset.X, Y: math.Round(target)})
}

// Release ends the drag. Observers see the release position first, then
// the content springs back inside its bounds.
func (v *ScrollView) Release() {
	if !v.dragging {
		return
	}
	v.dragging = false
	v.SetContentOffset(v.offset)
	v.settle()
}

// Scroll moves the content by delta rows without dragging.
func (v *ScrollView) Scroll(delta int) {
	v.ScrollTo(v.offset.Y + float64(delta))
}

// ScrollTo moves the content so row y is at the top, within bounds.
func (v *ScrollView) ScrollTo(y float64) {
	y = v.clamp(y)
	if y == v.offset.Y {
		return
	}
	v.SetContentOffset(refresh.Point{X: v.offset.X, Y: y})
}

func (v *ScrollView) settle() {
	if y := v.clamp(v.offset.Y); y != v.offset.Y {
		v.SetContentOffset(refresh.Point{X: v.offset.X, Y: y})
	}
}

func (v *ScrollView) animate() {
	if v.animating || v.shown == v.offset.Y {
		return
	}
	v.animating = true
	v.Post(v.tick(time.Second/60, func(time.Time) tea.Msg {
		return frameMsg{view: v}
	}))
}

func (v *ScrollView) step() {
	v.animating = false
	if v.dragging {
		return
	}
	v.shown, v.velocity = v.spring.Update(v.shown, v.velocity, v.offset.Y)
	if math.Abs(v.shown-v.offset.Y) < 0.05 && math.Abs(v.velocity) < 0.05 {
		v.shown, v.velocity = v.offset.Y, 0
		return
	}
	v.animate()
}

// Render draws the viewport. row renders content row i; rows outside the
// content show whichever element covers them.
func (v *ScrollView) Render(row func(i, width int) string) string {
	width := int(v.bounds.Size.Width)
	height := v.Height()
	top := v.Offset()

	lines := make([]string, height)
	for r := range height {
		y := top + r
		if y >= 0 && y < int(v.size.Height) {
			lines[r] = row(y, width)
			continue
		}
		lines[r] = FitToWidth(v.elementLine(y, width), width)
	}
	return strings.Join(lines, "\n")
}

func (v *ScrollView) elementLine(y, width int) string {
	for _, e := range v.elements {
		lr, ok := e.(lineRenderer)
		if !ok || lr.Hidden() {
			continue
		}
		f := lr.Frame()
		start := int(math.Round(f.Origin.Y))
		if y < start || y >= start+int(f.Size.Height) {
			continue
		}
		lines := lr.Lines(width)
		if i := y - start; i < len(lines) {
			return lines[i]
		}
	}
	return ""
}

var _ refresh.Surface = (*ScrollView)(nil)
