// Package headless provides an in-memory refresh.Surface driven by a
// virtual clock. It backs the simulator, the MCP tools and the controller
// tests.
package headless

import (
	"sort"
	"time"

	"github.com/juanibiapina/pullrefresh/internal/refresh"
)

// Epoch is the virtual time a new Surface starts at.
var Epoch = time.Date(2016, time.May, 6, 0, 0, 0, 0, time.UTC)

// Animation records a call to Animate.
type Animation struct {
	Start    time.Time
	Duration time.Duration
}

type task struct {
	due time.Time
	seq int
	fn  func()
}

// Surface is a scroll surface with no rendering. Deferred work runs only
// when the clock is advanced, on the caller's goroutine.
type Surface struct {
	offset   refresh.Point
	size     refresh.Size
	inset    refresh.Insets
	bounds   refresh.Rect
	dragging bool

	offsetListeners refresh.Listeners[refresh.Point]
	sizeListeners   refresh.Listeners[refresh.Size]
	insetListeners  refresh.Listeners[refresh.Insets]

	elements   []refresh.Element
	animations []Animation

	now   time.Time
	tasks []task
	seq   int
}

// New returns a surface with the given viewport and content sizes.
func New(bounds, content refresh.Size) *Surface {
	return &Surface{
		bounds: refresh.Rect{Size: bounds},
		size:   content,
		now:    Epoch,
	}
}

func (s *Surface) ContentOffset() refresh.Point { return s.offset }
func (s *Surface) ContentSize() refresh.Size { return s.size }
func (s *Surface) ContentInset() refresh.Insets { return s.inset }
func (s *Surface) Bounds() refresh.Rect { return s.bounds }
func (s *Surface) IsDragging() bool { return s.dragging }
func (s *Surface) Elements() []refresh.Element { return s.elements }
func (s *Surface) Animations() []Animation { return s.animations }
func (s *Surface) Now() time.Time { return s.now }
func (s *Surface) Pending() int { return len(s.tasks) }
func (s *Surface) Elapsed() time.Duration { return s.now.Sub(Epoch) }
func (s *Surface) SetBounds(size refresh.Size) { s.bounds.Size = size }
func (s *Surface) SetDragging(dragging bool) { s.dragging = dragging }

// SetContentOffset stores p and notifies observers, even if p is unchanged.
func (s *Surface) SetContentOffset(p refresh.Point) {
	s.offset = p
	s.offsetListeners.Publish(p)
}

func (s *Surface) SetContentSize(size refresh.Size) {
	s.size = size
	s.sizeListeners.Publish(size)
}

func (s *Surface) SetContentInset(i refresh.Insets) {
	s.inset = i
	s.insetListeners.Publish(i)
}

func (s *Surface) ObserveContentOffset(fn func(refresh.Point)) refresh.Subscription {
	return s.offsetListeners.Add(fn)
}

func (s *Surface) ObserveContentSize(fn func(refresh.Size)) refresh.Subscription {
	return s.sizeListeners.Add(fn)
}

func (s *Surface) ObserveContentInset(fn func(refresh.Insets)) refresh.Subscription {
	return s.insetListeners.Add(fn)
}

// Observers returns the number of registered offset, size and inset
// observers.
func (s *Surface) Observers() (offset, size, inset int) {
	return s.offsetListeners.Len(), s.sizeListeners.Len(), s.insetListeners.Len()
}

// Animate applies changes immediately; completion runs once d of virtual
// time has passed.
func (s *Surface) Animate(d time.Duration, changes func(), completion func(bool)) {
	s.animations = append(s.animations, Animation{Start: s.now, Duration: d})
	if changes != nil {
		changes()
	}
	if completion != nil {
		s.After(d, func() { completion(true) })
	}
}

// After schedules fn to run once d of virtual time has passed.
func (s *Surface) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	s.tasks = append(s.tasks, task{due: s.now.Add(d), seq: s.seq, fn: fn})
}

func (s *Surface) AddElement(e refresh.Element) {
	s.elements = append(s.elements, e)
}

func (s *Surface) RemoveElement(e refresh.Element) {
	for i, el := range s.elements {
		if el == e {
			s.elements = append(s.elements[:i:i], s.elements[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, running every task that falls due
// in order. Tasks scheduled by those tasks run too if they fall due in time.
// The clock never moves backwards; a negative d counts as zero.
func (s *Surface) Advance(d time.Duration) {
	d = max(d, 0)
	target := s.now.Add(d)
	for {
		t, ok := s.popDue(target)
		if !ok {
			break
		}
		if t.due.After(s.now) {
			s.now = t.due
		}
		t.fn()
	}
	s.now = target
}

// Drain runs every pending task, advancing the clock as needed. It gives up
// after limit tasks so self-rescheduling work cannot loop forever.
func (s *Surface) Drain(limit int) int {
	ran := 0
	for len(s.tasks) > 0 && ran < limit {
		s.sortTasks()
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		if t.due.After(s.now) {
			s.now = t.due
		}
		t.fn()
		ran++
	}
	return ran
}

func (s *Surface) popDue(target time.Time) (task, bool) {
	if len(s.tasks) == 0 {
		return task{}, false
	}
	s.sortTasks()
	t := s.tasks[0]
	if t.due.After(target) {
		return task{}, false
	}
	s.tasks = s.tasks[1:]
	return t, true
}

func (s *Surface) sortTasks() {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due.Equal(s.tasks[j].due) {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].due.Before(s.tasks[j].due)
	})
}

// BeginDrag marks the surface as being dragged by the user.
func (s *Surface) BeginDrag() {
	s.dragging = true
}

// DragTo moves the content while dragging.
func (s *Surface) DragTo(p refresh.Point) {
	s.dragging = true
	s.SetContentOffset(p)
}

// EndDrag releases the drag and republishes the current offset, the way a
// scroll view reports its first settling position after the touch ends.
func (s *Surface) EndDrag() {
	s.dragging = false
	s.SetContentOffset(s.offset)
}

var _ refresh.Surface = (*Surface)(nil)
