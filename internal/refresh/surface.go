package refresh

import "time"

// Surface is the host scroll view a controller observes and adjusts.
//
// All callbacks (observers, animation completions and After tasks) must be
// delivered on the host's single main context.
type Surface interface {
	ContentOffset() Point
	SetContentOffset(Point)
	ContentSize() Size
	ContentInset() Insets
	SetContentInset(Insets)
	Bounds() Rect
	// IsDragging reports whether the user is actively dragging the content.
	IsDragging() bool

	ObserveContentOffset(func(Point)) Subscription
	ObserveContentSize(func(Size)) Subscription
	ObserveContentInset(func(Insets)) Subscription

	// Animate applies changes and later calls completion (if non-nil) once
	// the transition has run for d.
	Animate(d time.Duration, changes func(), completion func(finished bool))
	// After runs fn on the main context once d has elapsed.
	After(d time.Duration, fn func())

	AddElement(Element)
	RemoveElement(Element)
}

// Subscription is a registered observer.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Cancel() { f() }

// Listeners is a listener list hosts embed to implement the Observe methods.
// The zero value is ready to use. It is not safe for concurrent use.
type Listeners[T any] struct {
	nextID  int
	entries []listenerEntry[T]
}

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// Add registers fn and returns a subscription that removes it.
func (l *Listeners[T]) Add(fn func(T)) Subscription {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	return SubscriptionFunc(func() { l.remove(id) })
}

func (l *Listeners[T]) remove(id int) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

// Publish calls every listener registered at the time of the call.
// Listeners cancelled by an earlier listener in the same publish are skipped.
func (l *Listeners[T]) Publish(v T) {
	snapshot := append([]listenerEntry[T](nil), l.entries...)
	for _, e := range snapshot {
		if !l.has(e.id) {
			continue
		}
		e.fn(v)
	}
}

func (l *Listeners[T]) has(id int) bool {
	for _, e := range l.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (l *Listeners[T]) Len() int {
	return len(l.entries)
}
