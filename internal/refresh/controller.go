// Package refresh implements a pull-to-refresh / load-more controller for
// scrollable surfaces.
//
// A Controller observes a Surface's content offset, derives how far its
// indicator has been pulled into view, and moves through Stop, Trigger and
// Loading as the user drags past the threshold and releases. It reserves
// space for the indicator by adjusting the surface's content inset and calls
// its Handler once the reservation is in place.
//
// A Controller is not safe for concurrent use. Every method, and every
// callback the surface delivers, must run on the host's main context.
package refresh

import (
	"io"
	"log/slog"
	"time"
	"weak"
)

// Controller is the state machine for one direction of one surface.
type Controller struct {
	surface   Surface
	direction Direction
	state     State

	view       View
	viewParent Surface
	handler    Handler

	triggerTime        time.Time
	originContentInset float64

	minRefreshDuration time.Duration
	animationDuration  time.Duration
	autoLoadMore       bool
	showAboveContent   bool
	enabled            bool
	closed             bool

	subs   []Subscription
	now    func() time.Time
	logger *slog.Logger
}

// New creates a controller bound to surface and starts observing it.
// The zero Direction is Top.
func New(surface Surface, direction Direction, opts ...Option) *Controller {
	c := &Controller{
		direction:          direction,
		enabled:            true,
		autoLoadMore:       direction.IsLoadMore(),
		minRefreshDuration: DefaultMinRefreshDuration,
		animationDuration:  DefaultAnimationDuration,
		now:                time.Now,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	view := c.view
	c.view = nil
	c.surface = surface
	if surface != nil {
		c.originContentInset = direction.OriginInset(surface.ContentInset())
	}
	if view == nil {
		view = c.defaultView()
	}
	c.SetCustomView(view)
	c.attach(surface)
	return c
}

func (c *Controller) defaultView() View {
	var bounds Rect
	if c.surface != nil {
		bounds = c.surface.Bounds()
	}
	return NewDefaultView(Rect{Size: c.direction.RefreshViewSize(bounds)})
}

// Direction returns the edge this controller watches.
func (c *Controller) Direction() Direction { return c.direction }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Surface returns the observed surface, or nil once detached.
func (c *Controller) Surface() Surface { return c.surface }

// View returns the current indicator.
func (c *Controller) View() View { return c.view }

func (c *Controller) Enabled() bool { return c.enabled }
func (c *Controller) AutoLoadMore() bool { return c.autoLoadMore }
func (c *Controller) ShowAboveContent() bool { return c.showAboveContent }
func (c *Controller) MinRefreshDuration() time.Duration { return c.minRefreshDuration }

func (c *Controller) SetHandler(h Handler) { c.handler = h }
func (c *Controller) SetMinRefreshDuration(d time.Duration) { c.minRefreshDuration = d }

// SetShowAboveContent changes where the indicator is laid out.
func (c *Controller) SetShowAboveContent(show bool) {
	c.showAboveContent = show
	c.layoutRefreshView()
}

// SetAutoLoadMore toggles load-more space reservation and resets the
// content inset accordingly.
func (c *Controller) SetAutoLoadMore(auto bool) {
	if c.autoLoadMore == auto {
		return
	}
	c.autoLoadMore = auto
	if c.surface != nil {
		c.surface.SetContentInset(c.initialContentInset())
	}
}

// SetEnabled turns the controller on or off. Disabling while a cycle is in
// progress stops it immediately without animation.
func (c *Controller) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	if !enabled && c.state != Stop {
		c.stop(false, nil)
	}
	if c.view != nil {
		c.view.EnabledChanged(c, enabled)
	}
	c.enabled = enabled
	c.layoutRefreshView()
	if c.surface != nil {
		c.surface.SetContentInset(c.initialContentInset())
	}
}

// SetSurface moves the controller to another surface. Passing nil detaches
// it; every observer on the previous surface is cancelled either way.
func (c *Controller) SetSurface(s Surface) {
	c.detach()
	if c.view != nil && c.viewParent != nil {
		c.viewParent.RemoveElement(c.view)
		c.viewParent = nil
	}
	c.surface = s
	if s == nil {
		return
	}
	c.originContentInset = c.direction.OriginInset(s.ContentInset())
	if c.view != nil {
		s.AddElement(c.view)
		c.viewParent = s
	}
	c.attach(s)
	c.layoutRefreshView()
}

// Close detaches the controller from its surface. Deferred work scheduled
// before Close becomes a no-op. Close is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.SetSurface(nil)
	c.closed = true
}

// SetCustomView replaces the indicator, moving it onto the surface.
func (c *Controller) SetCustomView(v View) {
	if v == nil {
		return
	}
	if c.view != nil && c.viewParent != nil {
		c.viewParent.RemoveElement(c.view)
		c.viewParent = nil
	}
	c.view = v
	if c.surface != nil {
		c.surface.AddElement(v)
		c.viewParent = c.surface
	}
	c.layoutRefreshView()
}

// TriggerRefresh starts a loading cycle programmatically: the indicator is
// shown fully, the content scrolls to reveal it and the handler runs once
// the transition finishes. It does nothing while disabled or already loading.
func (c *Controller) TriggerRefresh(animated bool) {
	s := c.surface
	if !c.enabled || c.state == Loading || s == nil {
		c.logger.Debug("trigger skipped", "direction", c.direction, "state", c.state, "enabled", c.enabled)
		return
	}
	c.setState(Loading)
	c.triggerTime = c.now()
	c.view.PercentageChanged(c, 1.0)

	// always reserve the space stop releases, auto-load-more included
	inset := c.adjustedContentInset()
	offset := c.triggeredContentOffset(inset)
	s.Animate(c.duration(animated), func() {
		s.SetContentOffset(offset)
		s.SetContentInset(inset)
	}, c.handlerCompletion())
}

// StopToRefresh ends a loading cycle and releases the indicator's space,
// calling completion once the inset transition finishes. It does nothing
// while disabled or already stopped.
//
// When less than the minimum refresh duration has passed since the trigger,
// the stop is deferred by a sixtieth of that minimum; when more has passed
// it runs without delay.
func (c *Controller) StopToRefresh(animated bool, completion func()) {
	if !c.enabled || c.state == Stop || c.surface == nil {
		c.logger.Debug("stop skipped", "direction", c.direction, "state", c.state, "enabled", c.enabled)
		return
	}
	delay := c.stopDelay()
	wp := weak.Make(c)
	c.surface.After(delay, func() {
		c := wp.Value()
		if c == nil || c.closed || c.state == Stop {
			return
		}
		c.stop(animated, completion)
	})
}

func (c *Controller) stopDelay() time.Duration {
	delay := c.now().Sub(c.triggerTime)
	if delay < c.minRefreshDuration {
		delay = c.minRefreshDuration / 60
	}
	if delay > c.minRefreshDuration {
		delay = 0
	}
	return delay
}

func (c *Controller) stop(animated bool, completion func()) {
	s := c.surface
	wasLoading := c.state == Loading
	c.setState(Stop)
	if s == nil {
		return
	}
	if !wasLoading {
		if completion != nil {
			completion()
		}
		return
	}
	inset := c.adjustedContentInset()
	s.Animate(c.duration(animated), func() {
		s.SetContentInset(inset)
	}, func(finished bool) {
		if finished && completion != nil {
			completion()
		}
	})
}

func (c *Controller) attach(s Surface) {
	if s == nil {
		return
	}
	c.subs = append(c.subs, s.ObserveContentOffset(c.checkOffsets))
	if c.direction.IsLoadMore() {
		c.subs = append(c.subs, s.ObserveContentSize(func(Size) {
			c.layoutRefreshView()
		}))
		s.SetContentInset(c.initialContentInset())
	} else {
		c.subs = append(c.subs, s.ObserveContentInset(c.contentInsetChanged))
	}
}

func (c *Controller) detach() {
	for _, sub := range c.subs {
		sub.Cancel()
	}
	c.subs = nil
}

func (c *Controller) contentInsetChanged(insets Insets) {
	if origin := c.direction.OriginInset(insets); origin != c.originContentInset {
		c.originContentInset = origin
	}
	c.layoutRefreshView()
}

func (c *Controller) checkOffsets(offset Point) {
	s := c.surface
	if !c.enabled || s == nil {
		return
	}
	m := Measure(c.direction, c.autoLoadMore, c.visibleDistance(), Metrics{
		Offset: offset,
		Size:   s.ContentSize(),
		Inset:  s.ContentInset(),
		Bounds: s.Bounds(),
	})
	if c.state == Stop {
		c.view.PercentageChanged(c, m.Percentage)
	}

	if s.IsDragging() {
		if m.Triggered && c.state == Stop {
			c.setState(Trigger)
		} else if !m.Triggered && c.state == Trigger {
			c.setState(Stop)
		}
		return
	}
	if c.state != Trigger {
		return
	}

	c.setState(Loading)
	c.triggerTime = c.now()
	if c.autoLoadMore {
		s.SetContentInset(c.adjustedContentInset())
		if c.handler != nil {
			c.handler()
		}
		return
	}
	inset := c.adjustedContentInset()
	s.Animate(c.animationDuration, func() {
		s.SetContentInset(inset)
	}, c.handlerCompletion())
}

// handlerCompletion returns an animation completion that calls the handler
// if the controller is still alive when the animation finishes.
func (c *Controller) handlerCompletion() func(bool) {
	wp := weak.Make(c)
	return func(finished bool) {
		c := wp.Value()
		if !finished || c == nil || c.closed || c.handler == nil {
			return
		}
		c.handler()
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	if c.view != nil {
		c.view.StateChanged(c, s)
	}
	c.logger.Debug("state changed", "direction", c.direction, "from", c.state, "to", s)
	c.state = s
}

func (c *Controller) layoutRefreshView() {
	if c.view == nil {
		return
	}
	c.view.SetHidden(!c.enabled)
	s := c.surface
	if c.state != Stop || !c.enabled || s == nil {
		return
	}

	frame := c.view.Frame()
	offset := c.visibleDistance()
	if c.direction.IsLoadMore() {
		offset = c.direction.Extent(s.ContentSize())
		if !c.showAboveContent {
			offset += c.originContentInset
		}
	} else {
		offset = -offset
		if c.showAboveContent {
			offset -= c.originContentInset
		}
	}
	if c.direction.IsVertical() {
		frame.Origin.Y = offset
	} else {
		frame.Origin.X = offset
	}
	c.view.SetFrame(frame)
}

// initialContentInset is the inset a load-more controller keeps while idle:
// the indicator's space is reserved when auto-loading, released otherwise.
func (c *Controller) initialContentInset() Insets {
	s := c.surface
	if s == nil {
		return Insets{}
	}
	inset := s.ContentInset()
	if !c.direction.IsLoadMore() {
		return inset
	}
	if c.enabled && c.autoLoadMore {
		return inset.Add(c.direction, c.direction.Extent(c.view.Frame().Size))
	}
	return inset.With(c.direction, c.originContentInset)
}

// adjustedContentInset reserves the indicator's space while a cycle is in
// progress and releases it once stopped.
func (c *Controller) adjustedContentInset() Insets {
	s := c.surface
	if s == nil {
		return Insets{}
	}
	extent := c.visibleDistance()
	if c.state == Stop {
		extent = -extent
	}
	return s.ContentInset().Add(c.direction, extent)
}

func (c *Controller) triggeredContentOffset(inset Insets) Point {
	s := c.surface
	if s == nil {
		return Point{}
	}
	switch c.direction {
	case Left:
		return Point{X: -inset.Left}
	case Bottom:
		return Point{Y: s.ContentSize().Height - s.Bounds().Size.Height + c.view.Frame().Size.Height}
	case Right:
		return Point{X: s.ContentSize().Width - s.Bounds().Size.Width + c.view.Frame().Size.Width}
	default:
		return Point{Y: -inset.Top}
	}
}

func (c *Controller) visibleDistance() float64 {
	if c.view == nil {
		return 0
	}
	return c.direction.Extent(c.view.Frame().Size)
}

func (c *Controller) duration(animated bool) time.Duration {
	if !animated {
		return 0
	}
	return c.animationDuration
}
