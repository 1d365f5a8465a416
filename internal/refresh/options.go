package refresh

import (
	"log/slog"
	"time"
)

const (
	// DefaultMinRefreshDuration is how long a loading cycle is expected to
	// stay visible before StopToRefresh takes effect without delay.
	DefaultMinRefreshDuration = 60 * time.Second

	// DefaultAnimationDuration is used for inset and offset transitions.
	DefaultAnimationDuration = 300 * time.Millisecond
)

// Handler is called when a refresh or load-more is triggered.
type Handler func()

// Option configures a Controller.
type Option func(*Controller)

// WithMinRefreshDuration sets the minimum visible loading duration.
func WithMinRefreshDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.minRefreshDuration = d
	}
}

// WithAutoLoadMore sets whether load-more space is reserved up front so the
// handler fires as soon as the user releases past the content end.
func WithAutoLoadMore(auto bool) Option {
	return func(c *Controller) {
		c.autoLoadMore = auto
	}
}

// WithShowAboveContent places the indicator against the content edge
// instead of outside the resting inset.
func WithShowAboveContent(show bool) Option {
	return func(c *Controller) {
		c.showAboveContent = show
	}
}

// WithHandler sets the trigger handler.
func WithHandler(h Handler) Option {
	return func(c *Controller) {
		c.handler = h
	}
}

// WithView replaces the default indicator.
func WithView(v View) Option {
	return func(c *Controller) {
		c.view = v
	}
}

// WithClock overrides the time source used for trigger timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAnimationDuration sets the duration of animated transitions.
func WithAnimationDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.animationDuration = d
	}
}

// WithLogger sets the logger used for state transitions and skipped
// operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}
