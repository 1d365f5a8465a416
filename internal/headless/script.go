package headless

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/juanibiapina/pullrefresh/internal/refresh"
)

// drainLimit bounds how many pending tasks a script run executes at the end.
const drainLimit = 1000

// Script describes a scenario to run against a single controller.
type Script struct {
	Direction     string     `json:"direction"`
	Width         float64    `json:"width"`
	Height        float64    `json:"height"`
	ContentWidth  float64    `json:"content_width"`
	ContentHeight float64    `json:"content_height"`
	Inset         [4]float64 `json:"inset"` // top, left, bottom, right
	// Extent is the indicator size along the direction's axis. Zero uses
	// refresh.DefaultIndicatorExtent.
	Extent             float64 `json:"extent,omitempty"`
	AutoLoadMore       *bool   `json:"auto_load_more,omitempty"`
	ShowAboveContent   bool    `json:"show_above_content,omitempty"`
	MinRefreshDuration string  `json:"min_refresh_duration,omitempty"`
	Steps              []Step  `json:"steps"`
}

// Step is one action in a Script.
//
// Actions: drag (move to Offset along the axis while dragging), release,
// trigger, stop, wait (advance the clock by Duration), enable, disable.
type Step struct {
	Action   string  `json:"action"`
	Offset   float64 `json:"offset,omitempty"`
	Duration string  `json:"duration,omitempty"`
	Animated bool    `json:"animated,omitempty"`
}

// Event is something observed while running a Script.
type Event struct {
	AtMs       int64    `json:"at_ms"`
	Kind       string   `json:"kind"`
	State      string   `json:"state,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Inset      *float64 `json:"inset,omitempty"`
	Action     string   `json:"action,omitempty"`
}

// Trace is the result of running a Script.
type Trace struct {
	Events      []Event `json:"events"`
	FinalState  string  `json:"final_state"`
	FinalInset  float64 `json:"final_inset"`
	Handlers    int     `json:"handlers"`
	Completions int     `json:"completions"`
}

// ParseScript decodes a JSON script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	return &s, nil
}

// Options converts the script's controller settings to refresh options.
func (s *Script) Options() ([]refresh.Option, error) {
	var opts []refresh.Option
	if s.AutoLoadMore != nil {
		opts = append(opts, refresh.WithAutoLoadMore(*s.AutoLoadMore))
	}
	if s.ShowAboveContent {
		opts = append(opts, refresh.WithShowAboveContent(true))
	}
	if s.MinRefreshDuration != "" {
		d, err := time.ParseDuration(s.MinRefreshDuration)
		if err != nil {
			return nil, fmt.Errorf("invalid min_refresh_duration: %w", err)
		}
		opts = append(opts, refresh.WithMinRefreshDuration(d))
	}
	return opts, nil
}

// Run executes the script against a fresh surface and controller.
func Run(s *Script, logger *slog.Logger) (*Trace, error) {
	dir, err := refresh.ParseDirection(s.Direction)
	if err != nil {
		return nil, err
	}
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}

	surface := New(
		refresh.Size{Width: s.Width, Height: s.Height},
		refresh.Size{Width: s.ContentWidth, Height: s.ContentHeight},
	)
	surface.SetContentInset(refresh.Insets{Top: s.Inset[0], Left: s.Inset[1], Bottom: s.Inset[2], Right: s.Inset[3]})

	trace := &Trace{}
	rec := newRecorder(surface, trace, dir)
	extent := s.Extent
	if extent <= 0 {
		extent = refresh.DefaultIndicatorExtent
	}
	size := dir.RefreshViewSize(surface.Bounds())
	if dir.IsVertical() {
		size.Height = extent
	} else {
		size.Width = extent
	}
	rec.SetFrame(refresh.Rect{Size: size})

	opts = append(opts,
		refresh.WithView(rec),
		refresh.WithClock(surface.Now),
		refresh.WithLogger(logger),
		refresh.WithHandler(func() {
			trace.Handlers++
			rec.add(Event{Kind: "handler"})
		}),
	)
	c := refresh.New(surface, dir, opts...)
	defer c.Close()
	sub := surface.ObserveContentInset(func(i refresh.Insets) {
		v := dir.OriginInset(i)
		rec.add(Event{Kind: "inset", Inset: &v})
	})
	defer sub.Cancel()

	for i, step := range s.Steps {
		if err := runStep(surface, c, dir, step, trace, rec); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
	}
	surface.Drain(drainLimit)

	trace.FinalState = c.State().String()
	trace.FinalInset = dir.OriginInset(surface.ContentInset())
	return trace, nil
}

func runStep(s *Surface, c *refresh.Controller, dir refresh.Direction, step Step, trace *Trace, rec *recorder) error {
	rec.add(Event{Kind: "step", Action: step.Action})
	switch step.Action {
	case "drag":
		p := s.ContentOffset()
		if dir.IsVertical() {
			p.Y = step.Offset
		} else {
			p.X = step.Offset
		}
		s.DragTo(p)
	case "release":
		s.EndDrag()
	case "trigger":
		c.TriggerRefresh(step.Animated)
	case "stop":
		c.StopToRefresh(step.Animated, func() {
			trace.Completions++
			rec.add(Event{Kind: "completion"})
		})
	case "wait":
		d, err := time.ParseDuration(step.Duration)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("negative duration %q", step.Duration)
		}
		s.Advance(d)
	case "enable":
		c.SetEnabled(true)
	case "disable":
		c.SetEnabled(false)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

// recorder is an indicator that writes what the controller tells it into a
// trace. Repeated identical percentages are collapsed.
type recorder struct {
	*refresh.DefaultView
	surface *Surface
	trace   *Trace
	last    float64
	seen    bool
}

func newRecorder(s *Surface, t *Trace, dir refresh.Direction) *recorder {
	return &recorder{
		DefaultView: refresh.NewDefaultView(refresh.Rect{Size: dir.RefreshViewSize(s.Bounds())}),
		surface:     s,
		trace:       t,
	}
}

func (r *recorder) add(e Event) {
	e.AtMs = r.surface.Elapsed().Milliseconds()
	r.trace.Events = append(r.trace.Events, e)
}

func (r *recorder) StateChanged(c *refresh.Controller, s refresh.State) {
	r.DefaultView.StateChanged(c, s)
	r.add(Event{Kind: "state", State: s.String()})
}

func (r *recorder) PercentageChanged(c *refresh.Controller, p float64) {
	r.DefaultView.PercentageChanged(c, p)
	if r.seen && p == r.last {
		return
	}
	r.seen, r.last = true, p
	r.add(Event{Kind: "percentage", Percentage: &p})
}

func (r *recorder) EnabledChanged(c *refresh.Controller, enabled bool) {
	r.DefaultView.EnabledChanged(c, enabled)
	kind := "disabled"
	if enabled {
		kind = "enabled"
	}
	r.add(Event{Kind: kind})
}
