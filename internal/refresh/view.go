package refresh

// Element is a visual element with a frame and visibility.
type Element interface {
	Frame() Rect
	SetFrame(Rect)
	SetHidden(bool)
}

// View is the indicator a controller reports progress to.
type View interface {
	Element

	// StateChanged fires before the controller's state is updated, and only
	// when the new state differs from the current one.
	StateChanged(c *Controller, s State)
	// PercentageChanged reports drag progress in [0, 1] while stopped.
	PercentageChanged(c *Controller, p float64)
	EnabledChanged(c *Controller, enabled bool)
}

// DefaultView is the indicator a controller uses until SetCustomView is
// called. It records what it is told and draws nothing.
type DefaultView struct {
	frame      Rect
	hidden     bool
	state      State
	percentage float64
}

// NewDefaultView returns a DefaultView with the given frame.
func NewDefaultView(frame Rect) *DefaultView {
	return &DefaultView{frame: frame}
}

func (v *DefaultView) Frame() Rect { return v.frame }
func (v *DefaultView) SetFrame(r Rect) { v.frame = r }
func (v *DefaultView) SetHidden(h bool) { v.hidden = h }
func (v *DefaultView) Hidden() bool { return v.hidden }
func (v *DefaultView) State() State { return v.state }
func (v *DefaultView) Percentage() float64 { return v.percentage }

func (v *DefaultView) StateChanged(_ *Controller, s State) {
	v.state = s
}

func (v *DefaultView) PercentageChanged(_ *Controller, p float64) {
	v.percentage = p
}

func (v *DefaultView) EnabledChanged(_ *Controller, enabled bool) {
	if !enabled {
		v.state = Stop
	}
}
