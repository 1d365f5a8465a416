package refresh

import "math"

// Metrics is the surface geometry a threshold is derived from.
type Metrics struct {
	Offset Point
	Size   Size
	Inset  Insets
	Bounds Rect
}

// Measurement is the result of comparing an offset against a direction's
// trigger threshold.
type Measurement struct {
	// CheckOffset is the offset component along the direction's axis.
	CheckOffset float64 `json:"check_offset"`
	Threshold   float64 `json:"threshold"`
	// VisibleOffset is how much of the indicator area has been revealed.
	VisibleOffset float64 `json:"visible_offset"`
	// Percentage is VisibleOffset over the indicator extent, clamped to [0, 1].
	Percentage float64 `json:"percentage"`
	Triggered  bool    `json:"triggered"`
}

// Measure computes the trigger threshold for d given the indicator extent.
// For load-more directions autoLoadMore moves the threshold to the content
// end instead of past the indicator.
func Measure(d Direction, autoLoadMore bool, extent float64, m Metrics) Measurement {
	var r Measurement
	switch d {
	case Top:
		r.CheckOffset = m.Offset.Y
		r.Threshold = -m.Inset.Top - extent
		r.VisibleOffset = -r.CheckOffset - m.Inset.Top
	case Left:
		r.CheckOffset = m.Offset.X
		r.Threshold = -m.Inset.Left - extent
		r.VisibleOffset = -r.CheckOffset - m.Inset.Left
	case Bottom:
		r.CheckOffset = m.Offset.Y
		r.Threshold = m.Size.Height + m.Inset.Bottom - m.Bounds.Size.Height
	case Right:
		r.CheckOffset = m.Offset.X
		r.Threshold = m.Size.Width + m.Inset.Right - m.Bounds.Size.Width
	}

	r.Triggered = r.CheckOffset <= r.Threshold
	if d.IsLoadMore() {
		if !autoLoadMore {
			r.Threshold += extent
		}
		r.VisibleOffset = r.CheckOffset - r.Threshold + extent
		if r.Threshold < 0 {
			// content shorter than the viewport
			r.Triggered = false
		} else {
			r.Triggered = r.CheckOffset >= r.Threshold
		}
	}
	r.Percentage = clampPercentage(r.VisibleOffset, extent)
	return r
}

func clampPercentage(visible, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	p := visible / extent
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(1, math.Max(0, p))
}
