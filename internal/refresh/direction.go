package refresh

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultIndicatorExtent is the size of the default indicator along the
// direction's axis.
const DefaultIndicatorExtent = 44.0

// ErrUnknownDirection is returned by ParseDirection for unrecognised names.
var ErrUnknownDirection = errors.New("unknown direction")

// Direction is the edge of the scroll surface a controller watches.
// Top and Left refresh; Bottom and Right load more.
type Direction int

const (
	Top Direction = iota
	Left
	Bottom
	Right
)

var directionNames = [...]string{
	Top:    "top",
	Left:   "left",
	Bottom: "bottom",
	Right:  "right",
}

func (d Direction) String() string {
	if d < Top || d > Right {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection parses a direction name, ignoring case.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range directionNames {
		if n == name {
			return Direction(d), nil
		}
	}
	return Top, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// IsLoadMore reports whether triggering appends rather than prepends.
func (d Direction) IsLoadMore() bool {
	return d == Bottom || d == Right
}

// IsVertical reports whether the direction scrolls along the y axis.
func (d Direction) IsVertical() bool {
	return d == Top || d == Bottom
}

// OriginInset selects the inset component belonging to the direction.
func (d Direction) OriginInset(insets Insets) float64 {
	switch d {
	case Left:
		return insets.Left
	case Bottom:
		return insets.Bottom
	case Right:
		return insets.Right
	default:
		return insets.Top
	}
}

// Extent returns the height for vertical directions and the width otherwise.
func (d Direction) Extent(s Size) float64 {
	if d.IsVertical() {
		return s.Height
	}
	return s.Width
}

// RefreshViewSize is the size of the default indicator inside a container.
// It spans the container across the axis and has a fixed extent along it.
func (d Direction) RefreshViewSize(bounds Rect) Size {
	if d.IsVertical() {
		return Size{Width: bounds.Size.Width, Height: DefaultIndicatorExtent}
	}
	return Size{Width: DefaultIndicatorExtent, Height: bounds.Size.Height}
}
