package refresh

// Point is a position in surface coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point
	Size   Size
}

// Insets is padding reserved around scrollable content, one value per edge.
type Insets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// With returns a copy of the insets with the component for d set to v.
func (i Insets) With(d Direction, v float64) Insets {
	switch d {
	case Top:
		i.Top = v
	case Left:
		i.Left = v
	case Bottom:
		i.Bottom = v
	case Right:
		i.Right = v
	}
	return i
}

// Add returns a copy of the insets with the component for d shifted by delta.
func (i Insets) Add(d Direction, delta float64) Insets {
	return i.With(d, d.OriginInset(i)+delta)
}
