package domain

// Point is a position in canvas coordinates
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Lerp interpolates linearly between a and b at parameter t
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Segment is a line between two points
type Segment struct {
	From Point `json:"from" yaml:"from"`
	To   Point `json:"to" yaml:"to"`
}

// At returns the point at parameter t along the segment
func (s Segment) At(t float64) Point {
	return Lerp(s.From, s.To, t)
}

// Degenerate reports whether the segment has zero length
func (s Segment) Degenerate() bool {
	return s.From == s.To
}
