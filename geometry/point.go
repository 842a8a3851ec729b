package geometry

import "math"

// Point is a position in scene coordinates. X grows to the right, Y grows downward.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Sub returns the displacement from other to p.
func (p Point) Sub(other Point) Vector {
	return Vector{X: p.X - other.X, Y: p.Y - other.Y}
}

// Add moves p by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Lerp returns the point a fraction t of the way from p to other.
func (p Point) Lerp(other Point, t float64) Point {
	return p.Add(other.Sub(p).Scale(t))
}
