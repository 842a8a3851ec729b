package geometry

import (
	"math"
)

// ClosestPointOnSegment projects point onto the segment a-b, clamping the
// projection to the segment, and returns it together with its distance from point.
// A degenerate segment projects everything onto a.
func ClosestPointOnSegment(point, a, b Point) (Point, float64) {
	segment := b.Sub(a)
	lengthSquared := segment.DotProduct(segment)
	if lengthSquared == 0 {
		return a, Distance(point, a)
	}

	t := point.Sub(a).DotProduct(segment) / lengthSquared
	t = math.Max(0, math.Min(1, t))

	projection := a.Add(segment.Scale(t))
	return projection, Distance(point, projection)
}
