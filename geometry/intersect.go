package geometry

import "math"

const (
	// ParallelEpsilon is the smallest determinant treated as a proper crossing.
	ParallelEpsilon = 1e-4
	// MinHitDistance rejects hits at the ray's own origin.
	MinHitDistance = 1e-3
)

// Intersection is where a ray crosses a segment. T is the ray parameter,
// which is a distance when the ray direction has unit length.
type Intersection struct {
	Point Point
	T     float64
}

// IntersectRaySegment solves origin + t*dir = p1 + u*(p2-p1). It reports no
// intersection when the ray and the segment are parallel, when t <= MinHitDistance
// or when u falls outside [0,1].
func IntersectRaySegment(origin Point, dir Vector, p1, p2 Point) (Intersection, bool) {
	denominator := dir.X*(p1.Y-p2.Y) - dir.Y*(p1.X-p2.X)
	if math.Abs(denominator) < ParallelEpsilon {
		return Intersection{}, false
	}

	t := ((p1.X-origin.X)*(p1.Y-p2.Y) - (p1.Y-origin.Y)*(p1.X-p2.X)) / denominator
	u := -((p1.X-origin.X)*dir.Y - (p1.Y-origin.Y)*dir.X) / denominator

	if t <= MinHitDistance || u < 0 || u > 1 {
		return Intersection{}, false
	}

	return Intersection{
		Point: origin.Add(dir.Scale(t)),
		T:     t,
	}, true
}
