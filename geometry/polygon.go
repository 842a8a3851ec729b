package geometry

import "slices"

// Polygon is a closed loop of vertices. Edge i runs from vertex i to vertex (i+1) mod n.
type Polygon []Point

// Edge returns the endpoints of edge i.
func (p Polygon) Edge(i int) (Point, Point) {
	return p[i], p[(i+1)%len(p)]
}

// EdgeDirection returns the unit direction of edge i.
func (p Polygon) EdgeDirection(i int) Vector {
	start, end := p.Edge(i)
	return end.Sub(start).Normalize()
}

// ShoelaceSum is twice the signed area of p. In a Y-down frame a negative sum
// means the vertices run counter-clockwise on screen.
func ShoelaceSum(p Polygon) float64 {
	sum := 0.0
	for i := range p {
		a, b := p.Edge(i)
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// NormalizeWinding returns p in canonical (screen-space counter-clockwise)
// order, reversing it when the shoelace sum is positive. The input is not modified.
func NormalizeWinding(p Polygon) Polygon {
	out := slices.Clone(p)
	if ShoelaceSum(out) > 0 {
		slices.Reverse(out)
	}
	return out
}

// PointInPolygon is the even-odd horizontal ray test. Results for
// self-intersecting polygons are not meaningful.
func PointInPolygon(point Point, p Polygon) bool {
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > point.Y) != (b.Y > point.Y) &&
			point.X < (b.X-a.X)*(point.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
