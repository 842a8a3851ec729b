// Package optics holds the mirror and Snell's-law direction updates used at
// every interaction of the ray with a boundary.
package optics

import (
	"math"

	"github.com/meghashyamc/lasercavity/geometry"
)

// IndexEpsilon is the largest index difference still treated as optically identical.
const IndexEpsilon = 1e-4

// Reflect mirrors direction about normal: d - 2(d·n)n. The result is the same
// whichever way normal points.
func Reflect(direction, normal geometry.Vector) geometry.Vector {
	return direction.Reflect(normal)
}

// Refract bends incident across a boundary from index n1 into index n2.
// normal must oppose incident (dot(incident, normal) <= 0). It returns false
// on total internal reflection. Equal indices leave incident untouched.
func Refract(incident, normal geometry.Vector, n1, n2 float64) (geometry.Vector, bool) {
	if math.Abs(n1-n2) < IndexEpsilon {
		return incident, true
	}

	i := incident.Normalize()
	n := normal.Normalize()
	eta := n1 / n2
	cosI := -i.DotProduct(n)
	sin2T := SinSquaredTransmitted(cosI, n1, n2)
	if sin2T > 1 {
		return geometry.Vector{}, false
	}

	cosT := math.Sqrt(math.Max(0, 1-sin2T))
	return i.Scale(eta).Add(n.Scale(eta*cosI - cosT)).Normalize(), true
}

// SinSquaredTransmitted is sin²θt for light arriving with cos θi = cosI.
// Values above 1 mean no transmitted ray exists.
func SinSquaredTransmitted(cosI, n1, n2 float64) float64 {
	eta := n1 / n2
	return eta * eta * (1 - cosI*cosI)
}

// CriticalAngle returns the incidence angle (radians, from the normal) beyond
// which light going from n1 into n2 is totally reflected. It only exists when n1 > n2.
func CriticalAngle(n1, n2 float64) (float64, bool) {
	if n1 <= n2 {
		return 0, false
	}
	return math.Asin(n2 / n1), true
}
