package scene

import (
	"cmp"
	"fmt"
	"math"

	"github.com/meghashyamc/lasercavity/geometry"
)

const (
	DefaultAngle         = 45.0
	DefaultSnapTolerance = 30.0

	MinAngle   = 1
	MaxAngle   = 179
	MinBounces = 1
	MaxBounces = 1000
	MinSpeed   = 0
	MaxSpeed   = 100
)

// LaunchSpec places the laser on a cavity wall. AngleDeg is measured from
// the wall's forward direction turned around by 180 degrees.
type LaunchSpec struct {
	Origin    geometry.Point `json:"origin" yaml:"origin"`
	WallIndex int            `json:"wall_index" yaml:"wall_index"`
	AngleDeg  float64        `json:"angle_deg" yaml:"angle_deg"`
}

// WithAngle returns l aimed at the given angle.
func (l LaunchSpec) WithAngle(degrees float64) LaunchSpec {
	l.AngleDeg = degrees
	return l
}

// DefaultLaunch sits at the midpoint of the first cavity wall.
func (s Scene) DefaultLaunch() LaunchSpec {
	a, b := s.Cavity.Edge(0)
	return LaunchSpec{
		Origin:    a.Lerp(b, 0.5),
		WallIndex: 0,
		AngleDeg:  DefaultAngle,
	}
}

// Snap moves p onto the nearest cavity wall. It fails when no wall is closer
// than tolerance.
func (s Scene) Snap(p geometry.Point, tolerance float64) (LaunchSpec, bool) {
	best := math.Inf(1)
	var closest LaunchSpec

	for i := range s.Cavity {
		a, b := s.Cavity.Edge(i)
		if a == b {
			continue
		}
		projection, d := geometry.ClosestPointOnSegment(p, a, b)
		if d < best {
			best = d
			closest = LaunchSpec{Origin: projection, WallIndex: i, AngleDeg: DefaultAngle}
		}
	}

	if best >= tolerance {
		return LaunchSpec{}, false
	}
	return closest, true
}

// SnapToWall moves p onto the given wall. It fails when the wall does not
// exist or is not closer than tolerance.
func (s Scene) SnapToWall(p geometry.Point, wall int, tolerance float64) (LaunchSpec, bool) {
	if wall < 0 || wall >= len(s.Cavity) {
		return LaunchSpec{}, false
	}
	a, b := s.Cavity.Edge(wall)
	if a == b {
		return LaunchSpec{}, false
	}
	projection, d := geometry.ClosestPointOnSegment(p, a, b)
	if d >= tolerance {
		return LaunchSpec{}, false
	}
	return LaunchSpec{Origin: projection, WallIndex: wall, AngleDeg: DefaultAngle}, true
}

// ValidateLaunch checks that l refers to an existing wall.
func (s Scene) ValidateLaunch(l LaunchSpec) error {
	if l.WallIndex < 0 || l.WallIndex >= len(s.Cavity) {
		return fmt.Errorf("wall %d of %d: %w", l.WallIndex, len(s.Cavity), ErrWallIndex)
	}
	return nil
}

// ClampAngle keeps a launch angle within [1,179] degrees.
func ClampAngle[T int | float64](angle T) T {
	return clampValue(angle, MinAngle, MaxAngle)
}

// ClampBounces keeps a bounce budget within [1,1000].
func ClampBounces(bounces int) int {
	return clampValue(bounces, MinBounces, MaxBounces)
}

// ClampSpeed keeps a reveal speed slider value within [0,100].
func ClampSpeed(speed int) int {
	return clampValue(speed, MinSpeed, MaxSpeed)
}

// IndexFromSlider converts a slider value scaled by 100 (150 -> 1.50) to a refractive index.
func IndexFromSlider(value int) float64 {
	return float64(value) / 100
}

func clampValue[T cmp.Ordered](value T, min T, max T) T {
	if value > max {
		value = max
		return value
	}

	if value < min {
		value = min
	}

	return value
}
