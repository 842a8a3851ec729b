package marcher

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/meghashyamc/lasercavity/geometry"
	"github.com/meghashyamc/lasercavity/logger"
	"github.com/meghashyamc/lasercavity/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x0, y0, x1, y1 float64) []geometry.Point {
	return []geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func medium(t *testing.T, index float64, boundary []geometry.Point) scene.Medium {
	t.Helper()
	m, err := scene.NewMedium(index, boundary)
	require.NoError(t, err)
	return m
}

func newScene(t *testing.T, cavity []geometry.Point, media ...scene.Medium) scene.Scene {
	t.Helper()
	s, err := scene.New(cavity, media...)
	require.NoError(t, err)
	return s
}

// launchAt snaps p to the cavity and aims at angle degrees.
func launchAt(t *testing.T, s scene.Scene, p geometry.Point, angle float64) scene.LaunchSpec {
	t.Helper()
	l, ok := s.Snap(p, scene.DefaultSnapTolerance)
	require.True(t, ok)
	return l.WithAngle(angle)
}

func assertPoint(t *testing.T, want, got geometry.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6)
	assert.InDelta(t, want.Y, got.Y, 1e-6)
}

func TestMarchSquareStraightDown(t *testing.T) {
	s := newScene(t, box(0, 0, 100, 100))
	launch := launchAt(t, s, geometry.Point{X: 50, Y: 0}, 90)

	result := New(logger.Discard()).March(s, launch, 1, ModeReflection)

	require.Len(t, result.Segments, 1)
	seg := result.Segments[0]
	assertPoint(t, geometry.Point{X: 50, Y: 0}, seg.Start)
	assertPoint(t, geometry.Point{X: 50, Y: 100}, seg.End)
	assert.InDelta(t, 100.0, seg.Length, 1e-6)
	assert.Equal(t, ReflectedOffCavity, seg.Interaction)

	angle, ok := seg.IncidenceAngle()
	require.True(t, ok)
	assert.InDelta(t, 90.0, angle, 1e-6)
	_, ok = seg.RefractionAngle()
	assert.False(t, ok)

	assert.Equal(t, 1, result.BounceCount)
	assert.False(t, result.Truncated)
	assert.False(t, result.Escaped())
	assert.InDelta(t, 100.0, result.TotalLength, 1e-6)

	// The normal of the far wall points back up into the cavity.
	assert.InDelta(t, -1.0, seg.Hit.Normal.Y, 1e-9)
	assert.InDelta(t, -1.0, seg.OutDirection.Y, 1e-9)
}

func TestMarchReflectionAngleLaw(t *testing.T) {
	cavity := []geometry.Point{{X: 0, Y: 0}, {X: 300, Y: 20}, {X: 280, Y: 250}, {X: 120, Y: 310}, {X: 10, Y: 200}}
	s := newScene(t, cavity)

	for _, angle := range []float64{17, 45, 73, 90, 131} {
		launch := launchAt(t, s, geometry.Point{X: 150, Y: 10}, angle)
		result := New(logger.Discard()).March(s, launch, 25, ModeReflection)
		require.NotEmpty(t, result.Segments)

		for _, seg := range result.Segments {
			require.NotNil(t, seg.Hit)
			incoming := seg.Hit.IncidenceAngleDeg
			outgoing := angleToEdge(seg.OutDirection.Negate(), seg.Hit.EdgeDirection)
			assert.InDelta(t, incoming, outgoing, 1e-6)
		}
	}
}

func TestMarchBounceAccountingInReflectionMode(t *testing.T) {
	glass := medium(t, 1.5, box(40, 40, 160, 160))
	s := newScene(t, box(0, 0, 200, 200), glass)
	launch := launchAt(t, s, geometry.Point{X: 70, Y: 0}, 37)

	result := New(logger.Discard()).March(s, launch, 40, ModeReflection)

	nonEscaped := 0
	for _, seg := range result.Segments {
		if seg.Interaction != Escaped {
			nonEscaped++
		}
		// Media are ignored entirely in reflection mode.
		assert.Equal(t, ReflectedOffCavity, seg.Interaction)
		assert.True(t, seg.Hit.IsCavity())
	}
	assert.Equal(t, nonEscaped, result.BounceCount)
	assert.Equal(t, 40, result.BounceCount)
}

func TestMarchEscapesThroughGap(t *testing.T) {
	// Clockwise on screen, so the launch angle points out of the cavity
	// and nothing lies in front of the ray.
	s := scene.Scene{Cavity: geometry.Polygon(box(0, 0, 100, 100))}
	launch := scene.LaunchSpec{Origin: geometry.Point{X: 50, Y: 0}, WallIndex: 0, AngleDeg: 90}

	result := New(logger.Discard()).March(s, launch, 5, ModeReflection)

	require.Len(t, result.Segments, 1)
	seg := result.Segments[0]
	assert.Equal(t, Escaped, seg.Interaction)
	assert.Equal(t, EscapeLength, seg.Length)
	assert.Nil(t, seg.Hit)
	assertPoint(t, geometry.Point{X: 50, Y: -2000}, seg.End)
	assert.Equal(t, 0, result.BounceCount)
	assert.True(t, result.Escaped())
	assert.False(t, result.Truncated)
	assert.Equal(t, EscapeLength, result.TotalLength)
}

func TestMarchRefractsThroughSlab(t *testing.T) {
	glass := medium(t, 1.5, box(50, 50, 150, 150))
	s := newScene(t, box(0, 0, 200, 200), glass)
	launch := launchAt(t, s, geometry.Point{X: 100, Y: 0}, 90)

	result := New(logger.Discard()).March(s, launch, 1, ModeRefraction)

	require.Len(t, result.Segments, 3)
	enter, exit, wall := result.Segments[0], result.Segments[1], result.Segments[2]

	assert.Equal(t, Refracted, enter.Interaction)
	assert.Equal(t, 1.0, enter.IncidentMediumIndex)
	assert.Equal(t, 1.5, enter.ExitMediumIndex)
	assert.Equal(t, 0, enter.Hit.MediumIndex)
	assert.InDelta(t, 50.0, enter.Length, 1e-6)

	assert.Equal(t, Refracted, exit.Interaction)
	assert.Equal(t, 1.5, exit.IncidentMediumIndex)
	assert.Equal(t, 1.0, exit.ExitMediumIndex)
	assert.InDelta(t, 100.0, exit.Length, 1e-6)

	assert.Equal(t, ReflectedOffCavity, wall.Interaction)
	assert.Equal(t, 1.0, wall.IncidentMediumIndex)
	assertPoint(t, geometry.Point{X: 100, Y: 200}, wall.End)

	// Refraction does not spend the bounce budget.
	assert.Equal(t, 1, result.BounceCount)
	assert.Equal(t, 3, result.Steps)
	assert.InDelta(t, 200.0, result.TotalLength, 1e-6)
}

func TestMarchSnellAtOblique(t *testing.T) {
	glass := medium(t, 1.5, box(50, 50, 150, 150))
	s := newScene(t, box(0, 0, 200, 200), glass)
	launch := launchAt(t, s, geometry.Point{X: 100, Y: 0}, 60)

	result := New(logger.Discard()).March(s, launch, 1, ModeRefraction)
	require.NotEmpty(t, result.Segments)

	enter := result.Segments[0]
	require.Equal(t, Refracted, enter.Interaction)
	incidence, ok := enter.IncidenceAngle()
	require.True(t, ok)
	refraction, ok := enter.RefractionAngle()
	require.True(t, ok)

	assert.InDelta(t, 60.0, incidence, 1e-6)
	// Angles are measured from the wall, so Snell's law reads n1 cos a1 = n2 cos a2.
	assert.InDelta(t,
		1.0*math.Cos(mgl64.DegToRad(incidence)),
		1.5*math.Cos(mgl64.DegToRad(refraction)),
		1e-9)
	assert.Greater(t, refraction, incidence)
}

func TestMarchTotalInternalReflection(t *testing.T) {
	// The glass covers the top of the cavity, launch point included.
	glass := medium(t, 1.5, box(-10, -10, 210, 100))
	s := newScene(t, box(0, 0, 200, 200), glass)
	launch := launchAt(t, s, geometry.Point{X: 100, Y: 0}, 30)

	result := New(logger.Discard()).March(s, launch, 10, ModeRefraction)

	tir := 0
	for _, seg := range result.Segments {
		assert.NotEqual(t, Refracted, seg.Interaction)
		assert.Equal(t, 1.5, seg.IncidentMediumIndex)
		assert.Equal(t, 1.5, seg.ExitMediumIndex)
		if seg.Interaction == ReflectedTIR {
			tir++
			assert.InDelta(t, 30.0, seg.Hit.IncidenceAngleDeg, 1e-6)
		}
	}
	assert.Positive(t, tir)
	// Every TIR fallback counts as a bounce.
	assert.Equal(t, 10, result.BounceCount)
	assert.Len(t, result.Segments, 10)
}

func TestMarchStepCeilingTruncates(t *testing.T) {
	upper := medium(t, 1.5, box(50, 40, 150, 80))
	lower := medium(t, 1.33, box(50, 100, 150, 140))
	s := newScene(t, box(0, 0, 200, 200), upper, lower)
	launch := launchAt(t, s, geometry.Point{X: 100, Y: 0}, 90)

	result := New(logger.Discard()).March(s, launch, 1, ModeRefraction)

	assert.Equal(t, 3, result.Steps)
	assert.Equal(t, 0, result.BounceCount)
	assert.True(t, result.Truncated)
	require.Len(t, result.Segments, 3)
	for _, seg := range result.Segments {
		assert.Equal(t, Refracted, seg.Interaction)
	}
	assert.Equal(t, 1.33, result.Segments[2].ExitMediumIndex)
}

func TestMarchEqualIndexPassesStraightThrough(t *testing.T) {
	air := medium(t, 1.0, box(50, 50, 150, 150))
	s := newScene(t, box(0, 0, 200, 200), air)
	launch := launchAt(t, s, geometry.Point{X: 100, Y: 0}, 70)

	result := New(logger.Discard()).March(s, launch, 1, ModeRefraction)

	require.Len(t, result.Segments, 3)
	for _, seg := range result.Segments[:2] {
		assert.Equal(t, Refracted, seg.Interaction)
		assert.InDelta(t, seg.InDirection.X, seg.OutDirection.X, 1e-12)
		assert.InDelta(t, seg.InDirection.Y, seg.OutDirection.Y, 1e-12)
		in, _ := seg.IncidenceAngle()
		out, _ := seg.RefractionAngle()
		assert.InDelta(t, in, out, 1e-9)
	}
	assert.Equal(t, 1, result.BounceCount)
}

func TestMarchIgnoresOpenMedia(t *testing.T) {
	drawing := scene.Medium{RefractiveIndex: 1.5, Boundary: box(50, 50, 150, 150)}
	s := newScene(t, box(0, 0, 200, 200), drawing)
	launch := launchAt(t, s, geometry.Point{X: 100, Y: 0}, 90)

	result := New(logger.Discard()).March(s, launch, 1, ModeRefraction)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, ReflectedOffCavity, result.Segments[0].Interaction)
}

func TestMarchIsDeterministic(t *testing.T) {
	glass := medium(t, 1.5, box(40, 60, 120, 150))
	water := medium(t, 1.33, box(100, 30, 170, 120))
	s := newScene(t, box(0, 0, 200, 200), glass, water)
	launch := launchAt(t, s, geometry.Point{X: 30, Y: 0}, 52)

	m := New(nil)
	first := m.March(s, launch, 50, ModeRefraction)
	second := m.March(s, launch, 50, ModeRefraction)

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, first.Steps, 150)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("Refraction")
	require.NoError(t, err)
	assert.Equal(t, ModeRefraction, mode)

	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeReflection, mode)

	_, err = ParseMode("diffraction")
	assert.Error(t, err)
	assert.Equal(t, "refraction", ModeRefraction.String())
}

func TestInteractionText(t *testing.T) {
	text, err := ReflectedTIR.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "reflected_tir", string(text))

	var parsed Interaction
	require.NoError(t, parsed.UnmarshalText([]byte("refracted")))
	assert.Equal(t, Refracted, parsed)
	assert.Error(t, parsed.UnmarshalText([]byte("absorbed")))
	assert.True(t, ReflectedTIR.IsBounce())
	assert.False(t, Refracted.IsBounce())
	assert.False(t, Escaped.IsBounce())
}

func TestAngleToEdgeFoldsIntoQuarterTurn(t *testing.T) {
	wall := geometry.Vector{X: 1, Y: 0}

	assert.InDelta(t, 45.0, angleToEdge(geometry.Vector{X: 1, Y: 1}, wall), 1e-9)
	assert.InDelta(t, 45.0, angleToEdge(geometry.Vector{X: -1, Y: 1}, wall), 1e-9)
	assert.InDelta(t, 90.0, angleToEdge(geometry.Vector{X: 0, Y: -3}, wall), 1e-9)
	assert.InDelta(t, 0.0, angleToEdge(geometry.Vector{X: -2, Y: 0}, wall), 1e-9)
}
