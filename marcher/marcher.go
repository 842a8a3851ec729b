// Package marcher traces a laser through a scene: it repeatedly finds the
// nearest boundary in front of the ray, decides whether the ray mirrors or
// bends there, and records one PathSegment per step.
package marcher

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/meghashyamc/lasercavity/geometry"
	"github.com/meghashyamc/lasercavity/logger"
	"github.com/meghashyamc/lasercavity/optics"
	"github.com/meghashyamc/lasercavity/scene"
)

const (
	// EscapeLength is the length of the stub drawn when the ray hits nothing.
	EscapeLength = 2000.0
	// stepsPerBounce caps total steps at maxBounces*stepsPerBounce, since
	// refractions do not consume the bounce budget.
	stepsPerBounce = 3
	// normalProbeDistance is how far along a medium edge normal we look to
	// tell which side of the edge is inside.
	normalProbeDistance = 10.0
)

// Marcher holds no state between calls; the same inputs always produce the same Result.
type Marcher struct {
	logger logger.Logger
}

func New(log logger.Logger) *Marcher {
	if log == nil {
		log = logger.Discard()
	}
	return &Marcher{logger: log}
}

// boundaryHit is the nearest crossing found for one step.
type boundaryHit struct {
	point       geometry.Point
	t           float64
	tangent     geometry.Vector
	normal      geometry.Vector
	mediumIndex int
	edgeIndex   int
}

// March traces the ray described by launch until maxBounces reflections have
// happened, the step ceiling is reached, or the ray escapes. launch must name
// an existing cavity wall; angles and budgets are expected to be clamped by the caller.
func (m *Marcher) March(sc scene.Scene, launch scene.LaunchSpec, maxBounces int, mode Mode) Result {
	rayOrigin := launch.Origin
	rayDir := sc.Cavity.EdgeDirection(launch.WallIndex).Rotate(180 + launch.AngleDeg).Normalize()
	currentIndex := sc.IndexAt(rayOrigin)

	m.logger.Debug("marching ray",
		"origin", rayOrigin,
		"direction", rayDir,
		"wall", launch.WallIndex,
		"angle", launch.AngleDeg,
		"max_bounces", maxBounces,
		"mode", mode.String(),
		"start_index", currentIndex,
	)

	result := Result{Segments: make([]PathSegment, 0, maxBounces)}
	maxSteps := maxBounces * stepsPerBounce

	for result.Steps < maxSteps && result.BounceCount < maxBounces {
		firstStep := result.Steps == 0
		result.Steps++

		hit, ok := m.nearestHit(sc, rayOrigin, rayDir, launch.WallIndex, firstStep, mode)
		if !ok {
			segment := PathSegment{
				Start:               rayOrigin,
				End:                 rayOrigin.Add(rayDir.Scale(EscapeLength)),
				Length:              EscapeLength,
				IncidentMediumIndex: currentIndex,
				ExitMediumIndex:     currentIndex,
				Interaction:         Escaped,
				InDirection:         rayDir,
				OutDirection:        rayDir,
			}
			result.Segments = append(result.Segments, segment)
			result.TotalLength += segment.Length
			m.logger.Debug("ray escaped", "origin", rayOrigin, "direction", rayDir, "step", result.Steps)
			return result
		}

		segment, nextIndex := m.interact(sc, hit, rayOrigin, rayDir, currentIndex, mode)
		if segment.Interaction.IsBounce() {
			result.BounceCount++
		}
		result.Segments = append(result.Segments, segment)
		result.TotalLength += segment.Length

		m.logger.Debug("ray interaction",
			"step", result.Steps,
			"interaction", segment.Interaction.String(),
			"point", hit.point,
			"incidence_angle", segment.Hit.IncidenceAngleDeg,
			"n1", segment.IncidentMediumIndex,
			"n2", segment.ExitMediumIndex,
			"bounces", result.BounceCount,
		)

		rayOrigin = hit.point
		rayDir = segment.OutDirection
		currentIndex = nextIndex
	}

	if result.BounceCount < maxBounces {
		result.Truncated = true
		m.logger.Warn("step ceiling reached before bounce budget was used",
			"steps", result.Steps,
			"bounces", result.BounceCount,
			"max_bounces", maxBounces,
		)
	}

	return result
}

// interact decides the outgoing direction at hit and builds the segment that
// ends there. It returns the refractive index the ray travels through next.
func (m *Marcher) interact(sc scene.Scene, hit boundaryHit, origin geometry.Point, incoming geometry.Vector, currentIndex float64, mode Mode) (PathSegment, float64) {
	n1, n2 := currentIndex, currentIndex

	// reflect and refract both want the normal facing the incoming ray.
	normal := hit.normal
	if incoming.DotProduct(normal) > 0 {
		normal = normal.Negate()
	}

	info := &Hit{
		MediumIndex:       hit.mediumIndex,
		EdgeIndex:         hit.edgeIndex,
		Normal:            hit.normal,
		EdgeDirection:     hit.tangent,
		IncidenceAngleDeg: angleToEdge(incoming, hit.tangent),
	}

	interaction := ReflectedOffCavity
	var outgoing geometry.Vector
	nextIndex := currentIndex

	if hit.mediumIndex < 0 || mode == ModeReflection {
		outgoing = optics.Reflect(incoming, normal)
	} else {
		medium := sc.Media[hit.mediumIndex]
		if medium.RefractiveIndex == currentIndex {
			n2 = scene.VacuumIndex
		} else {
			n2 = medium.RefractiveIndex
		}

		if refracted, ok := optics.Refract(incoming, normal, n1, n2); ok {
			// Optically identical sides come back unchanged from Refract: the
			// ray passes straight through without spending a bounce.
			interaction = Refracted
			outgoing = refracted
			nextIndex = n2
			angle := angleToEdge(refracted, hit.tangent)
			info.RefractionAngleDeg = &angle
		} else {
			interaction = ReflectedTIR
			outgoing = optics.Reflect(incoming, normal)
			n2 = n1
		}
	}

	return PathSegment{
		Start:               origin,
		End:                 hit.point,
		Length:              hit.t,
		IncidentMediumIndex: n1,
		ExitMediumIndex:     n2,
		Interaction:         interaction,
		InDirection:         incoming,
		OutDirection:        outgoing.Normalize(),
		Hit:                 info,
	}, nextIndex
}

// nearestHit scans cavity walls, and in refraction mode the edges of every
// closed medium, for the closest crossing in front of the ray.
func (m *Marcher) nearestHit(sc scene.Scene, origin geometry.Point, dir geometry.Vector, launchWall int, firstStep bool, mode Mode) (boundaryHit, bool) {
	best := boundaryHit{t: math.Inf(1), mediumIndex: -1, edgeIndex: -1}
	found := false

	for i := range sc.Cavity {
		if firstStep && i == launchWall {
			continue
		}
		a, b := sc.Cavity.Edge(i)
		if hit, ok := geometry.IntersectRaySegment(origin, dir, a, b); ok && hit.T < best.t {
			best = boundaryHit{point: hit.Point, t: hit.T, mediumIndex: -1, edgeIndex: i}
			found = true
		}
	}

	if mode == ModeRefraction {
		for mi, medium := range sc.Media {
			if !medium.Closed {
				continue
			}
			for i := range medium.Boundary {
				a, b := medium.Boundary.Edge(i)
				if hit, ok := geometry.IntersectRaySegment(origin, dir, a, b); ok && hit.T < best.t {
					best = boundaryHit{point: hit.Point, t: hit.T, mediumIndex: mi, edgeIndex: i}
					found = true
				}
			}
		}
	}

	if !found {
		return boundaryHit{}, false
	}

	if best.mediumIndex < 0 {
		best.tangent = sc.Cavity.EdgeDirection(best.edgeIndex)
		best.normal = best.tangent.Perpendicular()
		// Point the normal back into the cavity, toward where the ray came from.
		if best.normal.DotProduct(origin.Sub(best.point)) < 0 {
			best.normal = best.normal.Negate()
		}
		return best, true
	}

	boundary := sc.Media[best.mediumIndex].Boundary
	best.tangent = boundary.EdgeDirection(best.edgeIndex)
	best.normal = best.tangent.Perpendicular()
	edgeStart, _ := boundary.Edge(best.edgeIndex)
	probe := edgeStart.Add(best.normal.Scale(normalProbeDistance))
	if geometry.PointInPolygon(probe, boundary) != geometry.PointInPolygon(origin, boundary) {
		best.normal = best.normal.Negate()
	}

	return best, true
}

// angleToEdge is the angle in degrees between a ray and a wall, folded into [0,90].
func angleToEdge(dir, tangent geometry.Vector) float64 {
	angle := mgl64.RadToDeg(dir.AngleTo(tangent))
	if angle > 90 {
		angle = 180 - angle
	}
	return angle
}
