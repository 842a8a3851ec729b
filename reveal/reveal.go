// Package reveal derives what a renderer shows for a partly drawn path: the
// polyline up to a fraction of the total length and the angle annotations
// the ray has already reached.
package reveal

import (
	"math"

	"github.com/meghashyamc/lasercavity/geometry"
	"github.com/meghashyamc/lasercavity/marcher"
	"github.com/meghashyamc/lasercavity/scene"
)

// Polyline returns the path vertices up to TotalLength*fraction: whole
// segments first, then the part of the next one that fits.
func Polyline(result marcher.Result, fraction float64) []geometry.Point {
	if len(result.Segments) == 0 {
		return nil
	}

	lengthToDraw := result.TotalLength * clampFraction(fraction)
	points := []geometry.Point{result.Segments[0].Start}
	drawn := 0.0

	for _, seg := range result.Segments {
		if drawn+seg.Length <= lengthToDraw {
			points = append(points, seg.End)
			drawn += seg.Length
			continue
		}

		if remaining := lengthToDraw - drawn; remaining > 0 && seg.Length > 0 {
			points = append(points, seg.Start.Lerp(seg.End, remaining/seg.Length))
		}
		break
	}

	return points
}

// Annotation is one angle label. AtLength is the path length at which the
// ray reaches Position.
type Annotation struct {
	AtLength      float64             `json:"at_length" yaml:"at_length"`
	Position      geometry.Point      `json:"position" yaml:"position"`
	EdgeDirection geometry.Vector     `json:"edge_direction" yaml:"edge_direction"`
	Ray           geometry.Vector     `json:"ray" yaml:"ray"`
	AngleDeg      float64             `json:"angle_deg" yaml:"angle_deg"`
	Outgoing      bool                `json:"outgoing" yaml:"outgoing"`
	Interaction   marcher.Interaction `json:"interaction" yaml:"interaction"`
}

// Source is the label at the launch point, visible from the start.
func Source(sc scene.Scene, launch scene.LaunchSpec) Annotation {
	edge := sc.Cavity.EdgeDirection(launch.WallIndex)
	return Annotation{
		Position:      launch.Origin,
		EdgeDirection: edge,
		Ray:           edge.Rotate(180 + launch.AngleDeg).Normalize(),
		AngleDeg:      launch.AngleDeg,
		Outgoing:      true,
	}
}

// Annotations lists an incoming label for every interaction and an outgoing
// label where the path continues past it.
func Annotations(result marcher.Result) []Annotation {
	var out []Annotation
	cumulative := 0.0

	for i, seg := range result.Segments {
		cumulative += seg.Length
		if seg.Hit == nil {
			continue
		}

		out = append(out, Annotation{
			AtLength:      cumulative,
			Position:      seg.End,
			EdgeDirection: seg.Hit.EdgeDirection,
			Ray:           seg.InDirection,
			AngleDeg:      seg.Hit.IncidenceAngleDeg,
			Interaction:   seg.Interaction,
		})

		if i == len(result.Segments)-1 {
			continue
		}

		outAngle := seg.Hit.IncidenceAngleDeg
		if angle, ok := seg.RefractionAngle(); ok {
			outAngle = angle
		}
		out = append(out, Annotation{
			AtLength:      cumulative,
			Position:      seg.End,
			EdgeDirection: seg.Hit.EdgeDirection,
			Ray:           seg.OutDirection,
			AngleDeg:      outAngle,
			Outgoing:      true,
			Interaction:   seg.Interaction,
		})
	}

	return out
}

// Visible keeps the annotations the ray has reached at the given fraction.
func Visible(annotations []Annotation, totalLength, fraction float64) []Annotation {
	limit := totalLength * clampFraction(fraction)
	var out []Annotation
	for _, a := range annotations {
		if a.AtLength <= limit {
			out = append(out, a)
		}
	}
	return out
}

// Arc returns where the angle marker starts (the wall direction, in radians)
// and its signed sweep toward the ray. Incoming rays are drawn pointing back
// the way they came.
func (a Annotation) Arc() (start, sweep float64) {
	ray := a.Ray
	if !a.Outgoing {
		ray = ray.Negate()
	}
	wall := a.EdgeDirection
	if ray.DotProduct(wall) < 0 {
		wall = wall.Negate()
	}

	start = math.Atan2(wall.Y, wall.X)
	sweep = math.Atan2(ray.Y, ray.X) - start
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep < -math.Pi {
		sweep += 2 * math.Pi
	}
	return start, sweep
}

func clampFraction(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
