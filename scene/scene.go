// Package scene models the cavity and the media inside it. A Scene is an
// immutable snapshot: every change produces a new value.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/meghashyamc/lasercavity/geometry"
)

// VacuumIndex is the refractive index outside every medium.
const VacuumIndex = 1.0

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrInvalidIndex   = errors.New("refractive index must be positive")
	ErrWallIndex      = errors.New("wall index out of range")
)

// Medium is a region with its own refractive index. Media that are still
// being drawn are carried with Closed unset and ignored by the optics.
type Medium struct {
	ID              uuid.UUID        `json:"id" yaml:"id"`
	RefractiveIndex float64          `json:"refractive_index" yaml:"refractive_index"`
	Boundary        geometry.Polygon `json:"boundary" yaml:"boundary"`
	Closed          bool             `json:"closed" yaml:"closed"`
}

// NewMedium builds a closed medium with a fresh ID and canonical winding.
func NewMedium(index float64, boundary []geometry.Point) (Medium, error) {
	if index <= 0 {
		return Medium{}, fmt.Errorf("medium index %v: %w", index, ErrInvalidIndex)
	}
	if len(boundary) < 3 {
		return Medium{}, fmt.Errorf("medium boundary: %w", ErrTooFewVertices)
	}

	return Medium{
		ID:              uuid.New(),
		RefractiveIndex: index,
		Boundary:        geometry.NormalizeWinding(boundary),
		Closed:          true,
	}, nil
}

// Contains reports whether p lies inside a closed medium.
func (m Medium) Contains(p geometry.Point) bool {
	return m.Closed && geometry.PointInPolygon(p, m.Boundary)
}

// Scene is the reflective cavity plus the media drawn inside it, in drawing order.
type Scene struct {
	Cavity geometry.Polygon `json:"cavity" yaml:"cavity"`
	Media  []Medium         `json:"media" yaml:"media"`
}

// New validates the cavity and every closed medium and puts them in canonical
// winding. Media are kept in the given order; later media take priority where
// they overlap.
func New(cavity []geometry.Point, media ...Medium) (Scene, error) {
	if len(cavity) < 3 {
		return Scene{}, fmt.Errorf("cavity: %w", ErrTooFewVertices)
	}

	media = slices.Clone(media)
	for i, m := range media {
		if m.RefractiveIndex <= 0 {
			return Scene{}, fmt.Errorf("medium %d: %w", i, ErrInvalidIndex)
		}
		if m.Closed && len(m.Boundary) < 3 {
			return Scene{}, fmt.Errorf("medium %d: %w", i, ErrTooFewVertices)
		}
		if m.Closed {
			media[i].Boundary = geometry.NormalizeWinding(m.Boundary)
		}
	}

	return Scene{
		Cavity: geometry.NormalizeWinding(cavity),
		Media:  media,
	}, nil
}

// MediumAt returns the medium containing p, testing the most recently added first.
func (s Scene) MediumAt(p geometry.Point) (Medium, bool) {
	for i := len(s.Media) - 1; i >= 0; i-- {
		if s.Media[i].Contains(p) {
			return s.Media[i], true
		}
	}
	return Medium{}, false
}

// IndexAt returns the refractive index at p.
func (s Scene) IndexAt(p geometry.Point) float64 {
	if m, ok := s.MediumAt(p); ok {
		return m.RefractiveIndex
	}
	return VacuumIndex
}
