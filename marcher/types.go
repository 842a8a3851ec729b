package marcher

import (
	"fmt"
	"strings"

	"github.com/meghashyamc/lasercavity/geometry"
)

// Mode selects whether media bend the ray or are ignored.
type Mode int

const (
	ModeReflection Mode = iota
	ModeRefraction
)

func (m Mode) String() string {
	switch m {
	case ModeReflection:
		return "reflection"
	case ModeRefraction:
		return "refraction"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "reflection" or "refraction".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reflection":
		return ModeReflection, nil
	case "refraction":
		return ModeRefraction, nil
	}
	return ModeReflection, fmt.Errorf("unknown trace mode %q", s)
}

// Interaction is what happened at the end of a segment.
type Interaction int

const (
	// Escaped: nothing was hit; the segment is a fixed-length stub and Hit is nil.
	Escaped Interaction = iota
	// ReflectedOffCavity: mirrored off a cavity wall (or off a medium in reflection mode).
	ReflectedOffCavity
	// ReflectedTIR: refraction was impossible and the ray mirrored off a medium edge.
	ReflectedTIR
	// Refracted: the ray crossed into or out of a medium. Hit.RefractionAngleDeg is set.
	Refracted
)

var interactionNames = map[Interaction]string{
	Escaped:            "escaped",
	ReflectedOffCavity: "reflected_off_cavity",
	ReflectedTIR:       "reflected_tir",
	Refracted:          "refracted",
}

func (i Interaction) String() string {
	if name, ok := interactionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interaction(%d)", int(i))
}

func (i Interaction) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Interaction) UnmarshalText(text []byte) error {
	for interaction, name := range interactionNames {
		if name == string(text) {
			*i = interaction
			return nil
		}
	}
	return fmt.Errorf("unknown interaction %q", text)
}

// IsBounce reports whether the interaction uses up bounce budget.
func (i Interaction) IsBounce() bool {
	return i == ReflectedOffCavity || i == ReflectedTIR
}

// Hit describes the boundary at the end of a segment.
type Hit struct {
	// MediumIndex is the position of the hit medium in Scene.Media, or -1 for a cavity wall.
	MediumIndex int `json:"medium_index" yaml:"medium_index"`
	EdgeIndex   int `json:"edge_index" yaml:"edge_index"`
	// Normal points back toward the side the ray came from.
	Normal            geometry.Vector `json:"normal" yaml:"normal"`
	EdgeDirection     geometry.Vector `json:"edge_direction" yaml:"edge_direction"`
	IncidenceAngleDeg float64         `json:"incidence_angle_deg" yaml:"incidence_angle_deg"`
	// RefractionAngleDeg is only set for Refracted segments.
	RefractionAngleDeg *float64 `json:"refraction_angle_deg,omitempty" yaml:"refraction_angle_deg,omitempty"`
}

// IsCavity reports whether the hit boundary is a cavity wall.
func (h Hit) IsCavity() bool {
	return h.MediumIndex < 0
}

// PathSegment is one straight run of the ray, from its start to the boundary
// it meets. Segments are never modified after they are emitted.
type PathSegment struct {
	Start  geometry.Point `json:"start" yaml:"start"`
	End    geometry.Point `json:"end" yaml:"end"`
	Length float64        `json:"length" yaml:"length"`
	// IncidentMediumIndex is the refractive index travelled through; ExitMediumIndex
	// is the index on the far side of the interaction.
	IncidentMediumIndex float64         `json:"incident_medium_index" yaml:"incident_medium_index"`
	ExitMediumIndex     float64         `json:"exit_medium_index" yaml:"exit_medium_index"`
	Interaction         Interaction     `json:"interaction" yaml:"interaction"`
	InDirection         geometry.Vector `json:"in_direction" yaml:"in_direction"`
	OutDirection        geometry.Vector `json:"out_direction" yaml:"out_direction"`
	Hit                 *Hit            `json:"hit,omitempty" yaml:"hit,omitempty"`
}

// IncidenceAngle returns the angle between the incoming ray and the wall, in degrees.
func (s PathSegment) IncidenceAngle() (float64, bool) {
	if s.Hit == nil {
		return 0, false
	}
	return s.Hit.IncidenceAngleDeg, true
}

// RefractionAngle returns the angle between the refracted ray and the wall, in degrees.
func (s PathSegment) RefractionAngle() (float64, bool) {
	if s.Hit == nil || s.Hit.RefractionAngleDeg == nil {
		return 0, false
	}
	return *s.Hit.RefractionAngleDeg, true
}

// Result is the full path for one launch.
type Result struct {
	Segments    []PathSegment `json:"segments" yaml:"segments"`
	BounceCount int           `json:"bounce_count" yaml:"bounce_count"`
	TotalLength float64       `json:"total_length" yaml:"total_length"`
	// Steps counts every segment, bounces and refractions alike.
	Steps int `json:"steps" yaml:"steps"`
	// Truncated is set when the step ceiling ended the path before the bounce
	// budget was used up.
	Truncated bool `json:"truncated" yaml:"truncated"`
}

// Escaped reports whether the path ended by leaving the scene.
func (r Result) Escaped() bool {
	return len(r.Segments) > 0 && r.Segments[len(r.Segments)-1].Interaction == Escaped
}
