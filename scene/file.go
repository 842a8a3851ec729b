package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/meghashyamc/lasercavity/geometry"
	"gopkg.in/yaml.v3"
)

var ErrLaunchOffWall = errors.New("launch point is not near any cavity wall")

// File is the on-disk form of a scene.
type File struct {
	Cavity []geometry.Point `yaml:"cavity"`
	Media  []MediumFile     `yaml:"media,omitempty"`
	Launch *LaunchFile      `yaml:"launch,omitempty"`
}

// MediumFile takes either a plain index or one scaled by 100 (index_scaled: 150 -> 1.50).
type MediumFile struct {
	Index       float64          `yaml:"index,omitempty"`
	IndexScaled int              `yaml:"index_scaled,omitempty"`
	Vertices    []geometry.Point `yaml:"vertices"`
}

// LaunchFile is a point that gets snapped to a wall. Wall pins the wall when
// the point is a vertex shared by two of them; without it the nearest wall wins.
type LaunchFile struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Wall  *int    `yaml:"wall,omitempty"`
	Angle float64 `yaml:"angle,omitempty"`
}

func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read scene file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	return f, nil
}

func SaveFile(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode scene file: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func (m MediumFile) refractiveIndex() float64 {
	if m.Index == 0 && m.IndexScaled != 0 {
		return IndexFromSlider(m.IndexScaled)
	}
	return m.Index
}

// Build turns the file into a scene and a launch. Without a launch entry the
// laser sits at the midpoint of the first wall.
func (f File) Build(snapTolerance float64) (Scene, LaunchSpec, error) {
	media := make([]Medium, 0, len(f.Media))
	for i, mf := range f.Media {
		m, err := NewMedium(mf.refractiveIndex(), mf.Vertices)
		if err != nil {
			return Scene{}, LaunchSpec{}, fmt.Errorf("medium %d: %w", i, err)
		}
		media = append(media, m)
	}

	s, err := New(f.Cavity, media...)
	if err != nil {
		return Scene{}, LaunchSpec{}, err
	}

	if f.Launch == nil {
		return s, s.DefaultLaunch(), nil
	}

	p := geometry.Point{X: f.Launch.X, Y: f.Launch.Y}
	var launch LaunchSpec
	ok := false
	if f.Launch.Wall != nil {
		launch, ok = s.SnapToWall(p, *f.Launch.Wall, snapTolerance)
	}
	if !ok {
		launch, ok = s.Snap(p, snapTolerance)
	}
	if !ok {
		return Scene{}, LaunchSpec{}, fmt.Errorf("launch at (%v, %v): %w", f.Launch.X, f.Launch.Y, ErrLaunchOffWall)
	}
	if f.Launch.Angle != 0 {
		launch = launch.WithAngle(ClampAngle(f.Launch.Angle))
	}

	return s, launch, nil
}

// ToFile is the inverse of Build for closed media.
func ToFile(s Scene, launch LaunchSpec) File {
	wall := launch.WallIndex
	f := File{
		Cavity: s.Cavity,
		Launch: &LaunchFile{X: launch.Origin.X, Y: launch.Origin.Y, Wall: &wall, Angle: launch.AngleDeg},
	}
	for _, m := range s.Media {
		if !m.Closed {
			continue
		}
		f.Media = append(f.Media, MediumFile{Index: m.RefractiveIndex, Vertices: m.Boundary})
	}
	return f
}
