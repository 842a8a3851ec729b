package editor

import (
	"fmt"

	"github.com/meghashyamc/lasercavity/scene"
)

// Save writes the closed media, the cavity and the launch to a scene file.
func (e *Editor) Save(path string) error {
	snapshot, err := e.Snapshot()
	if err != nil {
		return err
	}
	launch, ok := e.Launch()
	if !ok {
		return ErrNoLaunch
	}

	if err := scene.SaveFile(path, scene.ToFile(snapshot, launch)); err != nil {
		return err
	}
	e.logger.Info("scene saved", "path", path, "media", len(snapshot.Media))
	return nil
}

// Load replaces the current drawing with the scene in path. Settings other
// than the launch angle are kept.
func (e *Editor) Load(path string) error {
	f, err := scene.LoadFile(path)
	if err != nil {
		return err
	}

	s, launch, err := f.Build(e.opts.SnapTolerance)
	if err != nil {
		return fmt.Errorf("failed to build scene from %s: %w", path, err)
	}

	e.cavity = s.Cavity
	e.media = s.Media
	e.drawing = nil
	e.launch = &launch
	e.angle = launch.AngleDeg
	e.state = StateAiming
	e.logger.Info("scene loaded", "path", path, "media", len(s.Media))
	return nil
}
