// Package editor is the interactive side of the simulator: it collects the
// vertices the user clicks, keeps the launch settings, and hands immutable
// scene snapshots to the marcher whenever the path has to be recomputed.
package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/meghashyamc/lasercavity/geometry"
	"github.com/meghashyamc/lasercavity/logger"
	"github.com/meghashyamc/lasercavity/marcher"
	"github.com/meghashyamc/lasercavity/scene"
)

type State int

const (
	StateDrawingCavity State = iota
	StateAiming
	StateDrawingMedium
)

func (s State) String() string {
	switch s {
	case StateDrawingCavity:
		return "drawing_cavity"
	case StateAiming:
		return "aiming"
	case StateDrawingMedium:
		return "drawing_medium"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrCavityOpen     = errors.New("cavity is not closed yet")
	ErrMediumNotFound = errors.New("medium not found")
	ErrNoLaunch       = errors.New("no launch point placed")
	ErrBusy           = errors.New("finish the medium being drawn first")
)

type Options struct {
	CloseTolerance float64
	SnapTolerance  float64
	MaxBounces     int
	AngleDeg       float64
	Mode           marcher.Mode
}

func DefaultOptions() Options {
	return Options{
		CloseTolerance: 20,
		SnapTolerance:  scene.DefaultSnapTolerance,
		MaxBounces:     10,
		AngleDeg:       scene.DefaultAngle,
		Mode:           marcher.ModeReflection,
	}
}

type Editor struct {
	opts       Options
	state      State
	cavity     []geometry.Point
	media      []scene.Medium
	drawing    *scene.Medium
	launch     *scene.LaunchSpec
	angle      float64
	maxBounces int
	mode       marcher.Mode
	marcher    *marcher.Marcher
	logger     logger.Logger
}

func New(opts Options, log logger.Logger) *Editor {
	if log == nil {
		log = logger.Discard()
	}

	e := &Editor{
		opts:       opts,
		state:      StateDrawingCavity,
		angle:      scene.ClampAngle(opts.AngleDeg),
		maxBounces: scene.ClampBounces(opts.MaxBounces),
		mode:       opts.Mode,
		marcher:    marcher.New(log),
		logger:     log,
	}

	e.logger.Info("editor initialized", "close_tolerance", opts.CloseTolerance, "snap_tolerance", opts.SnapTolerance)
	return e
}

func (e *Editor) State() State {
	return e.state
}

// Click handles a pointer press at p according to the current state.
func (e *Editor) Click(p geometry.Point) {
	switch e.state {
	case StateDrawingCavity:
		e.clickCavity(p)
	case StateAiming:
		e.clickAim(p)
	case StateDrawingMedium:
		e.clickMedium(p)
	}
}

func (e *Editor) clickCavity(p geometry.Point) {
	if len(e.cavity) > 2 && geometry.Distance(p, e.cavity[0]) < e.opts.CloseTolerance {
		e.closeCavity()
		return
	}

	e.cavity = append(e.cavity, p)
	e.logger.Debug("cavity vertex added", "vertex", p, "count", len(e.cavity))
}

func (e *Editor) closeCavity() {
	e.cavity = geometry.NormalizeWinding(e.cavity)
	e.state = StateAiming

	launch := scene.Scene{Cavity: e.cavity}.DefaultLaunch().WithAngle(e.angle)
	e.launch = &launch
	e.logger.Debug("cavity closed", "vertices", len(e.cavity), "launch", e.launch.Origin)
}

func (e *Editor) clickAim(p geometry.Point) {
	snapshot := scene.Scene{Cavity: e.cavity}
	launch, ok := snapshot.Snap(p, e.opts.SnapTolerance)
	if !ok {
		e.logger.Debug("click too far from any wall", "point", p)
		return
	}

	launch = launch.WithAngle(e.angle)
	e.launch = &launch
	e.logger.Debug("launch moved", "origin", launch.Origin, "wall", launch.WallIndex)
}

func (e *Editor) clickMedium(p geometry.Point) {
	boundary := e.drawing.Boundary
	if len(boundary) > 2 && geometry.Distance(p, boundary[0]) < e.opts.CloseTolerance {
		e.drawing.Boundary = geometry.NormalizeWinding(boundary)
		e.drawing.Closed = true
		e.media = append(e.media, *e.drawing)
		e.logger.Debug("medium closed", "id", e.drawing.ID, "index", e.drawing.RefractiveIndex, "vertices", len(boundary))
		e.drawing = nil
		e.state = StateAiming
		return
	}

	e.drawing.Boundary = append(e.drawing.Boundary, p)
	e.logger.Debug("medium vertex added", "id", e.drawing.ID, "vertex", p)
}

// BeginMedium starts drawing a new medium; subsequent clicks add its vertices.
func (e *Editor) BeginMedium(index float64) (uuid.UUID, error) {
	switch e.state {
	case StateDrawingCavity:
		return uuid.Nil, ErrCavityOpen
	case StateDrawingMedium:
		return uuid.Nil, ErrBusy
	}
	if index <= 0 {
		return uuid.Nil, fmt.Errorf("medium index %v: %w", index, scene.ErrInvalidIndex)
	}

	e.drawing = &scene.Medium{ID: uuid.New(), RefractiveIndex: index}
	e.state = StateDrawingMedium
	e.logger.Debug("drawing medium", "id", e.drawing.ID, "index", index)
	return e.drawing.ID, nil
}

// CancelMedium drops the medium being drawn.
func (e *Editor) CancelMedium() {
	if e.state != StateDrawingMedium {
		return
	}
	e.drawing = nil
	e.state = StateAiming
}

func (e *Editor) SetMediumIndex(id uuid.UUID, index float64) error {
	if index <= 0 {
		return fmt.Errorf("medium index %v: %w", index, scene.ErrInvalidIndex)
	}
	if e.drawing != nil && e.drawing.ID == id {
		e.drawing.RefractiveIndex = index
		return nil
	}
	i := e.mediumPosition(id)
	if i < 0 {
		return fmt.Errorf("medium %s: %w", id, ErrMediumNotFound)
	}
	e.media[i].RefractiveIndex = index
	return nil
}

func (e *Editor) RemoveMedium(id uuid.UUID) error {
	i := e.mediumPosition(id)
	if i < 0 {
		return fmt.Errorf("medium %s: %w", id, ErrMediumNotFound)
	}
	e.media = slices.Delete(e.media, i, i+1)
	e.logger.Debug("medium removed", "id", id)
	return nil
}

func (e *Editor) mediumPosition(id uuid.UUID) int {
	return slices.IndexFunc(e.media, func(m scene.Medium) bool { return m.ID == id })
}

// SetAngle clamps to [1,179] degrees and returns the value kept.
func (e *Editor) SetAngle(degrees float64) float64 {
	e.angle = scene.ClampAngle(degrees)
	if e.launch != nil {
		e.launch.AngleDeg = e.angle
	}
	return e.angle
}

// SetBounces clamps to [1,1000] and returns the value kept.
func (e *Editor) SetBounces(bounces int) int {
	e.maxBounces = scene.ClampBounces(bounces)
	return e.maxBounces
}

func (e *Editor) SetMode(mode marcher.Mode) {
	e.mode = mode
}

func (e *Editor) Launch() (scene.LaunchSpec, bool) {
	if e.launch == nil {
		return scene.LaunchSpec{}, false
	}
	return *e.launch, true
}

// Reset clears the drawing but keeps angle, budget and mode.
func (e *Editor) Reset() {
	e.logger.Debug("resetting editor")
	e.cavity = nil
	e.media = nil
	e.drawing = nil
	e.launch = nil
	e.state = StateDrawingCavity
}

// Snapshot returns an immutable copy of the scene. A medium still being drawn
// is included with Closed unset so it can be shown but does not bend light.
func (e *Editor) Snapshot() (scene.Scene, error) {
	if e.state == StateDrawingCavity {
		return scene.Scene{}, ErrCavityOpen
	}

	media := make([]scene.Medium, 0, len(e.media)+1)
	for _, m := range e.media {
		m.Boundary = slices.Clone(m.Boundary)
		media = append(media, m)
	}
	if e.drawing != nil {
		m := *e.drawing
		m.Boundary = slices.Clone(m.Boundary)
		media = append(media, m)
	}

	return scene.New(e.cavity, media...)
}

// Trace recomputes the whole path for the current scene and settings.
func (e *Editor) Trace() (marcher.Result, error) {
	snapshot, err := e.Snapshot()
	if err != nil {
		return marcher.Result{}, err
	}
	launch, ok := e.Launch()
	if !ok {
		return marcher.Result{}, ErrNoLaunch
	}
	if err := snapshot.ValidateLaunch(launch); err != nil {
		return marcher.Result{}, err
	}

	result := e.marcher.March(snapshot, launch, e.maxBounces, e.mode)
	e.logger.Debug("path traced", "segments", len(result.Segments), "bounces", result.BounceCount, "length", result.TotalLength)
	return result, nil
}
