// Package app wires configuration, the scene file and the marcher into the
// command line tool.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meghashyamc/lasercavity/config"
	"github.com/meghashyamc/lasercavity/geometry"
	"github.com/meghashyamc/lasercavity/logger"
	"github.com/meghashyamc/lasercavity/marcher"
	"github.com/meghashyamc/lasercavity/reveal"
	"github.com/meghashyamc/lasercavity/scene"
	"gopkg.in/yaml.v3"
)

var ErrNoSceneFile = errors.New("no scene file configured")

type App struct {
	cfg     *config.Config
	marcher *marcher.Marcher
	logger  logger.Logger
	out     io.Writer
}

// Report is everything a renderer needs for one launch.
type Report struct {
	Launch      scene.LaunchSpec    `json:"launch" yaml:"launch"`
	Mode        string              `json:"mode" yaml:"mode"`
	MaxBounces  int                 `json:"max_bounces" yaml:"max_bounces"`
	Path        marcher.Result      `json:"path" yaml:"path"`
	Progress    float64             `json:"progress" yaml:"progress"`
	Polyline    []geometry.Point    `json:"polyline" yaml:"polyline"`
	Annotations []reveal.Annotation `json:"annotations" yaml:"annotations"`
}

// Frame is one step of a progressive reveal.
type Frame struct {
	Frame       int              `json:"frame" yaml:"frame"`
	Progress    float64          `json:"progress" yaml:"progress"`
	Polyline    []geometry.Point `json:"polyline" yaml:"polyline"`
	Annotations int              `json:"annotations" yaml:"annotations"`
}

func New(cfg *config.Config, log logger.Logger, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = logger.Discard()
	}

	return &App{
		cfg:     cfg,
		marcher: marcher.New(log),
		logger:  log,
		out:     out,
	}
}

func (a *App) Run() error {
	sceneFile := a.cfg.GetSceneFile()
	if len(sceneFile) == 0 {
		return ErrNoSceneFile
	}

	f, err := scene.LoadFile(sceneFile)
	if err != nil {
		return err
	}
	sc, launch, err := f.Build(a.cfg.GetSnapTolerance())
	if err != nil {
		return fmt.Errorf("invalid scene %s: %w", sceneFile, err)
	}
	if f.Launch == nil || f.Launch.Angle == 0 {
		launch = launch.WithAngle(scene.ClampAngle(a.cfg.GetLaunchAngle()))
	}

	mode, err := marcher.ParseMode(a.cfg.GetTraceMode())
	if err != nil {
		return err
	}
	maxBounces := scene.ClampBounces(a.cfg.GetMaxBounces())

	a.logger.Info("tracing scene",
		"scene", sceneFile,
		"media", len(sc.Media),
		"wall", launch.WallIndex,
		"angle", launch.AngleDeg,
		"max_bounces", maxBounces,
		"mode", mode.String(),
	)

	result := a.marcher.March(sc, launch, maxBounces, mode)
	a.logger.Info("path traced",
		"segments", len(result.Segments),
		"bounces", result.BounceCount,
		"total_length", result.TotalLength,
		"escaped", result.Escaped(),
		"truncated", result.Truncated,
	)

	annotations := append([]reveal.Annotation{reveal.Source(sc, launch)}, reveal.Annotations(result)...)

	if a.cfg.GetRevealAnimate() {
		return a.writeFrames(result, annotations)
	}

	progress := a.cfg.GetRevealProgress()
	return a.write(Report{
		Launch:      launch,
		Mode:        mode.String(),
		MaxBounces:  maxBounces,
		Path:        result,
		Progress:    progress,
		Polyline:    reveal.Polyline(result, progress),
		Annotations: reveal.Visible(annotations, result.TotalLength, progress),
	})
}

func (a *App) writeFrames(result marcher.Result, annotations []reveal.Annotation) error {
	progress := reveal.NewProgress(a.cfg.GetRevealSpeed())
	for frame := 0; !progress.IsDone(); frame++ {
		progress.Update()
		fraction := progress.Fraction()
		if err := a.write(Frame{
			Frame:       frame,
			Progress:    fraction,
			Polyline:    reveal.Polyline(result, fraction),
			Annotations: len(reveal.Visible(annotations, result.TotalLength, fraction)),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) write(v any) error {
	switch strings.ToLower(a.cfg.GetOutputFormat()) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(a.out)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		return enc.Close()
	case "json":
		if err := json.NewEncoder(a.out).Encode(v); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", a.cfg.GetOutputFormat())
}
