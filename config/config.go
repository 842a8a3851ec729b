package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultMaxBounces     = 10
	defaultMode           = "reflection"
	defaultLaunchAngle    = 45.0
	defaultSnapTolerance  = 30.0
	defaultCloseTolerance = 20.0
	defaultProgress       = 1.0
	defaultRevealSpeed    = 30
	defaultLogLevel       = "info"
	defaultOutputFormat   = "json"
)

// Flag names, bound over the environment keys by BindFlags.
var flagKeys = map[string]string{
	"scene":     "SCENE_FILE",
	"bounces":   "MAX_BOUNCES",
	"mode":      "TRACE_MODE",
	"angle":     "LAUNCH_ANGLE",
	"snap":      "SNAP_TOLERANCE",
	"progress":  "REVEAL_PROGRESS",
	"speed":     "REVEAL_SPEED",
	"animate":   "REVEAL_ANIMATE",
	"log-level": "LOG_LEVEL",
	"format":    "OUTPUT_FORMAT",
}

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

// RegisterFlags declares the command line flags. Their defaults are zero
// values so that an unset flag falls through to the environment and the config file.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("scene", "", "path to a scene YAML file")
	flags.Int("bounces", 0, "bounce budget (1-1000)")
	flags.String("mode", "", "trace mode: reflection or refraction")
	flags.Float64("angle", 0, "launch angle in degrees (1-179)")
	flags.Float64("snap", 0, "max distance from a wall for the launch point")
	flags.Float64("progress", 0, "fraction of the path to reveal (0-1)")
	flags.Int("speed", 0, "reveal speed slider (0-100)")
	flags.Bool("animate", false, "emit one reveal frame per animation step")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("format", "", "output format: json or yaml")
}

// BindFlags lets flags that were set on the command line win over the environment and the file.
func (c *Config) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := c.config.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) GetSceneFile() string {
	sceneFile := c.config.GetString("SCENE_FILE")
	if len(sceneFile) == 0 {
		sceneFile = c.config.GetString("scene.file")
	}

	return sceneFile
}

func (c *Config) GetMaxBounces() int {
	maxBounces := c.config.GetInt("MAX_BOUNCES")
	if maxBounces == 0 {
		maxBounces = c.config.GetInt("trace.max_bounces")
	}
	if maxBounces == 0 {
		maxBounces = defaultMaxBounces
	}

	return maxBounces
}

func (c *Config) GetTraceMode() string {
	mode := c.config.GetString("TRACE_MODE")
	if len(mode) == 0 {
		mode = c.config.GetString("trace.mode")
	}
	if len(mode) == 0 {
		mode = defaultMode
	}

	return mode
}

func (c *Config) GetLaunchAngle() float64 {
	angle := c.config.GetFloat64("LAUNCH_ANGLE")
	if angle == 0 {
		angle = c.config.GetFloat64("launch.angle_degrees")
	}
	if angle == 0 {
		angle = defaultLaunchAngle
	}

	return angle
}

func (c *Config) GetSnapTolerance() float64 {
	tolerance := c.config.GetFloat64("SNAP_TOLERANCE")
	if tolerance == 0 {
		tolerance = c.config.GetFloat64("launch.snap_tolerance")
	}
	if tolerance == 0 {
		tolerance = defaultSnapTolerance
	}

	return tolerance
}

func (c *Config) GetCloseTolerance() float64 {
	tolerance := c.config.GetFloat64("CLOSE_TOLERANCE")
	if tolerance == 0 {
		tolerance = c.config.GetFloat64("editor.close_tolerance")
	}
	if tolerance == 0 {
		tolerance = defaultCloseTolerance
	}

	return tolerance
}

// GetRevealProgress treats an explicit 0 as "show nothing", so presence is
// checked with IsSet instead of the zero value.
func (c *Config) GetRevealProgress() float64 {
	if c.config.IsSet("REVEAL_PROGRESS") {
		return c.config.GetFloat64("REVEAL_PROGRESS")
	}
	if c.config.IsSet("reveal.progress") {
		return c.config.GetFloat64("reveal.progress")
	}

	return defaultProgress
}

func (c *Config) GetRevealSpeed() int {
	speed := c.config.GetInt("REVEAL_SPEED")
	if speed == 0 {
		speed = c.config.GetInt("reveal.speed")
	}
	if speed == 0 {
		speed = defaultRevealSpeed
	}

	return speed
}

func (c *Config) GetRevealAnimate() bool {
	return c.config.GetBool("REVEAL_ANIMATE") || c.config.GetBool("reveal.animate")
}

func (c *Config) GetLogLevel() string {
	level := c.config.GetString("LOG_LEVEL")
	if len(level) == 0 {
		level = c.config.GetString("log.level")
	}
	if len(level) == 0 {
		level = defaultLogLevel
	}

	return level
}

func (c *Config) GetOutputFormat() string {
	format := c.config.GetString("OUTPUT_FORMAT")
	if len(format) == 0 {
		format = c.config.GetString("output.format")
	}
	if len(format) == 0 {
		format = defaultOutputFormat
	}

	return format
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
