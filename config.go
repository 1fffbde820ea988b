package sweepselect

import (
	"fmt"
	"strings"
	"time"

	"github.com/ErikKalkoken/go-set"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config holds the tunables of the selection engine and its demo scene.
type Config struct {
	ClickThreshold time.Duration `env:"SWEEPSELECT_CLICK_THRESHOLD"  envDefault:"300ms"`
	MaxRayDistance float32       `env:"SWEEPSELECT_MAX_RAY_DISTANCE" envDefault:"200"`
	PlaneAxes      string        `env:"SWEEPSELECT_PLANE_AXES"       envDefault:"xz"`
	AnchorSpace    string        `env:"SWEEPSELECT_ANCHOR_SPACE"     envDefault:"screen"`
	QueryTarget    string        `env:"SWEEPSELECT_QUERY_TARGET"     envDefault:"plane"`
	ScreenYDown    bool          `env:"SWEEPSELECT_SCREEN_Y_DOWN"    envDefault:"true"`
	LogLevel       string        `env:"SWEEPSELECT_LOG_LEVEL"        envDefault:"info"`
	Layout         string        `env:"SWEEPSELECT_LAYOUT"`
	SurfaceTags    []string      `env:"SWEEPSELECT_SURFACE_TAGS"     envSeparator:","`
}

func DefaultConfig() Config {
	return Config{
		ClickThreshold: DefaultClickThreshold,
		MaxRayDistance: DefaultMaxRayDistance,
		PlaneAxes:      PlaneXZ.String(),
		AnchorSpace:    AnchorScreen.String(),
		QueryTarget:    TargetPlane.String(),
		ScreenYDown:    true,
		LogLevel:       "info",
	}
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ClickThreshold < 0 {
		return fmt.Errorf("click threshold must not be negative: %s", c.ClickThreshold)
	}
	if c.MaxRayDistance <= 0 {
		return fmt.Errorf("max ray distance must be positive: %v", c.MaxRayDistance)
	}
	if _, err := c.Axes(); err != nil {
		return err
	}
	if _, err := c.ProjectorOptions(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c Config) Axes() (PlaneAxes, error) {
	return ParsePlaneAxes(c.PlaneAxes)
}

func (c Config) ProjectorOptions() (ProjectorOptions, error) {
	anchor, err := ParseAnchorSpace(c.AnchorSpace)
	if err != nil {
		return ProjectorOptions{}, err
	}
	target, err := ParseQueryTarget(c.QueryTarget)
	if err != nil {
		return ProjectorOptions{}, err
	}
	return ProjectorOptions{Anchor: anchor, Target: target, ScreenYDown: c.ScreenYDown}, nil
}

// Tags returns the surface tags the surface query target is limited to.
func (c Config) Tags() set.Set[string] {
	tags := set.Of[string]()
	for _, t := range c.SurfaceTags {
		if t = strings.TrimSpace(t); t != "" {
			tags.Add(t)
		}
	}
	return tags
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewEngineFromConfig wires an Engine and its projector for scene.
func NewEngineFromConfig(cfg Config, scene SceneQuery, registry Registry, renderer Renderer) (*Engine, error) {
	axes, err := cfg.Axes()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ProjectorOptions()
	if err != nil {
		return nil, err
	}
	projector, err := NewRectangleProjector(scene, opts)
	if err != nil {
		return nil, fmt.Errorf("projector: %w", err)
	}
	return NewEngine(scene, registry, renderer, projector, axes)
}
