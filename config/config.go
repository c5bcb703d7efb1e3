// Package config provides configuration loading and access for the IK playground.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/path"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Solver    SolverConfig    `yaml:"solver"`
	Planner   PlannerConfig   `yaml:"planner"`
	Chain     ChainConfig     `yaml:"chain"`
	Path      PathConfig      `yaml:"path"`
	Trail     TrailConfig     `yaml:"trail"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the Cartesian bounds shown when the window opens.
type WorldConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

// SolverConfig holds Jacobian-transpose tunables.
type SolverConfig struct {
	StepSize             float64 `yaml:"step_size"`
	ConvergenceThreshold float64 `yaml:"convergence_threshold"`
	MaxIterations        int     `yaml:"max_iterations"` // 0 = unbounded
}

// PlannerConfig holds the waypoint heuristic settings.
type PlannerConfig struct {
	Enabled        bool    `yaml:"enabled"`
	VerticalOffset float64 `yaml:"vertical_offset"`
}

// PointConfig is a point in world coordinates.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ChainConfig lists the initial joint positions, base first. The last joint
// is the end effector.
type ChainConfig struct {
	Joints []PointConfig `yaml:"joints"`
}

// PathConfig describes the shape traced in path mode.
type PathConfig struct {
	Shape    string      `yaml:"shape"` // square or circle
	Step     float64     `yaml:"step"`
	HalfSide float64     `yaml:"half_side"`
	Center   PointConfig `yaml:"center"`
	Radius   float64     `yaml:"radius"`
	Loop     bool        `yaml:"loop"` // restart the shape when it finishes
}

// TrailConfig holds end-effector trail settings.
type TrailConfig struct {
	MaxMarkers int     `yaml:"max_markers"`
	Lifetime   float64 `yaml:"lifetime"` // seconds
}

// TelemetryConfig holds output settings.
type TelemetryConfig struct {
	OutputDir           string `yaml:"output_dir"`
	PerfCollectorWindow int    `yaml:"perf_collector_window"`
	RecordIterations    bool   `yaml:"record_iterations"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Solver  kinematics.SolverConfig
	Planner kinematics.PlannerConfig
	Joints  []r2.Vec
	Path    path.Spec
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports the first value that would make the playground unusable.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case !(c.World.XMax > c.World.XMin) || !(c.World.YMax > c.World.YMin):
		return fmt.Errorf("%w: world bounds x [%v, %v] y [%v, %v]", ErrInvalid,
			c.World.XMin, c.World.XMax, c.World.YMin, c.World.YMax)
	case c.Solver.MaxIterations < 0:
		return fmt.Errorf("%w: solver.max_iterations %d", ErrInvalid, c.Solver.MaxIterations)
	case len(c.Chain.Joints) == 0:
		return fmt.Errorf("%w: chain.joints is empty", ErrInvalid)
	case !finite(c.Planner.VerticalOffset):
		return fmt.Errorf("%w: planner.vertical_offset %v", ErrInvalid, c.Planner.VerticalOffset)
	case !finite(c.Path.HalfSide, c.Path.Center.X, c.Path.Center.Y, c.Path.Radius):
		return fmt.Errorf("%w: path half_side %v center (%v, %v) radius %v", ErrInvalid,
			c.Path.HalfSide, c.Path.Center.X, c.Path.Center.Y, c.Path.Radius)
	case !(c.Path.Step > 0):
		return fmt.Errorf("%w: path.step %v", ErrInvalid, c.Path.Step)
	case c.Path.Shape != path.ShapeSquare && c.Path.Shape != path.ShapeCircle:
		return fmt.Errorf("%w: path.shape %q", ErrInvalid, c.Path.Shape)
	case c.Trail.MaxMarkers < 0 || !(c.Trail.Lifetime >= 0):
		return fmt.Errorf("%w: trail max_markers %d lifetime %v", ErrInvalid, c.Trail.MaxMarkers, c.Trail.Lifetime)
	case c.Telemetry.PerfCollectorWindow < 1:
		return fmt.Errorf("%w: telemetry.perf_collector_window %d", ErrInvalid, c.Telemetry.PerfCollectorWindow)
	}
	for i, j := range c.Chain.Joints {
		if !finite(j.X, j.Y) {
			return fmt.Errorf("%w: chain.joints[%d] (%v, %v)", ErrInvalid, i, j.X, j.Y)
		}
	}
	if err := c.solverConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ApplyTuning sets the solver and planner settings, keeping the YAML fields
// and their derived forms in step so WriteYAML saves what is in use.
func (c *Config) ApplyTuning(solver kinematics.SolverConfig, planner kinematics.PlannerConfig, usePlanner bool) {
	c.Solver.StepSize = solver.StepSize
	c.Solver.ConvergenceThreshold = solver.ConvergenceThreshold
	c.Solver.MaxIterations = solver.MaxIterations
	c.Planner.VerticalOffset = planner.VerticalOffset
	c.Planner.Enabled = usePlanner
	c.Derived.Solver = solver
	c.Derived.Planner = planner
}

func (c *Config) solverConfig() kinematics.SolverConfig {
	return kinematics.SolverConfig{
		StepSize:             c.Solver.StepSize,
		ConvergenceThreshold: c.Solver.ConvergenceThreshold,
		MaxIterations:        c.Solver.MaxIterations,
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Solver = c.solverConfig()
	c.Derived.Planner = kinematics.PlannerConfig{VerticalOffset: c.Planner.VerticalOffset}

	c.Derived.Joints = make([]r2.Vec, len(c.Chain.Joints))
	for i, j := range c.Chain.Joints {
		c.Derived.Joints[i] = r2.Vec{X: j.X, Y: j.Y}
	}

	c.Derived.Path = path.Spec{
		Shape:    c.Path.Shape,
		HalfSide: c.Path.HalfSide,
		Center:   r2.Vec{X: c.Path.Center.X, Y: c.Path.Center.Y},
		Radius:   c.Path.Radius,
		Step:     c.Path.Step,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
