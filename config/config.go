// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ParticlesPerCell is the expected fluid neighborhood population used to
// derive the smoothing radius from the target resolution, and to detect
// neighbor-deficient surface particles.
const ParticlesPerCell = 33.8

// Scheme selects the pressure formulation. The two formulations are never
// mixed within a run.
type Scheme string

const (
	// SchemeIISPH is the implicit incompressible fixed-point solver.
	SchemeIISPH Scheme = "iisph"
	// SchemeWCSPH is the explicit weakly compressible equation of state.
	SchemeWCSPH Scheme = "wcsph"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Fluid    FluidConfig    `yaml:"fluid"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Solver   SolverConfig   `yaml:"solver"`
	World    WorldConfig    `yaml:"world"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// FluidConfig holds the fluid phase parameters.
type FluidConfig struct {
	ParticleCount    int     `yaml:"particle_count"`    // Target particle count for the reference volume
	Volume           float64 `yaml:"volume"`            // Reference volume in m^3; fixes resolution with particle_count
	RestDensity      float64 `yaml:"rest_density"`      // kg/m^3
	Viscosity        float64 `yaml:"viscosity"`         // Artificial viscosity alpha
	Cohesion         float64 `yaml:"cohesion"`          // Surface tension strength
	SoundSpeed       float64 `yaml:"sound_speed"`       // 0 = derive from the dam-height heuristic
	SurfaceThreshold float64 `yaml:"surface_threshold"` // Squared-normal threshold for surface flagging
}

// BoundaryConfig holds the static boundary parameters.
type BoundaryConfig struct {
	SmoothingRadius float64 `yaml:"smoothing_radius"` // 0 = half the fluid smoothing radius
	Friction        float64 `yaml:"friction"`         // Boundary friction sigma
	Adhesion        float64 `yaml:"adhesion"`         // Boundary adhesion beta
}

// SolverConfig holds the pressure solver parameters.
type SolverConfig struct {
	Scheme          Scheme  `yaml:"scheme"`
	Timestep        float64 `yaml:"timestep"`
	MinIterations   int     `yaml:"min_iterations"`    // Iteration floor; never stop before this many passes
	MaxIterations   int     `yaml:"max_iterations"`    // Safety cap; non-convergence is surfaced, not fatal
	MaxDensityError float64 `yaml:"max_density_error"` // Allowed mean corrected-density excess over rest, kg/m^3
	EOSExponent     float64 `yaml:"eos_exponent"`      // Tait exponent for the wcsph scheme
}

// WorldConfig holds the scene the driver seeds: gravity and the initial
// fluid and boundary boxes.
type WorldConfig struct {
	Gravity     [3]float64 `yaml:"gravity"`
	FluidBox    BoxConfig  `yaml:"fluid_box"`
	BoundaryBox BoxConfig  `yaml:"boundary_box"`
}

// BoxConfig is an axis-aligned box given by its minimum corner and size.
type BoxConfig struct {
	Offset [3]float64 `yaml:"offset"`
	Size   [3]float64 `yaml:"size"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	SmoothingRadius float64 // h, from resolution and reference volume
	BoundaryRadius  float64 // Boundary kernel radius, defaults to h/2
	ParticleMass    float64 // rest_density * volume / particle_count
	SoundSpeed      float64 // Configured or derived
}

// Load loads configuration from a YAML file, merging with embedded
// defaults, then computes derived values and validates. An empty path
// uses only the defaults.
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
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates the resolution-dependent quantities.
func (c *Config) computeDerived() {
	d := &c.Derived

	n := float64(c.Fluid.ParticleCount)
	d.ParticleMass = c.Fluid.RestDensity * c.Fluid.Volume / n

	// Smoothing radius such that a full kernel support holds about
	// ParticlesPerCell neighbors at the target resolution.
	d.SmoothingRadius = 0.5 * math.Cbrt(3.0*c.Fluid.Volume*ParticlesPerCell/(4.0*math.Pi*n))

	d.SoundSpeed = c.Fluid.SoundSpeed
	if d.SoundSpeed == 0 {
		// Dam-height heuristic: free-fall speed from a 0.1 m column,
		// scaled for a 1% density variation.
		const (
			eta       = 0.01
			damHeight = 0.1
		)
		vf := math.Sqrt(2.0 * 9.81 * damHeight)
		d.SoundSpeed = vf / math.Sqrt(eta)
	}

	d.BoundaryRadius = c.Boundary.SmoothingRadius
	if d.BoundaryRadius == 0 {
		d.BoundaryRadius = d.SmoothingRadius / 2.0
	}
}

// Validate checks the configuration invariants that must hold before the
// simulation starts. Violations are not recoverable mid-run, so loading
// fails outright.
func (c *Config) Validate() error {
	if c.Fluid.ParticleCount <= 0 {
		return fmt.Errorf("config: fluid.particle_count must be positive, got %d", c.Fluid.ParticleCount)
	}
	if c.Fluid.Volume <= 0 {
		return fmt.Errorf("config: fluid.volume must be positive, got %g", c.Fluid.Volume)
	}
	if c.Fluid.RestDensity <= 0 {
		return fmt.Errorf("config: fluid.rest_density must be positive, got %g", c.Fluid.RestDensity)
	}
	if c.Fluid.Viscosity < 0 {
		return fmt.Errorf("config: fluid.viscosity must not be negative, got %g", c.Fluid.Viscosity)
	}
	if c.Fluid.SurfaceThreshold <= 0 {
		return fmt.Errorf("config: fluid.surface_threshold must be positive, got %g", c.Fluid.SurfaceThreshold)
	}
	if c.Solver.Timestep <= 0 {
		return fmt.Errorf("config: solver.timestep must be positive, got %g", c.Solver.Timestep)
	}
	if c.Solver.MinIterations < 1 {
		return fmt.Errorf("config: solver.min_iterations must be at least 1, got %d", c.Solver.MinIterations)
	}
	if c.Solver.MaxIterations < c.Solver.MinIterations {
		return fmt.Errorf("config: solver.max_iterations (%d) must not be below min_iterations (%d)",
			c.Solver.MaxIterations, c.Solver.MinIterations)
	}
	if c.Solver.MaxDensityError <= 0 {
		return fmt.Errorf("config: solver.max_density_error must be positive, got %g", c.Solver.MaxDensityError)
	}
	switch c.Solver.Scheme {
	case SchemeIISPH:
	case SchemeWCSPH:
		if c.Solver.EOSExponent <= 0 {
			return fmt.Errorf("config: solver.eos_exponent must be positive for wcsph, got %g", c.Solver.EOSExponent)
		}
	default:
		return fmt.Errorf("config: unknown solver.scheme %q", c.Solver.Scheme)
	}
	// The neighbor search radius is 2h; a boundary kernel wider than the
	// fluid kernel would see neighbors the search never returns.
	if c.Derived.BoundaryRadius > c.Derived.SmoothingRadius {
		return fmt.Errorf("config: boundary.smoothing_radius (%g) must not exceed the fluid smoothing radius (%g)",
			c.Derived.BoundaryRadius, c.Derived.SmoothingRadius)
	}
	return nil
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
