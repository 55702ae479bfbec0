package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/brumesim/brume/config"
	"github.com/brumesim/brume/grid"
	"github.com/brumesim/brume/kernel"
	"github.com/brumesim/brume/sample"
)

// resequenceInterval is the step period of the Z-order resort of the
// particle array.
const resequenceInterval = 100

// distEps guards force directions against zero-length separations.
const distEps = 1e-10

// StepReport summarizes one completed step.
type StepReport struct {
	Step int
	Time float64

	Iterations int  // pressure solver passes
	Converged  bool // false when the iteration cap was exhausted

	MeanDensity        float64
	DensityFluctuation float64 // mean density minus rest density
	RealVolume         float64 // sum of mass/density over the fluid
}

// scratch holds per-worker reusable buffers.
type scratch struct {
	cells []int
}

// Simulation owns the particle and boundary arrays and advances them
// through the phase pipeline. All shared structures (grid buckets,
// neighbor lists) are rebuilt inside Step; external collaborators may
// only touch the arrays between steps.
type Simulation struct {
	cfg *config.Config

	particles  []Particle
	boundaries []Boundary

	pk kernel.Monaghan
	ak kernel.Akinci
	bk kernel.Boundary

	grid         grid.Grid
	fluidBuckets [][]int
	boundBuckets [][]int

	gravity r3.Vec
	mass    float64
	h       float64
	rest    float64
	cs      float64
	dt      float64

	sources []Source
	sinks   []Sink

	stepCount int
	now       float64
	report    StepReport

	pool      *workerPool
	scratches []scratch

	densScratch []float64
	oldScratch  []Particle
	surfScratch []int
}

// New creates a simulation from a validated configuration. The fluid
// and boundary arrays start empty; seed them with AddParticles and
// AddBoundaries, then call Init.
func New(cfg *config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := cfg.Derived
	pool := newWorkerPool()
	s := &Simulation{
		cfg:     cfg,
		pk:      kernel.NewMonaghan(d.SmoothingRadius),
		ak:      kernel.NewAkinci(2.0 * d.SmoothingRadius),
		bk:      kernel.NewBoundary(d.BoundaryRadius, d.SoundSpeed),
		gravity: r3.Vec{X: cfg.World.Gravity[0], Y: cfg.World.Gravity[1], Z: cfg.World.Gravity[2]},
		mass:    d.ParticleMass,
		h:       d.SmoothingRadius,
		rest:    cfg.Fluid.RestDensity,
		cs:      d.SoundSpeed,
		dt:      cfg.Solver.Timestep,
		pool:    pool,
	}
	s.scratches = make([]scratch, pool.workers)
	for i := range s.scratches {
		s.scratches[i].cells = make([]int, 0, 27)
	}
	return s, nil
}

// AddParticles appends fluid particles at the given positions with a
// shared initial velocity. Densities start at the rest density so that
// statistics and volume sums stay finite before the first evaluation.
func (s *Simulation) AddParticles(positions []r3.Vec, v r3.Vec) {
	for _, x := range positions {
		s.particles = append(s.particles, Particle{X: x, V: v, Rho: s.rest})
	}
}

// AddBoundaries appends static boundary samples at the given positions.
func (s *Simulation) AddBoundaries(positions []r3.Vec) {
	for _, x := range positions {
		s.boundaries = append(s.boundaries, Boundary{X: x})
	}
}

// AddBoundaryBox lines the box [offset, offset+size] with a shell of
// boundary samples at the given spacing.
func (s *Simulation) AddBoundaryBox(offset, size r3.Vec, spacing float64) {
	s.AddBoundaries(sample.BoxShell(offset, size, spacing))
}

// AddSource registers a particle source, invoked once per step after
// integration.
func (s *Simulation) AddSource(src Source) {
	s.sources = append(s.sources, src)
}

// AddSink registers a particle sink hook.
func (s *Simulation) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// TranslateBoundaries shifts every boundary sample by t. The relative
// boundary geometry is unchanged, so the psi weights remain valid.
func (s *Simulation) TranslateBoundaries(t r3.Vec) {
	for i := range s.boundaries {
		s.boundaries[i].X = r3.Add(s.boundaries[i].X, t)
	}
}

// TranslateParticles shifts every fluid particle by t.
func (s *Simulation) TranslateParticles(t r3.Vec) {
	for i := range s.particles {
		s.particles[i].X = r3.Add(s.particles[i].X, t)
	}
}

// Init finalizes setup: orders the particle array, sizes the grid, and
// computes the boundary volume weights. It must be called once after
// seeding and before the first Step.
func (s *Simulation) Init() error {
	if len(s.particles) == 0 {
		return errors.New("sim: no fluid particles")
	}
	if len(s.boundaries) == 0 {
		return errors.New("sim: no boundary particles")
	}

	s.rebuildGrid()
	if s.grid.Size() <= 0 {
		return fmt.Errorf("sim: degenerate grid over %d particles", len(s.particles))
	}
	s.resequence()
	s.rebuildGrid()
	s.computeBoundaryPsi()

	// Everything counts as surface until the first classification.
	for i := range s.particles {
		s.particles[i].IsSurface = true
	}

	s.pool.start()

	slog.Info("simulation initialized",
		"particles", len(s.particles),
		"boundaries", len(s.boundaries),
		"smoothing_radius", s.h,
		"timestep", s.dt,
		"sound_speed", s.cs,
		"particle_mass", s.mass,
		"scheme", string(s.cfg.Solver.Scheme),
	)
	return nil
}

// Close releases the worker pool.
func (s *Simulation) Close() {
	s.pool.stopWorkers()
}

// forEach fans fn out over every particle with a full barrier before
// returning. The worker index selects per-worker scratch space.
func (s *Simulation) forEach(fn func(i, worker int)) {
	s.pool.run(len(s.particles), func(start, end, worker int) {
		for i := start; i < end; i++ {
			fn(i, worker)
		}
	})
}

// Step advances the simulation by one timestep and returns its summary.
func (s *Simulation) Step() StepReport {
	// The resort must precede any phase that captures live indices.
	if s.stepCount%resequenceInterval == 0 {
		s.resequence()
	}
	s.rebuildGrid()
	s.forEach(s.searchNeighbors)

	s.forEach(s.computeDensity)
	s.forEach(s.computeNormal)
	s.classifySurface()

	s.forEach(func(i, _ int) {
		s.computeAdvectionForces(i)
		s.predictVelocity(i)
		s.computeDii(i)
	})
	s.forEach(func(i, _ int) {
		s.predictDensity(i)
		s.warmStartPressure(i)
		s.computeAii(i)
	})

	var iters int
	var converged bool
	switch s.cfg.Solver.Scheme {
	case config.SchemeWCSPH:
		s.forEach(func(i, _ int) { s.computeEOSPressure(i) })
		iters, converged = 1, true
	default:
		iters, converged = s.solvePressure()
	}

	s.forEach(func(i, _ int) { s.computePressureForce(i) })
	s.forEach(func(i, _ int) { s.integrate(i) })

	s.stepCount++
	s.now += s.dt

	s.applySources()
	s.applySinks()

	s.report = s.computeStats(iters, converged)
	if !converged {
		slog.Warn("pressure solver exhausted its iteration cap",
			"step", s.report.Step,
			"iterations", iters,
			"mean_density", s.report.MeanDensity,
		)
	}
	return s.report
}

// integrate applies semi-implicit Euler: the pressure force corrects
// the advected velocity, then the position follows the new velocity.
func (s *Simulation) integrate(i int) {
	p := &s.particles[i]
	p.V = r3.Add(p.Vadv, r3.Scale(s.dt/s.mass, p.Fp))
	p.X = r3.Add(p.X, r3.Scale(s.dt, p.V))
}

// applySources appends the particles emitted by every registered
// source. New particles join the live set at the next grid rebuild.
func (s *Simulation) applySources() {
	for _, src := range s.sources {
		for _, p := range src.Apply(s.now) {
			if p.Rho == 0 {
				p.Rho = s.rest
			}
			s.particles = append(s.particles, p)
		}
	}
}

// applySinks invokes the removal hooks. Removal itself is not wired up;
// returned indices are discarded.
// TODO: compact the particle array from the returned indices and force
// a bucket rebuild once a removal policy lands.
func (s *Simulation) applySinks() {
	for _, sink := range s.sinks {
		_ = sink.Apply(s.now)
	}
}

// computeStats collects the per-step summary statistics.
func (s *Simulation) computeStats(iters int, converged bool) StepReport {
	n := len(s.particles)
	if cap(s.densScratch) < n {
		s.densScratch = make([]float64, n)
	}
	s.densScratch = s.densScratch[:n]

	realVolume := 0.0
	for i := range s.particles {
		rho := s.particles[i].Rho
		s.densScratch[i] = rho
		realVolume += s.mass / rho
	}
	mean := stat.Mean(s.densScratch, nil)

	return StepReport{
		Step:               s.stepCount,
		Time:               s.now,
		Iterations:         iters,
		Converged:          converged,
		MeanDensity:        mean,
		DensityFluctuation: mean - s.rest,
		RealVolume:         realVolume,
	}
}

// Time returns the simulated time.
func (s *Simulation) Time() float64 { return s.now }

// StepCount returns the number of completed steps.
func (s *Simulation) StepCount() int { return s.stepCount }

// Report returns the last step's summary.
func (s *Simulation) Report() StepReport { return s.report }

// ParticleCount returns the live fluid particle count.
func (s *Simulation) ParticleCount() int { return len(s.particles) }

// BoundaryCount returns the boundary sample count.
func (s *Simulation) BoundaryCount() int { return len(s.boundaries) }

// SmoothingRadius returns the fluid kernel radius h.
func (s *Simulation) SmoothingRadius() float64 { return s.h }

// Positions returns a copy of the particle positions.
func (s *Simulation) Positions() []r3.Vec {
	out := make([]r3.Vec, len(s.particles))
	for i := range s.particles {
		out[i] = s.particles[i].X
	}
	return out
}

// Velocities returns a copy of the particle velocities.
func (s *Simulation) Velocities() []r3.Vec {
	out := make([]r3.Vec, len(s.particles))
	for i := range s.particles {
		out[i] = s.particles[i].V
	}
	return out
}

// Densities returns a copy of the particle densities.
func (s *Simulation) Densities() []float64 {
	out := make([]float64, len(s.particles))
	for i := range s.particles {
		out[i] = s.particles[i].Rho
	}
	return out
}

// Masses returns the per-particle masses. Mass is uniform across the
// fluid but exported per particle for the snapshot format.
func (s *Simulation) Masses() []float64 {
	out := make([]float64, len(s.particles))
	for i := range out {
		out[i] = s.mass
	}
	return out
}
