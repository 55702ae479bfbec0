package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/config"
	"github.com/brumesim/brume/sample"
	"github.com/brumesim/brume/sim"
	"github.com/brumesim/brume/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	duration := flag.Float64("duration", 1.0, "Simulated time to run, in seconds")
	exportInterval := flag.Float64("export-interval", 0, "Simulated seconds between particle snapshots (0 = none)")
	maxSteps := flag.Int("max-steps", 0, "Stop after N steps regardless of duration (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output per-step stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	s, err := sim.New(cfg)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	seedScene(s, cfg)

	if err := s.Init(); err != nil {
		slog.Error("failed to initialize simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"duration", *duration,
		"max_steps", *maxSteps,
		"export_interval", *exportInterval,
		"output_dir", om.Dir(),
	)

	dt := cfg.Solver.Timestep
	frame := 0
	for s.Time() < *duration {
		begin := time.Now()
		report := s.Step()
		elapsed := time.Since(begin)

		stats := telemetry.StepStats{
			Step:               report.Step,
			Time:               report.Time,
			Particles:          s.ParticleCount(),
			SolverIterations:   report.Iterations,
			Converged:          report.Converged,
			MeanDensity:        report.MeanDensity,
			DensityFluctuation: report.DensityFluctuation,
			RealVolume:         report.RealVolume,
			StepMillis:         float64(elapsed.Microseconds()) / 1000.0,
		}
		if err := om.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
			os.Exit(1)
		}
		if *logStats {
			slog.Info("step", "stats", stats)
		}

		if *exportInterval > 0 && crossedExport(report.Time, dt, *exportInterval) {
			snap := telemetry.Snapshot{
				Positions:  s.Positions(),
				Velocities: s.Velocities(),
				Densities:  s.Densities(),
				Masses:     s.Masses(),
			}
			if err := om.WriteSnapshot(frame, snap); err != nil {
				slog.Error("failed to write snapshot", "error", err)
				os.Exit(1)
			}
			frame++
		}

		if *maxSteps > 0 && s.StepCount() >= *maxSteps {
			slog.Info("max steps reached", "step", s.StepCount())
			break
		}
	}

	slog.Info("simulation finished",
		"time", s.Time(),
		"steps", s.StepCount(),
		"particles", s.ParticleCount(),
		"snapshots", frame,
	)
}

// seedScene fills the configured fluid box with a particle lattice and
// lines the boundary box with a shell of samples.
func seedScene(s *sim.Simulation, cfg *config.Config) {
	spacing := math.Cbrt(cfg.Derived.ParticleMass / cfg.Fluid.RestDensity)

	fb := cfg.World.FluidBox
	fluid := sample.BoxLattice(vec(fb.Offset), vec(fb.Size), spacing)
	s.AddParticles(fluid, r3.Vec{})

	bb := cfg.World.BoundaryBox
	s.AddBoundaryBox(vec(bb.Offset), vec(bb.Size), spacing/2.0)

	slog.Info("scene seeded",
		"fluid_particles", len(fluid),
		"boundary_samples", s.BoundaryCount(),
		"particle_spacing", spacing,
	)
}

// crossedExport reports whether this step crossed an export boundary.
func crossedExport(now, dt, interval float64) bool {
	return math.Floor((now-dt)/interval) != math.Floor(now/interval)
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
