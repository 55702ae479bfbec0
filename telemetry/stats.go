// Package telemetry records per-step statistics and particle snapshots
// as CSV, plus the effective configuration, under one output directory.
package telemetry

import "log/slog"

// StepStats is one row of stats.csv, recorded once per simulation step.
type StepStats struct {
	Step               int     `csv:"step"`
	Time               float64 `csv:"time"`
	Particles          int     `csv:"particles"`
	SolverIterations   int     `csv:"solver_iterations"`
	Converged          bool    `csv:"converged"`
	MeanDensity        float64 `csv:"mean_density"`
	DensityFluctuation float64 `csv:"density_fluctuation"`
	RealVolume         float64 `csv:"real_volume"`
	StepMillis         float64 `csv:"step_ms"`
}

// LogValue implements slog.LogValuer for compact structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Float64("time", s.Time),
		slog.Int("particles", s.Particles),
		slog.Int("iterations", s.SolverIterations),
		slog.Bool("converged", s.Converged),
		slog.Float64("mean_density", s.MeanDensity),
		slog.Float64("fluctuation", s.DensityFluctuation),
		slog.Float64("step_ms", s.StepMillis),
	)
}
