package telemetry

import "gonum.org/v1/gonum/spatial/r3"

// Snapshot is the full particle state at one instant. The four slices
// are parallel; Masses may be shorter than the rest, in which case the
// last value repeats (uniform mass).
type Snapshot struct {
	Positions  []r3.Vec
	Velocities []r3.Vec
	Densities  []float64
	Masses     []float64
}

// particleRow is one particle in the snapshot CSV layout.
type particleRow struct {
	X    float64 `csv:"x"`
	Y    float64 `csv:"y"`
	Z    float64 `csv:"z"`
	VX   float64 `csv:"vx"`
	VY   float64 `csv:"vy"`
	VZ   float64 `csv:"vz"`
	Rho  float64 `csv:"density"`
	Mass float64 `csv:"mass"`
}

func (s Snapshot) rows() []particleRow {
	rows := make([]particleRow, len(s.Positions))
	for i := range rows {
		mass := 0.0
		if len(s.Masses) > 0 {
			mass = s.Masses[min(i, len(s.Masses)-1)]
		}
		rows[i] = particleRow{
			X:    s.Positions[i].X,
			Y:    s.Positions[i].Y,
			Z:    s.Positions[i].Z,
			VX:   s.Velocities[i].X,
			VY:   s.Velocities[i].Y,
			VZ:   s.Velocities[i].Z,
			Rho:  s.Densities[i],
			Mass: mass,
		}
	}
	return rows
}
