package sim

import (
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Relaxation parameters of the implicit pressure solve.
const (
	// omega damps the Jacobi update; 0.5 is the stable choice for the
	// relaxed fixed-point iteration.
	omega = 0.5
	// aiiEps rejects diagonal coefficients too small to divide by, which
	// happens for isolated particles with no effective neighborhood.
	aiiEps = 2.220446049250313e-16
	// warmStartFactor scales the previous pressure into the initial
	// iterate of the next solve.
	warmStartFactor = 0.5
)

// predictVelocity advances the velocity under the advection forces
// alone. Pressure corrects it later in the step.
func (s *Simulation) predictVelocity(i int) {
	p := &s.particles[i]
	p.Vadv = r3.Add(p.V, r3.Scale(s.dt/s.mass, p.Fadv))
}

// dij is the displacement particle i would receive per unit pressure at
// fluid neighbor j.
func (s *Simulation) dij(i, j int) r3.Vec {
	p := &s.particles[i]
	q := &s.particles[j]
	return r3.Scale(-s.dt*s.dt*s.mass/(q.Rho*q.Rho), s.pk.GradW(r3.Sub(p.X, q.X)))
}

// computeDii accumulates particle i's own displacement per unit of its
// own pressure, split by neighbor population.
func (s *Simulation) computeDii(i int) {
	p := &s.particles[i]
	factor := -s.dt * s.dt / (p.Rho * p.Rho)

	dfluid := r3.Vec{}
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		grad := s.pk.GradW(r3.Sub(p.X, s.particles[j].X))
		dfluid = r3.Add(dfluid, r3.Scale(factor*s.mass, grad))
	}
	dbound := r3.Vec{}
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		grad := s.pk.GradW(r3.Sub(p.X, b.X))
		dbound = r3.Add(dbound, r3.Scale(factor*b.Psi, grad))
	}
	p.DiiFluid = dfluid
	p.DiiBoundary = dbound
}

// predictDensity extrapolates the density along the advected
// velocities. This is the density the pressure solve must correct back
// to rest.
func (s *Simulation) predictDensity(i int) {
	p := &s.particles[i]
	fdrho := 0.0
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		q := &s.particles[j]
		grad := s.pk.GradW(r3.Sub(p.X, q.X))
		fdrho += s.mass * r3.Dot(r3.Sub(p.Vadv, q.Vadv), grad)
	}
	bdrho := 0.0
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		grad := s.pk.GradW(r3.Sub(p.X, b.X))
		bdrho += b.Psi * r3.Dot(r3.Sub(p.Vadv, b.V), grad)
	}
	p.RhoAdv = p.Rho + s.dt*(fdrho+bdrho)
}

// warmStartPressure seeds the iteration with half the previous step's
// pressure. A full carry-over overshoots; zero throws the previous
// solve away.
func (s *Simulation) warmStartPressure(i int) {
	p := &s.particles[i]
	p.Pl = warmStartFactor * p.P
}

// computeAii builds the diagonal coefficient relating particle i's own
// pressure to its density change, combining i's self displacement with
// the reaction displacements of its neighbors.
func (s *Simulation) computeAii(i int) {
	p := &s.particles[i]
	dii := r3.Add(p.DiiFluid, p.DiiBoundary)

	aii := 0.0
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		grad := s.pk.GradW(r3.Sub(p.X, s.particles[j].X))
		dji := s.dij(j, i)
		aii += s.mass * r3.Dot(r3.Sub(dii, dji), grad)
	}
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		grad := s.pk.GradW(r3.Sub(p.X, b.X))
		aii += b.Psi * r3.Dot(dii, grad)
	}
	p.Aii = aii
}

// computeSumDij accumulates the displacement particle i receives from
// the current pressure iterate of its fluid neighbors.
func (s *Simulation) computeSumDij(i int) {
	p := &s.particles[i]
	sum := r3.Vec{}
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		sum = r3.Add(sum, r3.Scale(s.particles[j].Pl, s.dij(i, j)))
	}
	p.SumDij = sum
}

// relaxPressure performs one damped Jacobi update of particle i's
// pressure. It reads only committed iterates (Pl) of the neighbors and
// stages its own result in pNext; commitPressure publishes it after the
// full pass, keeping the sweep order-independent.
func (s *Simulation) relaxPressure(i int) {
	p := &s.particles[i]

	fsum := 0.0
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		q := &s.particles[j]
		grad := s.pk.GradW(r3.Sub(p.X, q.X))
		diiPj := r3.Scale(q.Pl, r3.Add(q.DiiFluid, q.DiiBoundary))
		djiPi := r3.Scale(p.Pl, s.dij(j, i))
		aux := r3.Sub(r3.Sub(p.SumDij, diiPj), r3.Sub(q.SumDij, djiPi))
		fsum += s.mass * r3.Dot(aux, grad)
	}
	bsum := 0.0
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		bsum += b.Psi * r3.Dot(p.SumDij, s.pk.GradW(r3.Sub(p.X, b.X)))
	}

	previous := p.Pl
	rhoCorr := p.RhoAdv + fsum + bsum

	var pl float64
	if p.Aii > aiiEps || p.Aii < -aiiEps {
		pl = (1.0-omega)*previous + (omega/p.Aii)*(s.rest-rhoCorr)
	}
	p.pNext = max(pl, 0.0)
	p.RhoCorr = rhoCorr + p.Aii*previous
}

// commitPressure publishes the staged pressure as both the live value
// and the next iterate.
func (s *Simulation) commitPressure(i int) {
	p := &s.particles[i]
	p.P = p.pNext
	p.Pl = p.pNext
}

// solvePressure iterates the relaxed pressure solve until the mean
// corrected density has come back down to within the configured error
// of rest, running at least the configured minimum of passes. The
// criterion is one-sided: pressures are clamped nonnegative, so
// particles near the free surface legitimately sit below rest density
// and only the compression excess counts as error. Returns the pass
// count and whether the iteration cap cut the solve short.
func (s *Simulation) solvePressure() (int, bool) {
	minIters := s.cfg.Solver.MinIterations
	maxIters := s.cfg.Solver.MaxIterations
	maxErr := s.cfg.Solver.MaxDensityError

	n := len(s.particles)
	if cap(s.densScratch) < n {
		s.densScratch = make([]float64, n)
	}
	s.densScratch = s.densScratch[:n]

	iters := 0
	for {
		s.forEach(func(i, _ int) { s.computeSumDij(i) })
		s.forEach(func(i, _ int) { s.relaxPressure(i) })
		s.forEach(func(i, _ int) { s.commitPressure(i) })
		iters++

		for i := range s.particles {
			s.densScratch[i] = s.particles[i].RhoCorr
		}
		excess := stat.Mean(s.densScratch, nil) - s.rest
		converged := excess <= maxErr

		if converged && iters >= minIters {
			return iters, true
		}
		if iters >= maxIters {
			return iters, converged
		}
	}
}
