package sim

import "gonum.org/v1/gonum/spatial/r3"

// viscEps softens the separation denominator in the artificial
// viscosity terms.
const viscEps = 0.01

// computeAdvectionForces accumulates every non-pressure force acting on
// particle i: gravity, pairwise viscosity and surface tension against
// fluid neighbors, friction and adhesion against boundary neighbors.
func (s *Simulation) computeAdvectionForces(i int) {
	p := &s.particles[i]
	p.Fadv = r3.Vec{}
	for _, j := range p.FluidNeighbors {
		s.addViscosity(p, i, j)
		s.addSurfaceTension(p, i, j)
	}
	for _, j := range p.BoundaryNeighbors {
		s.addBoundaryFriction(p, j)
		s.addBoundaryAdhesion(p, j)
	}
	p.Fadv = r3.Add(p.Fadv, r3.Scale(s.mass, s.gravity))
}

// addViscosity applies Monaghan's artificial viscosity, only where the
// pair is approaching: receding pairs see no dissipation.
func (s *Simulation) addViscosity(p *Particle, i, j int) {
	if i == j {
		return
	}
	q := &s.particles[j]
	sep := r3.Sub(p.X, q.X)
	approach := r3.Dot(r3.Sub(p.V, q.V), sep)
	if approach >= 0 {
		return
	}
	kij := 2.0 * s.rest / (p.Rho + q.Rho)
	pij := -kij * (2.0 * s.cfg.Fluid.Viscosity * s.h * s.cs / (p.Rho + q.Rho)) *
		(approach / (r3.Norm2(sep) + viscEps*s.h*s.h))
	p.Fadv = r3.Add(p.Fadv, r3.Scale(-kij*s.mass*s.mass*pij, s.pk.GradW(sep)))
}

// addSurfaceTension applies the Akinci cohesion and curvature forces.
// Only pairs with at least one surface-flagged member contribute;
// interior pairs are in equilibrium by construction.
func (s *Simulation) addSurfaceTension(p *Particle, i, j int) {
	if i == j {
		return
	}
	q := &s.particles[j]
	if !p.IsSurface && !q.IsSurface {
		return
	}
	sep := r3.Sub(p.X, q.X)
	dist := r3.Norm(sep)
	if dist < distEps {
		return
	}
	kij := 2.0 * s.rest / (p.Rho + q.Rho)
	gamma := s.cfg.Fluid.Cohesion
	cohesion := r3.Scale(-gamma*s.mass*s.mass*s.ak.Cohesion(dist)/dist, sep)
	curvature := r3.Scale(-gamma*s.mass, r3.Sub(p.N, q.N))
	p.Fadv = r3.Add(p.Fadv, r3.Scale(kij, r3.Add(cohesion, curvature)))
}

// addBoundaryFriction dissipates tangential motion against a boundary
// sample, in the artificial-viscosity form and gated on approach like
// the fluid term.
func (s *Simulation) addBoundaryFriction(p *Particle, j int) {
	b := &s.boundaries[j]
	sep := r3.Sub(p.X, b.X)
	approach := r3.Dot(r3.Sub(p.V, b.V), sep)
	if approach >= 0 {
		return
	}
	nu := s.cfg.Boundary.Friction * s.h * s.cs / (2.0 * p.Rho)
	pij := -nu * approach / (r3.Norm2(sep) + viscEps*s.h*s.h)
	p.Fadv = r3.Add(p.Fadv, r3.Scale(-s.mass*b.Psi*pij, s.pk.GradW(sep)))
}

// addBoundaryAdhesion pulls the particle toward the boundary sample
// along the separation direction, weighted by the Akinci adhesion
// profile.
func (s *Simulation) addBoundaryAdhesion(p *Particle, j int) {
	b := &s.boundaries[j]
	sep := r3.Sub(p.X, b.X)
	dist := r3.Norm(sep)
	if dist < distEps {
		return
	}
	beta := s.cfg.Boundary.Adhesion
	p.Fadv = r3.Add(p.Fadv, r3.Scale(-beta*b.Psi*s.ak.Adhesion(dist)/dist, sep))
}

// pairPressureForce returns the unsymmetrized pressure-force
// contribution of fluid neighbor j on particle i. Summed over a pair
// both ways it is antisymmetric, which is what conserves momentum.
func (s *Simulation) pairPressureForce(i, j int) r3.Vec {
	p := &s.particles[i]
	q := &s.particles[j]
	grad := s.pk.GradW(r3.Sub(p.X, q.X))
	coeff := -s.mass * s.mass * (p.P/(p.Rho*p.Rho) + q.P/(q.Rho*q.Rho))
	return r3.Scale(coeff, grad)
}

// computePressureForce sums the symmetric fluid pressure force and the
// boundary pressure response for particle i. The weakly compressible
// scheme substitutes the legacy direct-forcing boundary term.
func (s *Simulation) computePressureForce(i int) {
	p := &s.particles[i]
	p.Fp = r3.Vec{}
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		p.Fp = r3.Add(p.Fp, s.pairPressureForce(i, j))
	}
	if s.useLegacyBoundaryForce() {
		s.addBoundaryGammaForce(p)
		return
	}
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		grad := s.pk.GradW(r3.Sub(p.X, b.X))
		p.Fp = r3.Add(p.Fp, r3.Scale(-s.mass*b.Psi*p.P/(p.Rho*p.Rho), grad))
	}
}
