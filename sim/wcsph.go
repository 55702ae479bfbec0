package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/config"
)

// computeEOSPressure evaluates the Tait equation of state, mapping the
// measured density directly to a pressure. Negative pressures are
// clamped: tension is handled by the cohesion forces, not the state
// equation.
func (s *Simulation) computeEOSPressure(i int) {
	p := &s.particles[i]
	gamma := s.cfg.Solver.EOSExponent
	stiffness := s.rest * s.cs * s.cs / gamma
	pressure := stiffness * (math.Pow(p.Rho/s.rest, gamma) - 1.0)
	p.P = max(pressure, 0.0)
	p.Pl = p.P
	p.RhoCorr = p.Rho
}

// useLegacyBoundaryForce reports whether the boundary pressure response
// uses the direct-forcing profile instead of the pressure-mirroring
// term. Only the weakly compressible scheme does.
func (s *Simulation) useLegacyBoundaryForce() bool {
	return s.cfg.Solver.Scheme == config.SchemeWCSPH
}

// addBoundaryGammaForce applies the Monaghan-Kajtar repulsion from each
// boundary sample, weighted so heavy particles are not launched by
// light boundary samples.
func (s *Simulation) addBoundaryGammaForce(p *Particle) {
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		sep := r3.Sub(p.X, b.X)
		dist := r3.Norm(sep)
		if dist < distEps {
			continue
		}
		coeff := s.mass * b.Psi / (s.mass + b.Psi) * s.bk.Gamma(dist) / dist
		p.Fp = r3.Add(p.Fp, r3.Scale(coeff, sep))
	}
}
