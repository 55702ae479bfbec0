package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/config"
)

// computeDensity sums the kernel-weighted masses of particle i's fluid
// neighbors and the psi weights of its boundary neighbors.
func (s *Simulation) computeDensity(i, _ int) {
	p := &s.particles[i]
	rho := 0.0
	for _, j := range p.FluidNeighbors {
		rho += s.mass * s.pk.W(r3.Sub(p.X, s.particles[j].X))
	}
	for _, j := range p.BoundaryNeighbors {
		b := &s.boundaries[j]
		rho += b.Psi * s.pk.W(r3.Sub(p.X, b.X))
	}
	p.Rho = rho
}

// computeNormal accumulates the smoothed density-gradient direction,
// scaled by the smoothing radius. Interior particles see contributions
// cancel; a long normal marks proximity to the free surface.
func (s *Simulation) computeNormal(i, _ int) {
	p := &s.particles[i]
	n := r3.Vec{}
	for _, j := range p.FluidNeighbors {
		if j == i {
			continue
		}
		q := &s.particles[j]
		n = r3.Add(n, r3.Scale(s.mass/q.Rho, s.pk.GradW(r3.Sub(p.X, q.X))))
	}
	p.N = r3.Scale(s.h, n)
}

// classifySurface flags particles whose normal length or neighbor
// deficit indicates a free surface, then dilates the set by one
// neighbor ring so tension forces fade in smoothly rather than
// switching at the exact threshold. Runs serially: the dilation writes
// across particles.
func (s *Simulation) classifySurface() {
	threshold := s.cfg.Fluid.SurfaceThreshold
	deficit := 0.5 * config.ParticlesPerCell

	for i := range s.particles {
		s.particles[i].IsSurface = false
	}

	seeds := s.surfScratch[:0]
	for i := range s.particles {
		p := &s.particles[i]
		if r3.Norm2(p.N) > threshold || float64(len(p.FluidNeighbors)) < deficit {
			seeds = append(seeds, i)
		}
	}
	for _, i := range seeds {
		s.particles[i].IsSurface = true
		for _, j := range s.particles[i].FluidNeighbors {
			s.particles[j].IsSurface = true
		}
	}
	s.surfScratch = seeds[:0]
}
