package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/grid"
)

// rebuildGrid sizes the grid to the current particle and boundary
// extent padded by twice the smoothing radius and refills the cell
// buckets from scratch. Buckets are never patched incrementally.
func (s *Simulation) rebuildGrid() {
	lo, hi := s.bounds()
	pad := 2.0 * s.h
	origin := r3.Sub(lo, r3.Vec{X: pad, Y: pad, Z: pad})
	extent := r3.Add(r3.Sub(hi, lo), r3.Vec{X: 2 * pad, Y: 2 * pad, Z: 2 * pad})
	s.grid = grid.New(origin, extent, 2.0*s.h)

	size := s.grid.Size()
	s.fluidBuckets = resetBuckets(s.fluidBuckets, size)
	s.boundBuckets = resetBuckets(s.boundBuckets, size)

	// Positions outside the freshly computed box should not occur; if
	// one does, it is silently left out of every bucket.
	for i := range s.particles {
		if id := s.grid.CellID(s.particles[i].X); id >= 0 {
			s.fluidBuckets[id] = append(s.fluidBuckets[id], i)
		}
	}
	for i := range s.boundaries {
		if id := s.grid.CellID(s.boundaries[i].X); id >= 0 {
			s.boundBuckets[id] = append(s.boundBuckets[id], i)
		}
	}
}

// bounds returns the axis-aligned bounding box of all particles and
// boundaries.
func (s *Simulation) bounds() (lo, hi r3.Vec) {
	first := true
	expand := func(x r3.Vec) {
		if first {
			lo, hi = x, x
			first = false
			return
		}
		lo.X = min(lo.X, x.X)
		lo.Y = min(lo.Y, x.Y)
		lo.Z = min(lo.Z, x.Z)
		hi.X = max(hi.X, x.X)
		hi.Y = max(hi.Y, x.Y)
		hi.Z = max(hi.Z, x.Z)
	}
	for i := range s.particles {
		expand(s.particles[i].X)
	}
	for i := range s.boundaries {
		expand(s.boundaries[i].X)
	}
	return lo, hi
}

// resetBuckets truncates and clears bucket storage, growing it only
// when the grid outgrew the previous capacity.
func resetBuckets(buckets [][]int, size int) [][]int {
	if cap(buckets) < size {
		return make([][]int, size)
	}
	buckets = buckets[:size]
	for i := range buckets {
		buckets[i] = buckets[i][:0]
	}
	return buckets
}

// searchNeighbors fills particle i's fluid and boundary neighbor lists
// with every bucketed index within twice the smoothing radius. The two
// populations stay in separate lists because later phases weight them
// differently. The fluid list includes i itself; consumers that need
// i != j skip it.
func (s *Simulation) searchNeighbors(i, worker int) {
	p := &s.particles[i]
	radius := 2.0 * s.h
	r2 := radius * radius

	p.FluidNeighbors = p.FluidNeighbors[:0]
	p.BoundaryNeighbors = p.BoundaryNeighbors[:0]

	sc := &s.scratches[worker]
	sc.cells = s.grid.Neighborhood27(sc.cells[:0], p.X, radius)
	for _, c := range sc.cells {
		for _, j := range s.boundBuckets[c] {
			if r3.Norm2(r3.Sub(s.boundaries[j].X, p.X)) < r2 {
				p.BoundaryNeighbors = append(p.BoundaryNeighbors, j)
			}
		}
		for _, j := range s.fluidBuckets[c] {
			if r3.Norm2(r3.Sub(s.particles[j].X, p.X)) < r2 {
				p.FluidNeighbors = append(p.FluidNeighbors, j)
			}
		}
	}
}

// computeBoundaryPsi assigns each boundary sample its volume
// compensation weight: psi_j = rho0 / sum_k W(x_j - x_k) over the
// boundary neighborhood of j. Boundary samples carry no intrinsic
// mass; psi scales each so a locally complete neighborhood reproduces
// the rest density. Computed once at setup, valid until the boundary
// set changes.
func (s *Simulation) computeBoundaryPsi() {
	cells := make([]int, 0, 27)
	for i := range s.boundaries {
		b := &s.boundaries[i]
		sum := 0.0
		cells = s.grid.Neighborhood27(cells[:0], b.X, s.grid.Spacing())
		for _, c := range cells {
			for _, j := range s.boundBuckets[c] {
				sum += s.pk.W(r3.Sub(b.X, s.boundaries[j].X))
			}
		}
		if sum > 0 {
			b.Psi = s.rest / sum
		}
	}
}
