package sim

import (
	"sort"

	"github.com/brumesim/brume/grid"
)

// resequence reorders the particle array along a Z-order curve so that
// spatially close particles stay close in memory. Storage order is the
// only thing that changes; physical state is untouched. It must run
// before any phase captures live indices for the step, since neighbor
// lists assume a fixed array order.
func (s *Simulation) resequence() {
	n := len(s.particles)
	type keyed struct {
		idx int
		key uint64
	}
	keys := make([]keyed, n)
	for i := range s.particles {
		ix, iy, iz := s.grid.Coord(s.particles[i].X)
		keys[i] = keyed{idx: i, key: grid.MortonKey(ix, iy, iz)}
	}
	sort.SliceStable(keys, func(a, b int) bool { return keys[a].key < keys[b].key })

	if cap(s.oldScratch) < n {
		s.oldScratch = make([]Particle, n)
	}
	old := s.oldScratch[:n]
	copy(old, s.particles)
	for i, k := range keys {
		s.particles[i] = old[k.idx]
	}
}
