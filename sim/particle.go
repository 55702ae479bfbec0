// Package sim implements the particle-based fluid pipeline: neighbor
// search over a uniform grid, per-particle density and force
// evaluation, and the pressure solve that keeps the fluid near its rest
// density.
package sim

import "gonum.org/v1/gonum/spatial/r3"

// Particle is one fluid sample. Neighbor lists hold indices into the
// owning simulation's particle and boundary arrays; they are valid only
// for the step in which they were built, and any resize or reorder of
// the arrays invalidates them until the next rebuild.
type Particle struct {
	X r3.Vec // position
	V r3.Vec // velocity

	Vadv    r3.Vec  // velocity advanced by the advection forces only
	Rho     float64 // density
	RhoAdv  float64 // density extrapolated along the advected velocities
	RhoCorr float64 // density after the pressure correction estimate

	P   float64 // pressure
	Pl  float64 // prior-iteration pressure estimate
	Aii float64 // diagonal pressure coefficient

	DiiFluid    r3.Vec // self pressure response from fluid neighbors
	DiiBoundary r3.Vec // self pressure response from boundary neighbors
	SumDij      r3.Vec // off-diagonal pressure response accumulator

	Fadv r3.Vec // advection force: gravity, viscosity, tension, boundary
	Fp   r3.Vec // pressure force

	N         r3.Vec // smoothed surface normal, scaled by h
	IsSurface bool

	FluidNeighbors    []int
	BoundaryNeighbors []int

	pNext float64 // staged pressure, committed after each relaxation pass
}

// Boundary is one static boundary sample. Boundaries never move except
// by bulk translation; Psi compensates for the missing intrinsic mass
// of boundary samples and is computed once at Init.
type Boundary struct {
	X   r3.Vec  // position
	V   r3.Vec  // quasi-static velocity, zero for resting walls
	Psi float64 // volume-compensation weight
}
