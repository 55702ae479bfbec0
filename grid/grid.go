// Package grid provides the uniform-cell spatial index the neighbor
// search runs on, and the Morton keys used to resequence particles for
// memory locality.
package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid maps world positions to flattened cell ids over an axis-aligned
// box. It carries no particle data; callers bucket their own indices by
// cell id and rebuild the buckets whenever the grid is resized.
type Grid struct {
	origin     r3.Vec
	spacing    float64
	nx, ny, nz int
}

// New creates a grid over the box [origin, origin+extent] with the given
// cell edge length. Cells are open on their upper faces; a point exactly
// on the box maximum still lands in the last cell.
func New(origin, extent r3.Vec, spacing float64) Grid {
	return Grid{
		origin:  origin,
		spacing: spacing,
		nx:      int(math.Floor(extent.X/spacing)) + 1,
		ny:      int(math.Floor(extent.Y/spacing)) + 1,
		nz:      int(math.Floor(extent.Z/spacing)) + 1,
	}
}

// Size returns the total cell count.
func (g Grid) Size() int { return g.nx * g.ny * g.nz }

// Spacing returns the cell edge length.
func (g Grid) Spacing() float64 { return g.spacing }

// Dims returns the cell counts along each axis.
func (g Grid) Dims() (nx, ny, nz int) { return g.nx, g.ny, g.nz }

// Coord returns the integer cell coordinate of a world position. The
// result may lie outside the grid for positions outside the box.
func (g Grid) Coord(p r3.Vec) (ix, iy, iz int) {
	ix = int(math.Floor((p.X - g.origin.X) / g.spacing))
	iy = int(math.Floor((p.Y - g.origin.Y) / g.spacing))
	iz = int(math.Floor((p.Z - g.origin.Z) / g.spacing))
	return ix, iy, iz
}

// contains reports whether the cell coordinate lies inside the grid.
func (g Grid) contains(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.nx && iy >= 0 && iy < g.ny && iz >= 0 && iz < g.nz
}

// flatten maps a cell coordinate to its flattened id.
func (g Grid) flatten(ix, iy, iz int) int {
	return ix + iy*g.nx + iz*g.nx*g.ny
}

// CellID returns the flattened cell id for a world position, or -1 when
// the position lies outside the grid.
func (g Grid) CellID(p r3.Vec) int {
	ix, iy, iz := g.Coord(p)
	if !g.contains(ix, iy, iz) {
		return -1
	}
	return g.flatten(ix, iy, iz)
}

// Neighborhood27 appends to dst the ids of the block of cells guaranteed
// to cover every point within radius of p, clipped to the grid extents,
// and returns the extended slice. With radius equal to the cell edge the
// block is the usual 3x3x3 neighborhood.
func (g Grid) Neighborhood27(dst []int, p r3.Vec, radius float64) []int {
	span := int(math.Ceil(radius / g.spacing))
	cx, cy, cz := g.Coord(p)
	for iz := cz - span; iz <= cz+span; iz++ {
		for iy := cy - span; iy <= cy+span; iy++ {
			for ix := cx - span; ix <= cx+span; ix++ {
				if g.contains(ix, iy, iz) {
					dst = append(dst, g.flatten(ix, iy, iz))
				}
			}
		}
	}
	return dst
}
