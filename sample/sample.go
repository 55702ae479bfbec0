// Package sample generates seed positions for common shapes. The
// simulation core consumes only position lists; these generators are
// collaborators of the physics pipeline, not part of it.
package sample

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoxLattice fills the box [offset, offset+size] with a regular lattice
// of the given spacing.
func BoxLattice(offset, size r3.Vec, spacing float64) []r3.Vec {
	nx := int(math.Floor(size.X / spacing))
	ny := int(math.Floor(size.Y / spacing))
	nz := int(math.Floor(size.Z / spacing))

	out := make([]r3.Vec, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				out = append(out, r3.Vec{
					X: offset.X + float64(i)*spacing,
					Y: offset.Y + float64(j)*spacing,
					Z: offset.Z + float64(k)*spacing,
				})
			}
		}
	}
	return out
}

// BoxShell samples the six faces of the box [offset, offset+size],
// producing a hollow container.
func BoxShell(offset, size r3.Vec, spacing float64) []r3.Vec {
	nx := int(math.Floor(size.X / spacing))
	ny := int(math.Floor(size.Y / spacing))
	nz := int(math.Floor(size.Z / spacing))

	var out []r3.Vec

	// ZX planes, bottom and top
	for i := 0; i <= nx; i++ {
		for k := 0; k <= nz; k++ {
			x := offset.X + float64(i)*spacing
			z := offset.Z + float64(k)*spacing
			out = append(out,
				r3.Vec{X: x, Y: offset.Y, Z: z},
				r3.Vec{X: x, Y: offset.Y + size.Y, Z: z})
		}
	}
	// XY planes, back and front; skip the edges shared with the ZX planes
	for i := 0; i <= nx; i++ {
		for j := 1; j < ny; j++ {
			x := offset.X + float64(i)*spacing
			y := offset.Y + float64(j)*spacing
			out = append(out,
				r3.Vec{X: x, Y: y, Z: offset.Z},
				r3.Vec{X: x, Y: y, Z: offset.Z + size.Z})
		}
	}
	// YZ planes, left and right; skip both shared edge families
	for j := 1; j < ny; j++ {
		for k := 1; k < nz; k++ {
			y := offset.Y + float64(j)*spacing
			z := offset.Z + float64(k)*spacing
			out = append(out,
				r3.Vec{X: offset.X, Y: y, Z: z},
				r3.Vec{X: offset.X + size.X, Y: y, Z: z})
		}
	}
	return out
}

// SphereVolume fills a sphere with lattice points of the given spacing.
func SphereVolume(center r3.Vec, radius, spacing float64) []r3.Vec {
	corner := r3.Sub(center, r3.Vec{X: radius, Y: radius, Z: radius})
	side := 2 * radius
	half := spacing / 2

	var out []r3.Vec
	for _, p := range BoxLattice(corner, r3.Vec{X: side, Y: side, Z: side}, spacing) {
		// Center each lattice cell before the radius test.
		p = r3.Add(p, r3.Vec{X: half, Y: half, Z: half})
		if r3.Norm2(r3.Sub(p, center)) <= radius*radius {
			out = append(out, p)
		}
	}
	return out
}

// Disk samples a filled disk in the XZ plane.
func Disk(center r3.Vec, radius, spacing float64) []r3.Vec {
	n := int(math.Floor(2 * radius / spacing))
	var out []r3.Vec
	for i := 0; i <= n; i++ {
		for k := 0; k <= n; k++ {
			p := r3.Vec{
				X: center.X - radius + float64(i)*spacing,
				Y: center.Y,
				Z: center.Z - radius + float64(k)*spacing,
			}
			dx := p.X - center.X
			dz := p.Z - center.Z
			if dx*dx+dz*dz <= radius*radius {
				out = append(out, p)
			}
		}
	}
	return out
}

// Cylinder samples a filled upright cylinder as stacked disks.
func Cylinder(center r3.Vec, radius, height, spacing float64) []r3.Vec {
	layers := int(math.Floor(height / spacing))
	base := center.Y - height/2

	var out []r3.Vec
	for l := 0; l <= layers; l++ {
		c := r3.Vec{X: center.X, Y: base + float64(l)*spacing, Z: center.Z}
		out = append(out, Disk(c, radius, spacing)...)
	}
	return out
}
