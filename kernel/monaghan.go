// Package kernel provides the compactly supported radial weighting
// functions used to interpolate field quantities between particles.
// All kernels are stateless; normalization constants are precomputed at
// construction.
package kernel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// distEps guards gradients and direction vectors against zero-length
// separations.
const distEps = 1e-10

// Monaghan is the cubic spline kernel of Monaghan (1992) with compact
// support [0, 2h].
type Monaghan struct {
	H    float64
	invH float64
	cv   float64 // value normalization, 1/(4*pi*h^3)
	cg   float64 // gradient normalization, 1/(4*pi*h^4)
}

// NewMonaghan returns a cubic spline kernel with smoothing radius h.
func NewMonaghan(h float64) Monaghan {
	return Monaghan{
		H:    h,
		invH: 1.0 / h,
		cv:   1.0 / (4.0 * math.Pi * h * h * h),
		cg:   1.0 / (4.0 * math.Pi * h * h * h * h),
	}
}

// W evaluates the kernel for the separation vector sep.
func (k Monaghan) W(sep r3.Vec) float64 {
	q := r3.Norm(sep) * k.invH
	switch {
	case q < 1.0:
		return k.cv * ((2.0-q)*(2.0-q)*(2.0-q) - 4.0*(1.0-q)*(1.0-q)*(1.0-q))
	case q < 2.0:
		return k.cv * (2.0 - q) * (2.0 - q) * (2.0 - q)
	default:
		return 0.0
	}
}

// GradW evaluates the kernel gradient for the separation vector sep.
// The gradient of a radial profile is undefined at the origin; a
// zero-length separation yields the zero vector.
func (k Monaghan) GradW(sep r3.Vec) r3.Vec {
	dist := r3.Norm(sep)
	if dist < distEps {
		return r3.Vec{}
	}
	q := dist * k.invH
	var scal float64
	switch {
	case q < 1.0:
		scal = -3.0*(2.0-q)*(2.0-q) + 12.0*(1.0-q)*(1.0-q)
	case q < 2.0:
		scal = -3.0 * (2.0 - q) * (2.0 - q)
	default:
		return r3.Vec{}
	}
	return r3.Scale(k.cg*scal/dist, sep)
}
