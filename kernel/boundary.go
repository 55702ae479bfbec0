package kernel

// Boundary is the direct-forcing boundary profile of Monaghan and
// Kajtar (2009), parameterized by the boundary smoothing radius and the
// speed of sound. Retained for the weakly compressible boundary-pressure
// formulation.
type Boundary struct {
	H  float64
	Cs float64
}

// NewBoundary returns the legacy boundary kernel.
func NewBoundary(h, cs float64) Boundary {
	return Boundary{H: h, Cs: cs}
}

// Gamma evaluates the repulsive profile at distance r.
func (k Boundary) Gamma(r float64) float64 {
	if r < distEps {
		return 0.0
	}
	q := r / k.H
	coeff := 0.02 * k.Cs * k.Cs / r
	switch {
	case q < 2.0/3.0:
		return coeff * 2.0 / 3.0
	case q < 1.0:
		return coeff * (2.0*q - 1.5*q*q)
	case q < 2.0:
		return coeff * 0.5 * (2.0 - q) * (2.0 - q)
	default:
		return 0.0
	}
}
