package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMonaghanSupport(t *testing.T) {
	k := NewMonaghan(0.1)

	tests := []struct {
		name string
		dist float64
		zero bool
	}{
		{"origin", 0, false},
		{"inner branch", 0.05, false},
		{"outer branch", 0.15, false},
		{"support edge", 0.2, true},
		{"outside", 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := k.W(r3.Vec{X: tt.dist})
			if tt.zero {
				assert.Zero(t, v)
			} else {
				assert.Positive(t, v)
			}
		})
	}
}

func TestMonaghanContinuity(t *testing.T) {
	k := NewMonaghan(1.0)

	// The spline branches must meet at q=1 and vanish at q=2.
	const eps = 1e-9
	below := k.W(r3.Vec{X: 1.0 - eps})
	above := k.W(r3.Vec{X: 1.0 + eps})
	assert.InDelta(t, below, above, 1e-6)
	assert.InDelta(t, 0, k.W(r3.Vec{X: 2.0 - eps}), 1e-6)
}

func TestMonaghanGradient(t *testing.T) {
	k := NewMonaghan(0.1)

	t.Run("zero separation yields zero vector", func(t *testing.T) {
		assert.Equal(t, r3.Vec{}, k.GradW(r3.Vec{}))
	})

	t.Run("antisymmetric", func(t *testing.T) {
		sep := r3.Vec{X: 0.03, Y: -0.02, Z: 0.05}
		g := k.GradW(sep)
		gn := k.GradW(r3.Scale(-1, sep))
		assert.InDelta(t, -g.X, gn.X, 1e-12)
		assert.InDelta(t, -g.Y, gn.Y, 1e-12)
		assert.InDelta(t, -g.Z, gn.Z, 1e-12)
	})

	t.Run("points down the profile slope", func(t *testing.T) {
		// W decreases with distance over the outer branch, so the
		// gradient must point back toward the origin.
		sep := r3.Vec{X: 0.15}
		g := k.GradW(sep)
		assert.Negative(t, g.X)
		assert.Zero(t, g.Y)
	})

	t.Run("matches finite differences", func(t *testing.T) {
		const step = 1e-7
		for _, dist := range []float64{0.04, 0.09, 0.13, 0.19} {
			want := (k.W(r3.Vec{X: dist + step}) - k.W(r3.Vec{X: dist - step})) / (2 * step)
			got := k.GradW(r3.Vec{X: dist}).X
			assert.InDelta(t, want, got, math.Abs(want)*1e-4+1e-6, "dist=%g", dist)
		}
	})
}

func TestAkinciCohesion(t *testing.T) {
	k := NewAkinci(0.2)

	assert.Zero(t, k.Cohesion(0), "self pair carries no cohesion")
	assert.Zero(t, k.Cohesion(0.3), "outside support")
	assert.Positive(t, k.Cohesion(0.15), "outer branch attracts")

	// The two branches meet at r = h/2.
	const eps = 1e-9
	assert.InDelta(t, k.Cohesion(0.1-eps), k.Cohesion(0.1+eps), 1e-3)
}

func TestAkinciAdhesion(t *testing.T) {
	k := NewAkinci(0.2)

	assert.Zero(t, k.Adhesion(0.05), "inner half has no adhesion")
	assert.Zero(t, k.Adhesion(0.25), "outside support")
	assert.Positive(t, k.Adhesion(0.15))
	assert.InDelta(t, 0, k.Adhesion(0.2), 1e-6, "vanishes at support edge")
}

func TestBoundaryGamma(t *testing.T) {
	k := NewBoundary(0.05, 14.0)

	assert.Zero(t, k.Gamma(0), "zero distance is guarded")
	assert.Zero(t, k.Gamma(0.2), "outside support")

	// The profile is non-increasing in r over its support.
	prev := math.Inf(1)
	for _, r := range []float64{0.01, 0.02, 0.03, 0.05, 0.07, 0.09} {
		v := k.Gamma(r)
		assert.LessOrEqual(t, v, prev, "r=%g", r)
		prev = v
	}
}
