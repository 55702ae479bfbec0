package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestJetSourceEmitsOnPeriod(t *testing.T) {
	jet := &JetSource{
		Center:   r3.Vec{Y: 1.0},
		Radius:   0.15,
		Spacing:  0.05,
		Velocity: r3.Vec{Y: -2.0},
		Period:   0.1,
		Start:    0.05,
	}

	assert.Empty(t, jet.Apply(0.0), "before the start time")

	first := jet.Apply(0.05)
	require.NotEmpty(t, first)
	for _, p := range first {
		assert.Equal(t, jet.Velocity, p.V)
		assert.Equal(t, jet.Velocity, p.Vadv)
		assert.InDelta(t, 1.0, p.X.Y, 1e-12)
	}

	assert.Empty(t, jet.Apply(0.1), "mid period")
	assert.NotEmpty(t, jet.Apply(0.15), "next period boundary")
}

func TestSourceParticlesJoinSimulation(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSim(t, cfg, lattice(3, 0.1))
	before := s.ParticleCount()

	s.AddSource(&JetSource{
		Center:   r3.Vec{Y: 0.4},
		Radius:   0.1,
		Spacing:  0.05,
		Velocity: r3.Vec{Y: -1.0},
		Period:   1.0,
	})
	s.AddSink(NoopSink{})

	s.Step()
	require.Greater(t, s.ParticleCount(), before, "first step emits a slab")

	// Injected particles start at rest density, keeping statistics
	// finite before their first density evaluation.
	for i := range s.particles {
		require.Greater(t, s.particles[i].Rho, 0.0)
	}

	after := s.ParticleCount()
	s.Step()
	assert.Equal(t, after, s.ParticleCount(), "period not yet elapsed")
}
