package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/config"
)

func wcsphConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Solver.Scheme = config.SchemeWCSPH
	cfg.Solver.EOSExponent = 7.0
	return cfg
}

func TestEOSPressure(t *testing.T) {
	cfg := wcsphConfig(t)
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()
	s.AddParticles([]r3.Vec{{}, {}, {}}, r3.Vec{})

	tests := []struct {
		name     string
		rho      float64
		positive bool
	}{
		{"at rest", s.rest, false},
		{"compressed", 1.01 * s.rest, true},
		{"stretched", 0.9 * s.rest, false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.particles[i].Rho = tt.rho
			s.computeEOSPressure(i)
			p := s.particles[i].P
			if tt.positive {
				assert.Greater(t, p, 0.0)
			} else {
				assert.Equal(t, 0.0, p)
			}
			assert.Equal(t, s.particles[i].Rho, s.particles[i].RhoCorr)
		})
	}
}

func TestEOSPressureGrowsWithCompression(t *testing.T) {
	cfg := wcsphConfig(t)
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()
	s.AddParticles([]r3.Vec{{}}, r3.Vec{})

	prev := 0.0
	for _, f := range []float64{1.005, 1.01, 1.02, 1.05} {
		s.particles[0].Rho = f * s.rest
		s.computeEOSPressure(0)
		require.Greater(t, s.particles[0].P, prev, "pressure not monotone at %g", f)
		prev = s.particles[0].P
	}
}

// The weakly compressible step runs exactly one pressure pass and a
// resting lattice survives it.
func TestWCSPHStep(t *testing.T) {
	cfg := wcsphConfig(t)
	s := newTestSim(t, cfg, lattice(4, 0.1))

	for step := 0; step < 10; step++ {
		report := s.Step()
		assert.Equal(t, 1, report.Iterations)
		assert.True(t, report.Converged)
	}
	for _, x := range s.Positions() {
		requireFinite(t, x, "position")
	}
}
