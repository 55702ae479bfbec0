package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/config"
)

func TestOutputDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	require.Nil(t, om)

	// Nil receivers are no-ops, not panics.
	assert.NoError(t, om.WriteStats(StepStats{}))
	assert.NoError(t, om.WriteSnapshot(0, Snapshot{}))
	assert.NoError(t, om.WriteConfig(nil))
	assert.Equal(t, "", om.Dir())
	assert.NoError(t, om.Close())
}

func TestWriteStatsHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	require.NoError(t, err)
	defer om.Close()

	require.NoError(t, om.WriteStats(StepStats{Step: 1, Time: 0.002, Particles: 10}))
	require.NoError(t, om.WriteStats(StepStats{Step: 2, Time: 0.004, Particles: 10}))
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus two records")
	assert.Contains(t, lines[0], "step")
	assert.Contains(t, lines[0], "mean_density")
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,"))
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	require.NoError(t, err)
	defer om.Close()

	snap := Snapshot{
		Positions:  []r3.Vec{{X: 1}, {X: 2}, {X: 3}},
		Velocities: []r3.Vec{{Y: 1}, {Y: 2}, {Y: 3}},
		Densities:  []float64{1000, 1001, 999},
		Masses:     []float64{0.5},
	}
	require.NoError(t, om.WriteSnapshot(7, snap))

	data, err := os.ReadFile(filepath.Join(dir, "state_00007.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4, "header plus three particles")
	assert.Contains(t, lines[0], "density")
	// Uniform mass repeats from the short slice.
	assert.Contains(t, lines[3], "0.5")
}

func TestWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	require.NoError(t, err)
	defer om.Close()

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, om.WriteConfig(cfg))

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
}
