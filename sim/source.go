package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/brumesim/brume/sample"
)

// Source emits particles into the simulation. Apply is called once per
// step after integration with the current simulated time and returns
// the particles to append, possibly none.
type Source interface {
	Apply(now float64) []Particle
}

// Sink selects particles for removal. Apply returns the indices to
// drop, valid for the array order at the time of the call.
type Sink interface {
	Apply(now float64) []int
}

// NoopSink removes nothing.
type NoopSink struct{}

// Apply implements Sink.
func (NoopSink) Apply(float64) []int { return nil }

// JetSource emits a disk of particles at a fixed position and velocity
// on a fixed period, forming a continuous jet when the period matches
// the time the previous slab needs to clear the emission plane.
type JetSource struct {
	Center   r3.Vec
	Radius   float64
	Spacing  float64
	Velocity r3.Vec
	Period   float64
	Start    float64

	next    float64
	started bool
}

// Apply implements Source.
func (j *JetSource) Apply(now float64) []Particle {
	if !j.started {
		j.next = j.Start
		j.started = true
	}
	if now < j.next {
		return nil
	}
	j.next += j.Period

	positions := sample.Disk(j.Center, j.Radius, j.Spacing)
	out := make([]Particle, len(positions))
	for i, x := range positions {
		out[i] = Particle{X: x, V: j.Velocity, Vadv: j.Velocity}
	}
	return out
}
