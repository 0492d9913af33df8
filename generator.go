package ridesim

import (
	"math/rand/v2"
	"time"
)

// Generator supplies the random inputs of a simulation.
// The coordinator calls it from a single goroutine; implementations need not be safe for concurrent use.
type Generator interface {
	// Position returns the start position of a newly spawned worker.
	Position() Point
	// Ride returns the next ride request.
	Ride() Task
	// Interval returns the pause before the next ride is generated.
	Interval() time.Duration
}

type randomGenerator struct {
	rnd    *rand.Rand
	bound  int
	lo, hi time.Duration
}

// NewRandomGenerator returns a Generator producing uniformly distributed points in
// [-bound, bound]^2 and intervals in [lo, hi]. The same seed yields the same sequence.
func NewRandomGenerator(seed uint64, bound int, lo, hi time.Duration) Generator {
	return &randomGenerator{
		rnd:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		bound: bound,
		lo:    lo,
		hi:    hi,
	}
}

func (g *randomGenerator) point() Point {
	span := 2*g.bound + 1
	return Point{X: g.rnd.IntN(span) - g.bound, Y: g.rnd.IntN(span) - g.bound}
}

func (g *randomGenerator) Position() Point { return g.point() }

func (g *randomGenerator) Ride() Task { return NewTask(g.point(), g.point()) }

func (g *randomGenerator) Interval() time.Duration {
	if g.hi <= g.lo {
		return g.lo
	}
	return g.lo + time.Duration(g.rnd.Int64N(int64(g.hi-g.lo)+1))
}
