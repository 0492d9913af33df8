package ridesim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_Bounds(t *testing.T) {
	const bound = 1000
	lo, hi := 500*time.Millisecond, 2*time.Second
	g := NewRandomGenerator(1, bound, lo, hi)

	for range 10_000 {
		ride := g.Ride()
		require.False(t, ride.IsStop())
		require.True(t, ride.Within(bound), "ride %s out of bounds", ride)

		p := g.Position()
		require.True(t, within(p, bound), "position %s out of bounds", p)

		d := g.Interval()
		require.GreaterOrEqual(t, d, lo)
		require.LessOrEqual(t, d, hi)
	}
}

func TestRandomGenerator_SameSeedSameSequence(t *testing.T) {
	a := NewRandomGenerator(7, 100, 0, time.Second)
	b := NewRandomGenerator(7, 100, 0, time.Second)
	for range 100 {
		require.Equal(t, a.Ride(), b.Ride())
		require.Equal(t, a.Interval(), b.Interval())
	}
}

func TestRandomGenerator_FixedInterval(t *testing.T) {
	g := NewRandomGenerator(3, 10, time.Millisecond, time.Millisecond)
	require.Equal(t, time.Millisecond, g.Interval())
}
