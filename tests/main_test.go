package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/ridesim"
)

// instant drives every ride without delay.
func instant(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// requireConsistent checks the accounting every finished simulation must satisfy.
func requireConsistent(t *testing.T, drivers int, s ridesim.Summary) {
	t.Helper()

	require.Len(t, s.Workers, drivers)
	require.Equal(t, s.Accepted, s.Completed+s.Abandoned+s.Interrupted,
		"every accepted ride is completed, abandoned or interrupted")
	require.Equal(t, drivers, s.SentinelsSent+s.Lost, "one sentinel per surviving worker")

	rides, distance, lost := 0, 0, 0
	for _, w := range s.Workers {
		rides += w.Rides
		distance += w.Distance
		if w.Lost {
			lost++
		}
	}
	require.Equal(t, s.Completed, rides)
	require.Equal(t, s.TotalDistance, distance)
	require.Equal(t, s.Lost, lost)
}

func run(t *testing.T, opts ...ridesim.Option) ridesim.Summary {
	t.Helper()

	c, err := ridesim.New(opts...)
	require.NoError(t, err)

	done := make(chan struct{})
	var (
		s      ridesim.Summary
		runErr error
	)
	go func() {
		defer close(done)
		s, runErr = c.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("simulation did not finish in time")
	}
	require.NoError(t, runErr)
	require.False(t, c.Running())
	return s
}
