package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicProvider_SameNameSameInstrument(t *testing.T) {
	p := NewBasicProvider()

	p.Counter(TasksAccepted).Add(2)
	p.Counter(TasksAccepted).Add(3)
	require.Equal(t, int64(5), p.Value(TasksAccepted))

	// up/down counters share the value namespace
	p.UpDownCounter(WorkersActive).Add(4)
	p.UpDownCounter(WorkersActive).Add(-1)
	require.Equal(t, int64(3), p.Value(WorkersActive))

	require.Zero(t, p.Value("never_created"))
}

func TestBasicProvider_ConcurrentCounters(t *testing.T) {
	p := NewBasicProvider()

	const goroutines, perG = 16, 1000
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			c := p.Counter(TasksCompleted)
			for range perG {
				c.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(goroutines*perG), p.Value(TasksCompleted))
}

func TestBasicHistogram_Snapshot(t *testing.T) {
	p := NewBasicProvider()
	require.Equal(t, HistSnapshot{}, p.Distribution(RideDistance))

	h := p.Histogram(RideDistance)
	for _, v := range []float64{13, 7, 40} {
		h.Record(v)
	}

	s := p.Distribution(RideDistance)
	require.Equal(t, int64(3), s.Count)
	require.InDelta(t, 60.0, s.Sum, 1e-9)
	require.InDelta(t, 7.0, s.Min, 1e-9)
	require.InDelta(t, 40.0, s.Max, 1e-9)
	require.InDelta(t, 20.0, s.Mean, 1e-9)
}

func TestNoopProvider_Discards(t *testing.T) {
	var p Provider = NewNoopProvider()
	require.NotPanics(t, func() {
		p.Counter(TasksRejected).Add(1)
		p.UpDownCounter(WorkersActive).Add(-1)
		p.Histogram(RideDistance).Record(1.5)
	})
}
