package ridesim

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTryReceive_Outcomes(t *testing.T) {
	ch := make(chan Result, 1)

	_, status := TryReceive(ch)
	require.Equal(t, RecvEmpty, status)

	ch <- Result{WorkerID: 1, Distance: 5}
	r, status := TryReceive(ch)
	require.Equal(t, RecvReceived, status)
	require.Equal(t, 5, r.Distance)

	close(ch)
	_, status = TryReceive(ch)
	require.Equal(t, RecvClosed, status)
}

func TestCollector_PollFIFOAndPositions(t *testing.T) {
	c := NewCollector(nil, nil)
	ch1 := make(chan Result, 4)
	ch2 := make(chan Result, 4)
	rec1 := c.Track(1, Point{0, 0}, ch1)
	rec2 := c.Track(2, Point{5, 5}, ch2)

	require.Empty(t, c.Poll())

	ch1 <- Result{WorkerID: 1, Distance: 13, Task: NewTask(Point{3, 4}, Point{3, 10})}
	ch1 <- Result{WorkerID: 1, Distance: 3, Task: NewTask(Point{3, 10}, Point{0, 10})}
	ch2 <- Result{WorkerID: 2, Distance: 2, Task: NewTask(Point{5, 6}, Point{5, 7})}

	got := c.Poll()
	require.Len(t, got, 3)
	require.Equal(t, []int{13, 3}, []int{got[0].Distance, got[1].Distance}, "per-worker FIFO")

	require.Equal(t, Point{0, 10}, rec1.Position)
	require.Equal(t, 2, rec1.Rides)
	require.Equal(t, 16, rec1.Distance)
	require.Equal(t, Point{5, 7}, rec2.Position)
	require.True(t, rec1.Active)
	require.True(t, rec2.Active)
	require.Equal(t, 2, c.ActiveCount())
}

func TestCollector_ClosedChannelIsTerminal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var calls []int
	c := NewCollector(zap.New(core), func(rec *WorkerRecord) { calls = append(calls, rec.ID) })

	crashed := make(chan Result, 2)
	alive := make(chan Result, 2)
	recCrashed := c.Track(1, Point{}, crashed)
	recAlive := c.Track(2, Point{}, alive)

	// results published before the crash are still delivered
	crashed <- Result{WorkerID: 1, Distance: 4, Task: NewTask(Point{}, Point{2, 2})}
	close(crashed)

	got := c.Poll()
	require.Len(t, got, 1)
	require.False(t, recCrashed.Active)
	require.True(t, recCrashed.Lost, "closed before any sentinel was sent")
	require.True(t, recAlive.Active)
	require.Equal(t, []int{1}, calls)
	require.Equal(t, 1, logs.FilterMessage("worker lost").Len())

	// never polled again: the callback and the diagnostic fire exactly once
	for range 3 {
		require.Empty(t, c.Poll())
	}
	require.Equal(t, []int{1}, calls)
	require.Equal(t, 1, logs.FilterMessage("worker lost").Len())

	require.Equal(t, 1, c.ActiveCount())
	require.Equal(t, []*WorkerRecord{recAlive}, c.Active())
	require.Len(t, c.Records(), 2)
}

func TestCollector_ExitAfterSentinelIsNotLost(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := NewCollector(zap.New(core), nil)

	ch := make(chan Result)
	rec := c.Track(3, Point{}, ch)
	rec.StopSent = true
	close(ch)

	c.Poll()
	require.False(t, rec.Active)
	require.False(t, rec.Lost)
	require.Equal(t, 1, logs.FilterMessage("worker exited").Len())
	require.Zero(t, logs.FilterMessage("worker lost").Len())
}

func TestCollector_Deliver(t *testing.T) {
	c := NewCollector(nil, nil)
	rec := c.Track(4, Point{}, make(chan Result))

	require.True(t, c.Deliver(Result{WorkerID: 4, Distance: 6, Task: NewTask(Point{1, 1}, Point{3, 3})}))
	require.Equal(t, 1, rec.Rides)
	require.Equal(t, 6, rec.Distance)
	require.Equal(t, Point{3, 3}, rec.Position)

	require.False(t, c.Deliver(Result{WorkerID: 9}))
}
