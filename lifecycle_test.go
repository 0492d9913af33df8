package ridesim

import (
	"sync"
	"testing"
	"time"
)

func TestShutdownSequence_Order(t *testing.T) {
	var steps []string
	record := func(s string) func() { return func() { steps = append(steps, s) } }

	base := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	var deadlines []time.Time
	deadline := func(s string) func(time.Time) {
		return func(d time.Time) {
			steps = append(steps, s)
			deadlines = append(deadlines, d)
		}
	}

	seq := &shutdownSequence{
		grace:         2 * time.Second,
		stopIntake:    record("stopIntake"),
		drainQueue:    deadline("drainQueue"),
		sendSentinels: deadline("sendSentinels"),
		awaitInactive: deadline("awaitInactive"),
		stopWorkers:   record("stopWorkers"),
		reap:          record("reap"),
		finalize:      record("finalize"),
		now:           func() time.Time { return base },
	}
	seq.run()

	want := []string{
		"stopIntake", "drainQueue", "sendSentinels", "awaitInactive", "stopWorkers", "reap", "finalize",
	}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("step %d: got %q, want %q (all: %v)", i+1, steps[i], want[i], steps)
		}
	}
	for i, d := range deadlines {
		if !d.Equal(base.Add(2 * time.Second)) {
			t.Fatalf("deadline %d = %v, want one grace period after start", i+1, d)
		}
	}
}

func TestShutdownSequence_OptionalStepsSkipped(t *testing.T) {
	var steps []string
	seq := &shutdownSequence{
		grace:      time.Second,
		stopIntake: func() { steps = append(steps, "stopIntake") },
		reap:       func() { steps = append(steps, "reap") },
	}
	seq.run()

	if len(steps) != 2 || steps[0] != "stopIntake" || steps[1] != "reap" {
		t.Fatalf("steps = %v, want [stopIntake reap]", steps)
	}
}

func TestShutdownSequence_Idempotent_ConcurrentRun(t *testing.T) {
	var (
		mu     sync.Mutex
		counts = map[string]int{}
	)
	inc := func(s string) {
		mu.Lock()
		counts[s]++
		mu.Unlock()
	}

	seq := &shutdownSequence{
		grace:         time.Millisecond,
		stopIntake:    func() { inc("stopIntake") },
		sendSentinels: func(time.Time) { inc("sendSentinels") },
		awaitInactive: func(time.Time) { inc("awaitInactive") },
		stopWorkers:   func() { inc("stopWorkers") },
		reap:          func() { inc("reap") },
		finalize:      func() { inc("finalize") },
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); seq.run() }()
	}
	wg.Wait()

	for _, s := range []string{"stopIntake", "sendSentinels", "awaitInactive", "stopWorkers", "reap", "finalize"} {
		if counts[s] != 1 {
			t.Fatalf("expected step %q exactly once, got %d", s, counts[s])
		}
	}
}
