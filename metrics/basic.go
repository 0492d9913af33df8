package metrics

import (
	"sync"
	"sync/atomic"
)

// BasicProvider keeps instruments in memory, keyed by name.
// Counters and up/down counters share one value type; a name refers to one
// instrument regardless of the constructor used to fetch it.
type BasicProvider struct {
	mu         sync.Mutex
	values     map[string]*BasicValue
	histograms map[string]*BasicHistogram
}

func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		values:     make(map[string]*BasicValue),
		histograms: make(map[string]*BasicHistogram),
	}
}

func (p *BasicProvider) Counter(name string) Counter { return p.value(name) }

func (p *BasicProvider) UpDownCounter(name string) UpDownCounter { return p.value(name) }

func (p *BasicProvider) Histogram(name string) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		h = &BasicHistogram{}
		p.histograms[name] = h
	}
	return h
}

func (p *BasicProvider) value(name string) *BasicValue {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	if !ok {
		v = &BasicValue{}
		p.values[name] = v
	}
	return v
}

// Value returns the current value of a counter, or 0 if it was never created.
func (p *BasicProvider) Value(name string) int64 {
	p.mu.Lock()
	v, ok := p.values[name]
	p.mu.Unlock()
	if !ok {
		return 0
	}
	return v.Load()
}

// Distribution returns a snapshot of a histogram, or the zero snapshot if it was never created.
func (p *BasicProvider) Distribution(name string) HistSnapshot {
	p.mu.Lock()
	h, ok := p.histograms[name]
	p.mu.Unlock()
	if !ok {
		return HistSnapshot{}
	}
	return h.Snapshot()
}

// BasicValue is a concurrency-safe integer used for counters and up/down counters.
type BasicValue struct {
	v atomic.Int64
}

func (b *BasicValue) Add(n int64) { b.v.Add(n) }

func (b *BasicValue) Load() int64 { return b.v.Load() }

// BasicHistogram tracks count, sum, min and max. No buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &h.snap
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
	s.Sum += v
	s.Mean = s.Sum / float64(s.Count)
}

// Snapshot returns a copy of the current state.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}

// HistSnapshot is an immutable view of a histogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}
