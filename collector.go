package ridesim

import (
	"go.uber.org/zap"
)

// RecvStatus is the outcome of a non-blocking receive on a reply channel.
type RecvStatus uint8

const (
	// RecvReceived means a Result was taken from the channel.
	RecvReceived RecvStatus = iota
	// RecvEmpty means nothing is ready yet; retry later.
	RecvEmpty
	// RecvClosed means the worker is gone; never retry.
	RecvClosed
)

func (s RecvStatus) String() string {
	switch s {
	case RecvReceived:
		return "received"
	case RecvEmpty:
		return "empty"
	case RecvClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// TryReceive attempts a non-blocking receive on ch.
func TryReceive(ch <-chan Result) (Result, RecvStatus) {
	select {
	case r, ok := <-ch:
		if !ok {
			return Result{}, RecvClosed
		}
		return r, RecvReceived
	default:
		return Result{}, RecvEmpty
	}
}

// WorkerRecord is the coordinator's view of one worker.
type WorkerRecord struct {
	ID       int
	Position Point

	// Active turns false exactly once, when the reply channel is found closed.
	Active bool
	// StopSent is set once a sentinel was enqueued for this worker.
	StopSent bool
	// Lost is set when the worker went away before a sentinel was sent to it.
	Lost bool

	Rides    int
	Distance int

	replies <-chan Result
}

// Collector polls every active worker's private reply channel without blocking
// and tracks which workers are still alive.
// It is not safe for concurrent use; the coordinator drives it from its own goroutine.
type Collector struct {
	records    []*WorkerRecord
	onInactive func(*WorkerRecord)
	logger     *zap.Logger
}

// NewCollector creates an empty collector. onInactive, if not nil, is called
// once for every worker found gone.
func NewCollector(logger *zap.Logger, onInactive func(*WorkerRecord)) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{onInactive: onInactive, logger: logger}
}

// Track registers a worker and returns its record.
func (c *Collector) Track(id int, start Point, replies <-chan Result) *WorkerRecord {
	rec := &WorkerRecord{ID: id, Position: start, Active: true, replies: replies}
	c.records = append(c.records, rec)
	return rec
}

// Poll drains whatever is ready on every active worker's reply channel and returns
// the results in per-worker FIFO order. Workers whose channel is closed are marked
// inactive and never polled again.
func (c *Collector) Poll() []Result {
	var out []Result
	for _, rec := range c.records {
		if !rec.Active {
			continue
		}
	drain:
		for {
			r, status := TryReceive(rec.replies)
			switch status {
			case RecvReceived:
				rec.apply(r)
				out = append(out, r)
			case RecvEmpty:
				break drain
			case RecvClosed:
				c.deactivate(rec)
				break drain
			}
		}
	}
	return out
}

func (rec *WorkerRecord) apply(r Result) {
	rec.Position = r.Task.End
	rec.Rides++
	rec.Distance += r.Distance
}

// Deliver accounts for a result that never went through a reply channel, such as
// a ride finished by a worker stopped while its reply was still pending.
// It reports false when no worker with r.WorkerID is tracked.
func (c *Collector) Deliver(r Result) bool {
	for _, rec := range c.records {
		if rec.ID == r.WorkerID {
			rec.apply(r)
			return true
		}
	}
	return false
}

func (c *Collector) deactivate(rec *WorkerRecord) {
	rec.Active = false
	if rec.StopSent {
		c.logger.Info("worker exited", zap.Int("worker", rec.ID))
	} else {
		rec.Lost = true
		c.logger.Warn("worker lost", zap.Int("worker", rec.ID), zap.Error(ErrWorkerLost))
	}
	if c.onInactive != nil {
		c.onInactive(rec)
	}
}

// Records returns all tracked records, active or not.
func (c *Collector) Records() []*WorkerRecord { return c.records }

// Active returns the records still considered alive.
func (c *Collector) Active() []*WorkerRecord {
	out := make([]*WorkerRecord, 0, len(c.records))
	for _, rec := range c.records {
		if rec.Active {
			out = append(out, rec)
		}
	}
	return out
}

// ActiveCount returns the number of records still considered alive.
func (c *Collector) ActiveCount() int {
	n := 0
	for _, rec := range c.records {
		if rec.Active {
			n++
		}
	}
	return n
}
