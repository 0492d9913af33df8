package ridesim

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/ygrebnov/ridesim/metrics"
	"github.com/ygrebnov/ridesim/pool"
)

// Coordinator generates rides, hands them to a fixed set of workers through a
// bounded Queue, collects their results and shuts the simulation down on a deadline.
//
// Run drives the whole simulation from the calling goroutine. Shutdown may be called
// from any goroutine, any number of times.
type Coordinator struct {
	// noCopy prevents accidental copying of the coordinator.
	//go:nocopy
	nc noCopy

	cfg       *config
	queue     *Queue[Task]
	collector *Collector
	gen       Generator
	pool      pool.Pool
	logger    *zap.Logger
	inst      instruments
	workers   []*worker

	stop     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	running  atomic.Bool

	summary Summary
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type instruments struct {
	accepted    metrics.Counter
	rejected    metrics.Counter
	completed   metrics.Counter
	abandoned   metrics.Counter
	interrupted metrics.Counter
	sentinels   metrics.Counter
	lost        metrics.Counter
	active      metrics.UpDownCounter
	distance    metrics.Histogram
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		accepted:    p.Counter(metrics.TasksAccepted),
		rejected:    p.Counter(metrics.TasksRejected),
		completed:   p.Counter(metrics.TasksCompleted),
		abandoned:   p.Counter(metrics.TasksAbandoned),
		interrupted: p.Counter(metrics.TasksInterrupted),
		sentinels:   p.Counter(metrics.SentinelsSent),
		lost:        p.Counter(metrics.WorkersLost),
		active:      p.UpDownCounter(metrics.WorkersActive),
		distance:    p.Histogram(metrics.RideDistance),
	}
}

// New creates a Coordinator using functional options.
// It fails with ErrInvalidConfig when an option is invalid or the queue cannot be created.
func New(opts ...Option) (*Coordinator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if cfg.GracePeriod == 0 {
		cfg.GracePeriod = defaultGrace(&cfg)
	}

	// One reserved control slot per worker: every sentinel fits even when the ride lane is full.
	q, err := NewQueue[Task](cfg.QueueCapacity, cfg.Drivers)
	if err != nil {
		return nil, err
	}

	if cfg.Generator == nil {
		cfg.Generator = NewRandomGenerator(cfg.Seed, cfg.Bound, cfg.MinInterval, cfg.MaxInterval)
	}
	if cfg.Pool == nil {
		cfg.Pool = pool.NewFixed(cfg.Drivers)
	}

	c := &Coordinator{
		cfg:    &cfg,
		queue:  q,
		gen:    cfg.Generator,
		pool:   cfg.Pool,
		logger: cfg.Logger,
		inst:   newInstruments(cfg.Metrics),
		stop:   make(chan struct{}),
	}
	c.collector = NewCollector(cfg.Logger, c.onInactive)
	return c, nil
}

// Shutdown delivers the shutdown signal. It is idempotent and never blocks;
// Run performs the handshake and returns once every worker is reaped.
func (c *Coordinator) Shutdown() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Running reports whether the coordinator is still generating rides.
func (c *Coordinator) Running() bool { return c.running.Load() }

// Run spawns the workers, generates rides until the deadline, ctx cancellation or
// Shutdown, then performs the shutdown handshake and returns the simulation summary.
//
// A non-nil error is returned only for startup failures (ErrSpawn) or a second call
// (ErrAlreadyRunning). Workers spawned before a failure are stopped and reaped first.
func (c *Coordinator) Run(ctx context.Context) (Summary, error) {
	if !c.started.CompareAndSwap(false, true) {
		return Summary{}, ErrAlreadyRunning
	}

	if c.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Duration)
		defer cancel()
	}

	// Workers outlive the deadline: they must stay up to receive their sentinel.
	workerCtx, cancelWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWorkers()

	if err := c.spawn(workerCtx); err != nil {
		cancelWorkers()
		_ = c.pool.Wait()
		return Summary{}, err
	}

	c.running.Store(true)
	c.logger.Info("simulation started",
		zap.Uint("drivers", c.cfg.Drivers),
		zap.Int("capacity", c.queue.Cap()),
		zap.Duration("duration", c.cfg.Duration),
	)

	for c.tick(ctx) {
	}

	c.handshake(cancelWorkers).run()
	return c.result(), nil
}

// spawn starts one worker per driver. Each worker gets its own reply channel.
func (c *Coordinator) spawn(ctx context.Context) error {
	for id := 1; id <= int(c.cfg.Drivers); id++ {
		start := c.gen.Position()
		replies := make(chan Result, c.cfg.RepliesBuffer)
		w := newWorker(id, start, c.queue, replies, c.cfg)
		if !c.pool.Go(func() error { return w.run(ctx) }) {
			return errorc.With(ErrSpawn, errorc.String("worker", strconv.Itoa(id)))
		}
		c.workers = append(c.workers, w)
		c.collector.Track(id, start, replies)
		c.inst.active.Add(1)
	}
	return nil
}

// tick runs one generation step and reports whether the loop should continue.
func (c *Coordinator) tick(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.stop:
		return false
	default:
	}

	c.collect()
	c.submit(c.gen.Ride())

	t := time.NewTimer(c.gen.Interval())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-c.stop:
		return false
	case <-t.C:
		return true
	}
}

// submit offers a ride to the queue. A full queue is expected backpressure: the
// ride is rejected and the coordinator moves on.
func (c *Coordinator) submit(t Task) {
	err := c.queue.TrySend(t, PriorityNormal)
	switch {
	case err == nil:
		c.summary.Accepted++
		c.inst.accepted.Add(1)
		c.logger.Info("ride accepted", zap.Stringer("from", t.Start), zap.Stringer("to", t.End))
	case errors.Is(err, ErrQueueFull), errors.Is(err, ErrQueueSealed):
		c.summary.Rejected++
		c.inst.rejected.Add(1)
		c.logger.Warn("ride rejected", zap.Stringer("ride", t), zap.Error(err))
	default:
		c.logger.Error("ride not submitted", zap.Stringer("ride", t), zap.Error(err))
	}
}

// collect polls the collector once and accounts for every result.
func (c *Coordinator) collect() {
	for _, r := range c.collector.Poll() {
		c.complete(r)
	}
}

func (c *Coordinator) complete(r Result) {
	c.summary.Completed++
	c.summary.TotalDistance += r.Distance
	c.inst.completed.Add(1)
	c.inst.distance.Record(float64(r.Distance))
	c.logger.Info("driver drove a distance", zap.Int("worker", r.WorkerID), zap.Int("distance", r.Distance))
}

// onInactive is the collector's liveness callback.
func (c *Coordinator) onInactive(rec *WorkerRecord) {
	c.inst.active.Add(-1)
	if rec.Lost {
		c.summary.Lost++
		c.inst.lost.Add(1)
	}
}

func (c *Coordinator) handshake(cancelWorkers context.CancelFunc) *shutdownSequence {
	s := &shutdownSequence{
		grace:         c.cfg.GracePeriod,
		stopIntake:    c.stopIntake,
		sendSentinels: c.sendSentinels,
		awaitInactive: c.awaitInactive,
		stopWorkers:   cancelWorkers,
		reap:          c.reap,
		finalize:      c.finalize,
	}
	if c.cfg.DrainOnShutdown {
		s.drainQueue = c.drainQueue
	}
	return s
}

func (c *Coordinator) stopIntake() {
	c.running.Store(false)
	c.queue.Seal()
	c.logger.Info("ending the simulation", zap.Int("queued", c.queue.Len()))
}

// drainQueue waits for queued rides to be taken by workers.
func (c *Coordinator) drainQueue(deadline time.Time) {
	for c.queue.Len() > 0 && c.collector.ActiveCount() > 0 {
		if time.Now().After(deadline) {
			c.logger.Warn("grace period elapsed while draining", zap.Int("queued", c.queue.Len()))
			return
		}
		c.collect()
		time.Sleep(c.cfg.PollInterval)
	}
}

// sendSentinels enqueues exactly one sentinel per worker still active.
// Only sentinel delivery is retried on ErrQueueFull; it gives up at the deadline.
func (c *Coordinator) sendSentinels(deadline time.Time) {
	c.collect()
	for _, rec := range c.collector.Active() {
		for {
			err := c.queue.TrySend(StopTask(), PriorityControl)
			if err == nil {
				rec.StopSent = true
				c.summary.SentinelsSent++
				c.inst.sentinels.Add(1)
				break
			}
			if !errors.Is(err, ErrQueueFull) || time.Now().After(deadline) {
				c.logger.Error("sentinel not delivered", zap.Int("worker", rec.ID), zap.Error(err))
				break
			}
			c.collect()
			time.Sleep(c.cfg.PollInterval)
		}
	}
}

// awaitInactive polls until every worker's reply channel is observed closed.
func (c *Coordinator) awaitInactive(deadline time.Time) {
	c.collect()
	for c.collector.ActiveCount() > 0 {
		if time.Now().After(deadline) {
			c.logger.Warn("grace period elapsed, stopping remaining workers",
				zap.Int("active", c.collector.ActiveCount()))
			return
		}
		time.Sleep(c.cfg.PollInterval)
		c.collect()
	}
	c.summary.Clean = true
}

func (c *Coordinator) reap() {
	if err := c.pool.Wait(); err != nil {
		id, _ := ExtractWorkerID(err)
		c.logger.Debug("worker returned an error", zap.Int("worker", id), zap.Error(err))
	}
}

// finalize collects what workers published before exiting and accounts for
// rides left in the queue or in the hands of workers that did not finish them.
// It runs after reap, so the workers' leftovers are no longer written.
func (c *Coordinator) finalize() {
	c.collect()
	for _, w := range c.workers {
		if r := w.undelivered; r != nil {
			c.collector.Deliver(*r)
			c.complete(*r)
		}
		if t := w.unfinished; t != nil {
			c.summary.Interrupted++
			c.inst.interrupted.Add(1)
			c.logger.Warn("ride interrupted", zap.Int("worker", w.id), zap.Stringer("ride", *t))
		}
	}
	for _, t := range c.queue.Drain() {
		c.summary.Abandoned++
		c.inst.abandoned.Add(1)
		c.logger.Info("ride abandoned", zap.Stringer("ride", t))
	}
	c.logger.Info("simulation finished",
		zap.Int("completed", c.summary.Completed),
		zap.Int("rejected", c.summary.Rejected),
		zap.Int("abandoned", c.summary.Abandoned),
		zap.Int("interrupted", c.summary.Interrupted),
	)
}
