package ridesim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// worker is a driver. It owns its position and its reply channel; the only
// state it shares with anyone is the tasks queue, which it only receives from.
type worker struct {
	id      int
	pos     Point
	tasks   *Queue[Task]
	replies chan Result

	drive  DriveFunc
	unit   time.Duration
	strict bool
	logger *zap.Logger

	// Set by the worker goroutine before it returns; read only after the pool is reaped.
	// unfinished is a ride taken from the queue that was never driven to the end.
	// undelivered is a finished ride whose result could not be sent before a hard stop.
	unfinished  *Task
	undelivered *Result
}

func newWorker(id int, start Point, tasks *Queue[Task], replies chan Result, cfg *config) *worker {
	return &worker{
		id:      id,
		pos:     start,
		tasks:   tasks,
		replies: replies,
		drive:   cfg.Drive,
		unit:    cfg.DriveUnit,
		strict:  cfg.StrictProtocol,
		logger:  cfg.Logger.With(zap.Int("worker", id)),
	}
}

// run serves rides until the shutdown sentinel arrives, ctx is done or a ride fails.
// The reply channel is closed on every exit path; that closure is the worker's
// liveness signal to the Collector.
func (w *worker) run(ctx context.Context) error {
	defer close(w.replies)

	w.logger.Info("worker begins job", zap.Stringer("position", w.pos))
	for {
		t, p, err := w.tasks.Receive(ctx)
		if err != nil {
			return newWorkerError(w.id, err)
		}
		stop, err := w.handle(ctx, t, p)
		if err != nil {
			w.logger.Error("worker terminated", zap.Error(err))
			return newWorkerError(w.id, err)
		}
		if stop {
			w.logger.Info("worker received an ending message")
			return nil
		}
	}
}

// handle processes one message. stop is true when the worker must exit.
func (w *worker) handle(ctx context.Context, t Task, p Priority) (stop bool, err error) {
	if err := checkProtocol(t, p); err != nil {
		if w.strict {
			panic(err)
		}
		w.logger.Error("protocol violation", zap.Stringer("task", t), zap.Stringer("priority", p))
		return true, err
	}
	if t.IsStop() {
		return true, nil
	}

	res, err := w.ride(ctx, t)
	if err != nil {
		w.unfinished = &t
		return true, err
	}

	select {
	case w.replies <- res:
		return false, nil
	case <-ctx.Done():
		w.undelivered = &res
		return true, ctx.Err()
	}
}

// ride drives from the current position to t.Start and then along the route.
// A panic during the drive is reported as ErrWorkerPanicked.
func (w *worker) ride(ctx context.Context, t Task) (res Result, err error) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerPanicked, ePanic)
		}
	}()

	d := rideDistance(w.pos, t)
	w.logger.Info("worker received a task",
		zap.Stringer("from", t.Start),
		zap.Stringer("to", t.End),
		zap.Int("distance", d),
	)

	if err = w.drive(ctx, time.Duration(d)*w.unit); err != nil {
		return Result{}, err
	}

	w.pos = t.End
	return Result{WorkerID: w.id, Distance: d, Task: t}, nil
}

// checkProtocol rejects sentinels on the normal lane and rides on the control lane.
func checkProtocol(t Task, p Priority) error {
	switch {
	case t.IsStop() && p != PriorityControl:
		return fmt.Errorf("%w: sentinel received with %s priority", ErrProtocolViolation, p)
	case !t.IsStop() && p == PriorityControl:
		return fmt.Errorf("%w: ride received with %s priority", ErrProtocolViolation, p)
	}
	return nil
}
