package ridesim

import (
	"context"
	"strconv"
	"sync"

	"github.com/ygrebnov/errorc"
)

// Queue is a bounded FIFO queue with two lanes.
//
// The normal lane holds at most Cap() items; TrySend with PriorityNormal fails
// with ErrQueueFull instead of blocking when it is saturated.
// The control lane is reserved capacity kept outside the normal lane, so that
// control messages (shutdown sentinels) can always be enqueued while the normal
// lane is full. A control item already queued when Receive is called is returned
// before any normal item. An item arriving while Receive waits competes with normal
// items arriving at the same time; the next Receive sees it first.
//
// Queue is safe for concurrent use by multiple senders and receivers.
type Queue[T any] struct {
	items   chan T
	control chan T

	mu     sync.RWMutex
	sealed bool
}

// NewQueue creates a queue holding up to capacity normal items and reserved control items.
func NewQueue[T any](capacity, reserved uint) (*Queue[T], error) {
	if capacity == 0 {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("queue", "capacity must be > 0"))
	}
	if reserved == 0 {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("queue", "reserved control slots must be > 0"))
	}
	return &Queue[T]{
		items:   make(chan T, capacity),
		control: make(chan T, reserved),
	}, nil
}

// TrySend enqueues item without blocking.
//
// Returns:
// - nil if the item was enqueued;
// - ErrQueueFull if the selected lane is saturated;
// - ErrQueueSealed for a normal item after Seal.
func (q *Queue[T]) TrySend(item T, p Priority) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if p == PriorityControl {
		select {
		case q.control <- item:
			return nil
		default:
			return errorc.With(ErrQueueFull, errorc.String("lane", p.String()))
		}
	}

	if q.sealed {
		return ErrQueueSealed
	}
	select {
	case q.items <- item:
		return nil
	default:
		return errorc.With(ErrQueueFull, errorc.String("capacity", strconv.Itoa(cap(q.items))))
	}
}

// Receive blocks until an item is available or ctx is done.
// Priority applies to items queued before the call: a control item queued at that
// point wins over any normal item.
func (q *Queue[T]) Receive(ctx context.Context) (T, Priority, error) {
	select {
	case v := <-q.control:
		return v, PriorityControl, nil
	default:
	}

	select {
	case v := <-q.control:
		return v, PriorityControl, nil
	case v := <-q.items:
		return v, PriorityNormal, nil
	case <-ctx.Done():
		var zero T
		return zero, PriorityNormal, ctx.Err()
	}
}

// Seal stops accepting normal items. Queued items stay receivable. Idempotent.
func (q *Queue[T]) Seal() {
	q.mu.Lock()
	q.sealed = true
	q.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (q *Queue[T]) Sealed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.sealed
}

// Len returns the number of queued normal items.
func (q *Queue[T]) Len() int { return len(q.items) }

// Cap returns the normal lane capacity.
func (q *Queue[T]) Cap() int { return cap(q.items) }

// Pending returns the number of queued control items.
func (q *Queue[T]) Pending() int { return len(q.control) }

// Drain removes and returns all queued normal items without blocking.
// It is meant to be called once no receivers remain.
func (q *Queue[T]) Drain() []T {
	var out []T
	for {
		select {
		case v := <-q.items:
			out = append(out, v)
		default:
			return out
		}
	}
}
