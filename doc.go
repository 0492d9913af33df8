// Package ridesim simulates ride dispatching: a coordinator generates ride requests
// and hands them to a fixed set of driver workers through a bounded queue, and the
// whole simulation winds down cleanly on a deadline.
//
// Constructor
//   - New(opts ...Option): builds a Coordinator; Run(ctx) executes the simulation.
//
// Defaults
// Unless overridden, the following defaults apply:
//   - Drivers: 1
//   - Duration: 0 (no deadline; stop via ctx or Shutdown)
//   - QueueCapacity: 10
//   - RepliesBuffer: 10
//   - Bound: 1000 (coordinates in [-1000, 1000])
//   - Interval: 500ms to 2s between generated rides
//   - DriveUnit: 1ms per unit of distance
//   - GracePeriod: 5s per shutdown waiting phase, or the longest possible ride if longer
//
// Backpressure
// Rides are offered with a non-blocking TrySend. When the queue already holds
// QueueCapacity rides the offer fails with ErrQueueFull, the ride is rejected and
// logged, and generation continues.
//
// Shutdown
// On the deadline, ctx cancellation or Shutdown, the coordinator stops generating,
// seals the queue and sends one sentinel per active worker through the queue's
// control lane. The control lane has one reserved slot per worker, outside the ride
// capacity, so a saturated queue cannot block shutdown, and a queued sentinel is
// received before any queued ride. Workers exit on their sentinel and close their
// private reply channel; the Collector observes the closure and marks the worker
// inactive. A worker whose channel closes before it was sent a sentinel is reported
// as lost. After every worker is inactive, or the grace period elapses, remaining
// workers are cancelled and all goroutines are reaped. A ride a worker was still
// driving is then reported as interrupted, so every accepted ride ends up completed,
// abandoned in the queue or interrupted.
package ridesim
