package ridesim

import (
	"sync"
	"time"
)

// shutdownSequence encapsulates the shutdown handshake of a Coordinator.
// It is a wiring helper: it owns no channels or workers; it orchestrates the
// steps in a fixed order. Every waiting step gets its own deadline, one grace
// period from the moment it starts, so no step can hang the coordinator.
//
// run() is safe for concurrent calls; the sequence executes exactly once.
type shutdownSequence struct {
	grace time.Duration

	stopIntake    func()
	drainQueue    func(deadline time.Time)
	sendSentinels func(deadline time.Time)
	awaitInactive func(deadline time.Time)
	stopWorkers   func()
	reap          func()
	finalize      func()

	now  func() time.Time
	once sync.Once
}

// run executes the handshake:
// 1) stop generating and seal the queue for rides
// 2) optionally wait for queued rides to be taken
// 3) send one sentinel per active worker
// 4) wait until every worker is observed inactive
// 5) cancel stragglers
// 6) wait for every worker goroutine to return
// 7) collect the last results and account for abandoned rides
func (s *shutdownSequence) run() {
	s.once.Do(func() {
		now := s.now
		if now == nil {
			now = time.Now
		}
		if s.stopIntake != nil {
			s.stopIntake()
		}
		if s.drainQueue != nil {
			s.drainQueue(now().Add(s.grace))
		}
		if s.sendSentinels != nil {
			s.sendSentinels(now().Add(s.grace))
		}
		if s.awaitInactive != nil {
			s.awaitInactive(now().Add(s.grace))
		}
		if s.stopWorkers != nil {
			s.stopWorkers()
		}
		if s.reap != nil {
			s.reap()
		}
		if s.finalize != nil {
			s.finalize()
		}
	})
}
