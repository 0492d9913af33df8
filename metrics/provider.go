// Package metrics defines the instruments the simulation records into and
// two providers: a no-op default and an in-memory one for tests and summaries.
package metrics

// Provider constructs named instruments.
// Implementations must be safe for concurrent use and return the same
// instrument for the same name.
type Provider interface {
	Counter(name string) Counter
	UpDownCounter(name string) UpDownCounter
	Histogram(name string) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that move both ways (e.g., active workers).
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of measurements (e.g., ride distances).
type Histogram interface {
	Record(v float64)
}

// Instrument names recorded by the coordinator.
const (
	TasksAccepted    = "ridesim_tasks_accepted_total"
	TasksRejected    = "ridesim_tasks_rejected_total"
	TasksCompleted   = "ridesim_tasks_completed_total"
	TasksAbandoned   = "ridesim_tasks_abandoned_total"
	TasksInterrupted = "ridesim_tasks_interrupted_total"
	SentinelsSent    = "ridesim_sentinels_sent_total"
	WorkersLost      = "ridesim_workers_lost_total"
	WorkersActive    = "ridesim_workers_active"
	RideDistance     = "ridesim_ride_distance"
)
