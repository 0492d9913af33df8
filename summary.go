package ridesim

// Summary describes a finished simulation.
type Summary struct {
	// Accepted and Rejected count rides offered to the queue.
	Accepted int
	Rejected int
	// Completed counts results received from workers.
	Completed int
	// Abandoned counts accepted rides still queued once every worker was reaped.
	Abandoned int
	// Interrupted counts rides a worker took from the queue but never finished,
	// because it failed or was stopped once the grace period elapsed.
	// Accepted == Completed + Abandoned + Interrupted.
	Interrupted int

	SentinelsSent int
	// Lost counts workers that went away before a sentinel was sent to them.
	Lost int

	TotalDistance int

	// Clean is true when every worker was observed inactive within the grace period.
	Clean bool

	Workers []WorkerSummary
}

// WorkerSummary is the final state of one worker.
type WorkerSummary struct {
	ID       int
	Rides    int
	Distance int
	Position Point
	Lost     bool
}

func (c *Coordinator) result() Summary {
	s := c.summary
	records := c.collector.Records()
	s.Workers = make([]WorkerSummary, 0, len(records))
	for _, rec := range records {
		s.Workers = append(s.Workers, WorkerSummary{
			ID:       rec.ID,
			Rides:    rec.Rides,
			Distance: rec.Distance,
			Position: rec.Position,
			Lost:     rec.Lost,
		})
	}
	return s
}
