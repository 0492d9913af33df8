package ridesim

import "fmt"

// Point is a position on the integer city grid.
type Point struct {
	X, Y int
}

// Distance returns the city-metric (Manhattan) distance between p and q.
func (p Point) Distance(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type taskKind uint8

const (
	kindRide taskKind = iota
	kindStop
)

// Task is an immutable ride request passed from the coordinator to exactly one worker.
// The zero value is a ride from (0, 0) to (0, 0); the shutdown sentinel is only
// produced by StopTask and is recognized by its kind, never by its coordinates.
type Task struct {
	Start Point
	End   Point

	kind taskKind
}

// NewTask creates a ride from start to end.
func NewTask(start, end Point) Task {
	return Task{Start: start, End: end, kind: kindRide}
}

// StopTask returns the shutdown sentinel.
func StopTask() Task { return Task{kind: kindStop} }

// IsStop reports whether t is the shutdown sentinel.
func (t Task) IsStop() bool { return t.kind == kindStop }

// Length returns the route length from Start to End.
func (t Task) Length() int { return t.Start.Distance(t.End) }

// Within reports whether both route ends lie inside [-bound, bound]^2.
func (t Task) Within(bound int) bool {
	return within(t.Start, bound) && within(t.End, bound)
}

func within(p Point, bound int) bool {
	return p.X >= -bound && p.X <= bound && p.Y >= -bound && p.Y <= bound
}

func (t Task) String() string {
	if t.IsStop() {
		return "stop"
	}
	return fmt.Sprintf("from %s to %s", t.Start, t.End)
}

// rideDistance is the distance a driver at pos covers to serve t:
// the approach to t.Start plus the route itself.
func rideDistance(pos Point, t Task) int {
	return pos.Distance(t.Start) + t.Length()
}

// Result reports a completed ride. It is produced by a worker and consumed once by the Collector.
type Result struct {
	WorkerID int
	Distance int
	Task     Task
}

// Priority selects the queue lane a message travels through.
type Priority uint8

const (
	// PriorityNormal is used for rides; subject to the queue capacity.
	PriorityNormal Priority = iota
	// PriorityControl is used for shutdown sentinels; delivered before any normal item.
	PriorityControl
)

func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityControl:
		return "control"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}
