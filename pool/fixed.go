package pool

import "golang.org/x/sync/errgroup"

type fixed struct {
	g        errgroup.Group
	capacity uint
}

// NewFixed returns a Pool running at most capacity goroutines at a time.
// Go fails instead of blocking once capacity goroutines are running.
// A zero capacity pool never starts anything.
func NewFixed(capacity uint) Pool {
	p := &fixed{capacity: capacity}
	p.g.SetLimit(int(capacity))
	return p
}

func (p *fixed) Go(fn func() error) bool {
	return p.g.TryGo(fn)
}

func (p *fixed) Wait() error {
	return p.g.Wait()
}
