package pool

import "golang.org/x/sync/errgroup"

type dynamic struct {
	g errgroup.Group
}

// NewDynamic returns a Pool without a goroutine limit: Go always starts fn.
func NewDynamic() Pool {
	return &dynamic{}
}

func (p *dynamic) Go(fn func() error) bool {
	p.g.Go(fn)
	return true
}

func (p *dynamic) Wait() error {
	return p.g.Wait()
}
