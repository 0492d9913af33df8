package pool

// Pool runs long-lived goroutines and waits for them to return.
type Pool interface {
	// Go starts fn in a new goroutine. It returns false, without starting fn,
	// when the pool cannot take another goroutine.
	Go(fn func() error) bool

	// Wait blocks until every started goroutine has returned and reports
	// the first non-nil error, if any.
	Wait() error
}
