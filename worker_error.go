package ridesim

import (
	"errors"
	"fmt"
)

// WorkerError tags an error with the ID of the worker it terminated.
type WorkerError struct {
	ID  int
	Err error
}

func newWorkerError(id int, err error) error {
	if err == nil {
		return nil
	}
	return &WorkerError{ID: id, Err: err}
}

func (e *WorkerError) Error() string { return fmt.Sprintf("worker %d: %v", e.ID, e.Err) }
func (e *WorkerError) Unwrap() error { return e.Err }

func (e *WorkerError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "worker(id=%d): %+v", e.ID, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractWorkerID returns the worker ID from err if present.
func ExtractWorkerID(err error) (int, bool) {
	var we *WorkerError
	if errors.As(err, &we) {
		return we.ID, true
	}
	return 0, false
}
