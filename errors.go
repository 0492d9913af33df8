package ridesim

import "errors"

const Namespace = "ridesim"

var (
	ErrInvalidConfig     = errors.New(Namespace + ": invalid configuration")
	ErrQueueFull         = errors.New(Namespace + ": queue is full")
	ErrQueueSealed       = errors.New(Namespace + ": queue is sealed")
	ErrSpawn             = errors.New(Namespace + ": cannot spawn worker")
	ErrWorkerLost        = errors.New(Namespace + ": worker lost")
	ErrWorkerPanicked    = errors.New(Namespace + ": worker panicked")
	ErrProtocolViolation = errors.New(Namespace + ": protocol violation")
	ErrAlreadyRunning    = errors.New(Namespace + ": coordinator already started")
)
