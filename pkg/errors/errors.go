package errors

import "errors"

var (
	ErrReadLocked  = errors.New("rwlock is locked for read")
	ErrWriteLocked = errors.New("rwlock is locked for write")
	ErrClosed      = errors.New("rwlock is closed")

	ErrCheckFailed     = errors.New("scenario check failed")
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrScenarioRunning = errors.New("scenario is already running")
	ErrInvalidConfig   = errors.New("invalid config")
)
