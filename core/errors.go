package core

import (
	"github.com/pkg/errors"
)

// AlreadyRunningError indicates an attempt to start a stopwatch
// that is already in the running state.
type AlreadyRunningError struct{}

func (e *AlreadyRunningError) Error() string {
	return "stopwatch is already running"
}

// NotStartedError indicates an operation that requires the stopwatch
// to have reached a state it has not reached yet. Message carries the
// exact precondition that failed.
type NotStartedError struct {
	Message string
}

func (e *NotStartedError) Error() string {
	return e.Message
}

func errAlreadyRunning() error {
	return errors.WithStack(&AlreadyRunningError{})
}

func errNotRunning() error {
	return errors.WithStack(&NotStartedError{Message: "stopwatch is not running"})
}

func errNeverStarted() error {
	return errors.WithStack(&NotStartedError{Message: "stopwatch has not been started"})
}

func errNoLaps() error {
	return errors.WithStack(&NotStartedError{Message: "no laps have been recorded"})
}

// IsAlreadyRunning reports whether err is an AlreadyRunningError.
func IsAlreadyRunning(err error) bool {
	_, ok := errors.Cause(err).(*AlreadyRunningError)
	return ok
}

// IsNotStarted reports whether err is a NotStartedError.
func IsNotStarted(err error) bool {
	_, ok := errors.Cause(err).(*NotStartedError)
	return ok
}
