/*
Copyright © 2026 Ticko Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package core

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// TimerFunc returns a reading of a clock that must be monotonically
// non-decreasing for the lifetime of one StopWatch instance.
type TimerFunc func() time.Duration

// ExitCallback is invoked with the stopwatch after each successful Stop.
// It runs outside the stopwatch's internal lock, so it may safely call
// back into the stopwatch.
type ExitCallback func(*StopWatch)

var processEpoch = time.Now()

// DefaultTimer reads the process monotonic clock.
func DefaultTimer() time.Duration {
	return time.Since(processEpoch)
}

// StopWatch is an elapsed-time measurer with start/stop/lap semantics.
// A single instance may be shared between goroutines; a mutex guards
// every read and write of the recorded timestamps.
//
// Lifecycle: not started -> running (Start) -> stopped (Stop). Reset
// returns the instance to not started from any state. There is no
// direct resume; a stopped watch must be Reset before it can Start
// again.
type StopWatch struct {
	mutex        sync.Mutex
	timerFunc    TimerFunc
	exitCallback ExitCallback

	// nil means the timestamp was never sampled.
	timeStart        *time.Duration
	timeStop         *time.Duration
	timeLastLapStart *time.Duration
	timeLastLap      *time.Duration
}

// NewStopWatch creates a stopwatch backed by the given timer. A nil
// timer selects DefaultTimer. callback may be nil.
func NewStopWatch(timer TimerFunc, callback ExitCallback) *StopWatch {
	if timer == nil {
		timer = DefaultTimer
	}
	return &StopWatch{
		timerFunc:    timer,
		exitCallback: callback,
	}
}

// Start transitions the stopwatch to the running state and returns the
// sampled start timestamp. Returns AlreadyRunningError if the watch is
// already running.
func (s *StopWatch) Start() (time.Duration, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.runningLocked() {
		return 0, errAlreadyRunning()
	}

	sample := s.timerFunc()
	s.timeStart = &sample
	s.timeLastLapStart = &sample
	s.timeStop = nil
	return sample, nil
}

// Stop transitions the stopwatch to the stopped state and returns the
// total elapsed duration. Returns NotStartedError if the watch is not
// running. The exit callback, if configured, is invoked after the state
// transition with no lock held; a callback failure is logged and never
// affects the returned duration.
func (s *StopWatch) Stop() (time.Duration, error) {
	s.mutex.Lock()

	if !s.runningLocked() {
		s.mutex.Unlock()
		return 0, errNotRunning()
	}

	sample := s.timerFunc()
	s.timeStop = &sample
	elapsed := sample - *s.timeStart
	s.mutex.Unlock()

	s.notifyExit()
	return elapsed, nil
}

// Lap records a lap boundary and returns the duration since the
// previous boundary (or since Start for the first lap). Returns
// NotStartedError if the watch is not running. The sample-compute-update
// sequence runs under the lock, so concurrent callers each observe a
// distinct interval.
func (s *StopWatch) Lap() (time.Duration, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.runningLocked() {
		return 0, errNotRunning()
	}

	sample := s.timerFunc()
	lap := sample - *s.timeLastLapStart
	s.timeLastLapStart = &sample
	s.timeLastLap = &lap
	return lap, nil
}

// Reset discards all recorded timestamps and returns the stopwatch to
// the not started state. It succeeds from any state and preserves the
// configured timer and callback.
func (s *StopWatch) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.timeStart = nil
	s.timeStop = nil
	s.timeLastLapStart = nil
	s.timeLastLap = nil
}

// Measure starts the stopwatch, runs fn and stops the stopwatch before
// returning fn's error unchanged. The stop also runs if fn panics.
func (s *StopWatch) Measure(fn func() error) error {
	if _, err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()
	return fn()
}

// IsRunning reports whether the stopwatch has been started and not yet
// stopped.
func (s *StopWatch) IsRunning() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.runningLocked()
}

// TimeElapsed returns the total elapsed duration: a fresh timer sample
// minus the start timestamp while running, or the recorded stop-start
// difference once stopped. Returns NotStartedError if the watch has
// never been started.
func (s *StopWatch) TimeElapsed() (time.Duration, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.timeStart == nil {
		return 0, errNeverStarted()
	}
	if s.timeStop == nil {
		return s.timerFunc() - *s.timeStart, nil
	}
	return *s.timeStop - *s.timeStart, nil
}

// TimeLastLap returns the duration of the most recently completed lap.
// Returns NotStartedError if no lap has been recorded.
func (s *StopWatch) TimeLastLap() (time.Duration, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.timeLastLap == nil {
		return 0, errNoLaps()
	}
	return *s.timeLastLap, nil
}

// TimeStart returns the recorded start timestamp, if any.
func (s *StopWatch) TimeStart() (time.Duration, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return deref(s.timeStart)
}

// TimeStop returns the recorded stop timestamp, if any.
func (s *StopWatch) TimeStop() (time.Duration, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return deref(s.timeStop)
}

// TimeLastLapStart returns the timestamp of the most recent lap
// boundary, if any.
func (s *StopWatch) TimeLastLapStart() (time.Duration, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return deref(s.timeLastLapStart)
}

// String renders the current state and, when started, the elapsed time
// with microsecond precision.
func (s *StopWatch) String() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case s.timeStart == nil:
		return "StopWatch(not started)"
	case s.timeStop == nil:
		elapsed := s.timerFunc() - *s.timeStart
		return fmt.Sprintf("StopWatch(running, elapsed=%.6fs)", elapsed.Seconds())
	default:
		elapsed := *s.timeStop - *s.timeStart
		return fmt.Sprintf("StopWatch(stopped, elapsed=%.6fs)", elapsed.Seconds())
	}
}

// GoString renders the configured timer and callback identities. The
// configuration is immutable, so the result does not depend on runtime
// state.
func (s *StopWatch) GoString() string {
	return fmt.Sprintf("StopWatch(timerFunc=%s, exitCallback=%s)",
		FunctionName(s.timerFunc), FunctionName(s.exitCallback))
}

// FunctionName resolves the symbol name of fn, or "nil" for a nil
// function value.
func FunctionName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.IsNil() {
		return "nil"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "unknown"
	}
	return f.Name()
}

func (s *StopWatch) runningLocked() bool {
	return s.timeStart != nil && s.timeStop == nil
}

func (s *StopWatch) notifyExit() {
	if s.exitCallback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"module": "stopwatch", "error": r}).Errorf("stopwatch: exit callback failed: %v\n", r)
		}
	}()
	s.exitCallback(s)
}

func deref(d *time.Duration) (time.Duration, bool) {
	if d == nil {
		return 0, false
	}
	return *d, true
}
