package lib

import (
	"fmt"
	"io"
	"os"
	"strings"

	"ticko/core"
)

// stdout is swapped out by tests to capture default callback output.
var stdout io.Writer = os.Stdout

// Timed wraps fn so that every invocation is measured by a fresh
// stopwatch. With no explicit configuration the wrapper prints the
// wrapped function's name and elapsed time to standard output after
// each call.
func Timed(fn func() error) func() error {
	return TimedWith(fn, nil, nil)
}

// TimedWith wraps fn with an explicit timer source and exit callback.
// A nil timer selects the default monotonic clock; a nil callback
// selects the default print callback. The stopwatch is stopped before
// the wrapper returns, even when fn fails or panics, and fn's error is
// returned unchanged.
//
// The wrapper measures a zero-argument call shape. Functions with
// arguments are wrapped by closing over them at the call site.
func TimedWith(fn func() error, timer core.TimerFunc, callback core.ExitCallback) func() error {
	name := baseName(core.FunctionName(fn))
	if callback == nil {
		callback = printCallback(name)
	}

	return func() error {
		sw := core.NewStopWatch(timer, callback)
		if _, err := sw.Start(); err != nil {
			return err
		}
		defer sw.Stop()
		return fn()
	}
}

func printCallback(name string) core.ExitCallback {
	return func(sw *core.StopWatch) {
		elapsed, err := sw.TimeElapsed()
		if err != nil {
			return
		}
		fmt.Fprintf(stdout, "'%s' took %.6fs\n", name, elapsed.Seconds())
	}
}

// baseName strips the package path from a fully qualified symbol name.
func baseName(qualified string) string {
	if i := strings.LastIndex(qualified, "/"); i >= 0 {
		qualified = qualified[i+1:]
	}
	if i := strings.Index(qualified, "."); i >= 0 {
		qualified = qualified[i+1:]
	}
	return qualified
}
