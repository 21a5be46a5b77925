package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentStarts(t *testing.T) {
	sw := NewStopWatch(nil, nil)

	const workers = 10
	var wg sync.WaitGroup
	var mutex sync.Mutex
	started, rejected := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sw.Start()
			mutex.Lock()
			defer mutex.Unlock()
			if err == nil {
				started++
			} else if IsAlreadyRunning(err) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
	assert.Equal(t, workers-1, rejected)
	assert.True(t, sw.IsRunning())
}

func TestConcurrentStops(t *testing.T) {
	sw := NewStopWatch(nil, nil)
	sw.Start()

	const workers = 10
	var wg sync.WaitGroup
	var mutex sync.Mutex
	stopped, rejected := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sw.Stop()
			mutex.Lock()
			defer mutex.Unlock()
			if err == nil {
				stopped++
			} else if IsNotStarted(err) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, stopped)
	assert.Equal(t, workers-1, rejected)
	assert.False(t, sw.IsRunning())
}

func TestConcurrentLaps(t *testing.T) {
	sw := NewStopWatch(nil, nil)
	sw.Start()

	const workers = 3
	const lapsPerWorker = 10

	var wg sync.WaitGroup
	var mutex sync.Mutex
	laps := []time.Duration{}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < lapsPerWorker; j++ {
				lap, err := sw.Lap()
				assert.NoError(t, err)
				mutex.Lock()
				laps = append(laps, lap)
				mutex.Unlock()
				time.Sleep(time.Millisecond)
			}
		}()
	}
	wg.Wait()
	sw.Stop()

	assert.Len(t, laps, workers*lapsPerWorker)
	for _, lap := range laps {
		assert.True(t, lap >= 0)
	}

	// The last lap boundary never precedes the start timestamp.
	start, _ := sw.TimeStart()
	lapStart, ok := sw.TimeLastLapStart()
	assert.True(t, ok)
	assert.True(t, lapStart >= start)
}

func TestConcurrentReads(t *testing.T) {
	sw := NewStopWatch(nil, nil)
	sw.Start()

	const workers = 5
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, sw.IsRunning())
				_, ok := sw.TimeStart()
				assert.True(t, ok)
				elapsed, err := sw.TimeElapsed()
				assert.NoError(t, err)
				assert.True(t, elapsed >= 0)
			}
		}()
	}
	wg.Wait()

	_, err := sw.Stop()
	assert.NoError(t, err)
}

func TestResetWhileReading(t *testing.T) {
	sw := NewStopWatch(nil, nil)
	sw.Start()

	done := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				_ = sw.IsRunning()
				if _, ok := sw.TimeStart(); ok {
					// A reset can land between the two reads; the
					// accessor reports it, never corrupts.
					if _, err := sw.TimeElapsed(); err != nil {
						assert.True(t, IsNotStarted(err))
					}
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	_, err := sw.Stop()
	assert.NoError(t, err)
	sw.Reset()

	time.Sleep(5 * time.Millisecond)
	close(done)
	wg.Wait()

	assert.False(t, sw.IsRunning())
}

func TestMeasureAcrossGoroutines(t *testing.T) {
	const workers = 5
	var wg sync.WaitGroup
	var mutex sync.Mutex
	elapsed := []time.Duration{}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sw := NewStopWatch(nil, nil)
			err := sw.Measure(func() error {
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			assert.NoError(t, err)

			e, err := sw.TimeElapsed()
			assert.NoError(t, err)
			mutex.Lock()
			elapsed = append(elapsed, e)
			mutex.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, elapsed, workers)
	for _, e := range elapsed {
		assert.True(t, e >= 10*time.Millisecond)
	}
}

func TestCallbacksAcrossGoroutines(t *testing.T) {
	const workers = 10
	var wg sync.WaitGroup
	var mutex sync.Mutex
	calls := 0

	callback := func(sw *StopWatch) {
		mutex.Lock()
		defer mutex.Unlock()
		calls++
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sw := NewStopWatch(nil, callback)
			sw.Start()
			time.Sleep(time.Millisecond)
			_, err := sw.Stop()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, calls)
}

func TestStartStopResetCycles(t *testing.T) {
	sw := NewStopWatch(nil, nil)

	for i := 0; i < 100; i++ {
		_, err := sw.Start()
		assert.NoError(t, err)
		_, err = sw.Stop()
		assert.NoError(t, err)
		sw.Reset()
	}

	assert.False(t, sw.IsRunning())
}
