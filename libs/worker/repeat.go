package worker

import (
	"sync/atomic"
	"time"
)

// Repeat runs a function repeatedly with a pause between invocations.
type Repeat struct {
	started uint32
	period  time.Duration
	fn      func()
	stopCh  chan chan struct{}
}

// NewRepeat returns a worker that invokes fn, waits for the period, and
// repeats until stopped.
func NewRepeat(period time.Duration, fn func()) *Repeat {
	return &Repeat{
		period: period,
		fn:     fn,
		stopCh: make(chan chan struct{}, 1),
	}
}

// Started returns true iff the worker is currently running.
func (w *Repeat) Started() bool {
	return atomic.LoadUint32(&w.started) != 0
}

// Start starts the worker if it's not already running.
func (w *Repeat) Start() {
	if atomic.SwapUint32(&w.started, 1) == 1 {
		return
	}
	go func() {
		defer atomic.StoreUint32(&w.started, 0)
		for {
			w.fn()
			select {
			case ch := <-w.stopCh:
				ch <- struct{}{}
				return
			case <-time.After(w.period):
			}
		}
	}()
}

// Stop signals the worker to stop, waiting up to the provided duration for it to do so.
func (w *Repeat) Stop(wait time.Duration) {
	if !w.Started() {
		return
	}
	ch := make(chan struct{})
	w.stopCh <- ch
	select {
	case <-ch:
	case <-time.After(wait):
	}
}
