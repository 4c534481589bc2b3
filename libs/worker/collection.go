package worker

import (
	"time"

	"github.com/bitmap357/hospital-test/libs/conc"
)

// Collection is a collection of workers managed as a unit.
type Collection struct {
	workers []Worker
}

// AddWorker adds a worker to the collection of managed workers.
func (c *Collection) AddWorker(w Worker) {
	c.workers = append(c.workers, w)
}

// Start starts the workers.
func (c *Collection) Start() {
	for _, wk := range c.workers {
		wk := wk
		conc.Go(wk.Start)
	}
}

// Stop stops the workers, waiting up to the provided duration for each.
func (c *Collection) Stop(wait time.Duration) {
	parallel := conc.NewParallel()
	for _, wk := range c.workers {
		wk := wk
		parallel.Go(func() error {
			wk.Stop(wait)
			return nil
		})
	}
	parallel.Wait()
}

// Started returns true if any worker in the collection is running.
func (c *Collection) Started() bool {
	for _, wk := range c.workers {
		if wk.Started() {
			return true
		}
	}
	return false
}
