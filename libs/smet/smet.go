// Package smet provides named error counters that both log and track metrics
// so that always-on background work surfaces failures without spamming alerts.
package smet

import (
	"sync"

	"github.com/samuel/go-metrics/metrics"

	"github.com/bitmap357/hospital-test/libs/golog"
)

var (
	mu       sync.Mutex
	counters = make(map[string]*metrics.Counter)
)

// GetCounter returns the counter for the provided name, creating it on first use.
func GetCounter(name string) *metrics.Counter {
	mu.Lock()
	defer mu.Unlock()
	c, ok := counters[name]
	if !ok {
		c = metrics.NewCounter()
		counters[name] = c
	}
	return c
}

// Register adds every counter tracked so far to the provided registry.
func Register(registry metrics.Registry) {
	mu.Lock()
	defer mu.Unlock()
	for name, c := range counters {
		registry.Add(name, c)
	}
}

// Error logs the error and increments the named counter.
func Error(name string, err error) {
	GetCounter(name).Inc(1)
	golog.Default().Logf(2, golog.ERR, "%s: %s", name, err)
}

// Errorf logs the formatted message and increments the named counter.
func Errorf(name string, format string, args ...interface{}) {
	GetCounter(name).Inc(1)
	golog.Default().Logf(2, golog.ERR, name+": "+format, args...)
}
