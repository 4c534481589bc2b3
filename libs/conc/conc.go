// Package conc includes helpers for concurrency patterns that avoid some of the most common pitfalls.
package conc

import "time"

// Testing should be set to true when running tests for code that use this package.
// This makes all functionality synchronous and makes tests deterministic.
var Testing bool

// Go runs the provided function in a goroutine if Testing is not set,
// and synchronously if it is.
func Go(f func()) {
	if Testing {
		f()
		return
	}
	go f()
}

// AfterFunc runs the provided function in a goroutine after the provided
// duration if Testing is not set, and synchronously and immediately if it is.
func AfterFunc(d time.Duration, f func()) *time.Timer {
	if Testing {
		f()
		return nil
	}
	return time.AfterFunc(d, f)
}
