package clock

import "time"

// Clock abstracts away reads of the current time so that code doing
// schedule math can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New returns a clock backed by the system time.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

// ManagedClock is a clock whose time only moves when told to. Intended for tests.
type ManagedClock struct {
	current time.Time
}

// NewManaged returns a managed clock starting at the provided time.
func NewManaged(start time.Time) *ManagedClock {
	return &ManagedClock{current: start}
}

// Now returns the current managed time.
func (c *ManagedClock) Now() time.Time {
	return c.current
}

// WarpForward moves the managed time forward by the provided offset and
// returns the new time.
func (c *ManagedClock) WarpForward(offset time.Duration) time.Time {
	c.current = c.current.Add(offset)
	return c.current
}
