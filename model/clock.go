package model

import "sync"

// Clock is the monotonically increasing simulation clock, in seconds.
type Clock interface {
	Now() float64
}

// SimClock is a manually advanced Clock. The dispatcher owns the only writer;
// readers may live on other goroutines (trace writers, status endpoints).
type SimClock struct {
	mu  sync.RWMutex
	now float64
}

func NewSimClock(start float64) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by dt seconds. Negative steps are ignored so
// the clock never runs backwards.
func (c *SimClock) Advance(dt float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dt > 0 {
		c.now += dt
	}
	return c.now
}

// Sync jumps the clock to t when t is ahead of the current time. Used when an
// external simulator reports its own clock.
func (c *SimClock) Sync(t float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
	return c.now
}
