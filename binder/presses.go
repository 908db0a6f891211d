package binder

import (
	"fmt"
	"sync/atomic"
)

func newPressCounter(name string) *pressCounter {
	return &pressCounter{name: name}
}

// pressCounter counts button presses for the shutdown summary.
type pressCounter struct {
	val  uint64
	name string
}

func (c *pressCounter) Increment() uint64 {
	return atomic.AddUint64(&c.val, 1)
}

func (c *pressCounter) Value() uint64 {
	return atomic.LoadUint64(&c.val)
}

func (c *pressCounter) String() string {
	return fmt.Sprintf("%s = %d", c.name, c.Value())
}

type pressStats struct {
	increments *pressCounter
	decrements *pressCounter
	// rejected counts presses at a bound, which leave the value unchanged.
	rejected *pressCounter
}

func (p pressStats) String() string {
	return fmt.Sprintf("%s, %s, %s", p.increments, p.decrements, p.rejected)
}
