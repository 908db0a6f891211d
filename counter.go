// Package counter holds the bounded value shown on the counter screen.
package counter

import "strconv"

const (
	// Min is the smallest value the counter can hold.
	Min = -9999
	// Max is the largest value the counter can hold.
	Max = 9999
	// Default is the value used when nothing has been persisted yet.
	Default = 0
)

// Clamp returns v limited to [Min, Max].
func Clamp(v int) int {
	if v > Max {
		return Max
	} else if v < Min {
		return Min
	}
	return v
}

// New returns a Counter holding v, clamped to [Min, Max].
func New(v int) *Counter {
	c := &Counter{}
	c.SetValue(v)
	return c
}

// Counter is a bounded integer. The zero value holds Default.
//
// Counter is not safe for concurrent use, callers serialize access the same
// way a UI thread would.
type Counter struct {
	value int
}

// Value returns the current value.
func (c *Counter) Value() int { return c.value }

// Increment adds 1 unless the counter is at Max. It reports whether the value changed.
func (c *Counter) Increment() bool {
	if c.value >= Max {
		return false
	}
	c.value++
	return true
}

// Decrement subtracts 1 unless the counter is at Min. It reports whether the value changed.
func (c *Counter) Decrement() bool {
	if c.value <= Min {
		return false
	}
	c.value--
	return true
}

// SetValue stores v clamped to [Min, Max]. Out of range values are never rejected.
func (c *Counter) SetValue(v int) {
	c.value = Clamp(v)
}

func (c *Counter) CanIncrement() bool { return c.value < Max }

func (c *Counter) CanDecrement() bool { return c.value > Min }

// State returns a snapshot suitable for rendering.
func (c *Counter) State() State {
	return State{
		Value:        c.value,
		CanIncrement: c.CanIncrement(),
		CanDecrement: c.CanDecrement(),
	}
}

// State is what a view needs to draw the counter: the value and whether each button is enabled.
type State struct {
	Value        int  `json:"value"`
	CanIncrement bool `json:"canIncrement"`
	CanDecrement bool `json:"canDecrement"`
}

// Label is the text shown in the counter label.
func (s State) Label() string {
	return strconv.Itoa(s.Value)
}
