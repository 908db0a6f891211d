// Package feedback produces the haptic and audible responses to a counter change.
package feedback

import (
	"context"
)

// Direction is the way the counter moved.
type Direction int

const (
	Increment Direction = iota
	Decrement
)

func (d Direction) String() string {
	switch d {
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	}
	return "unknown"
}

// Feedback reacts to a counter change. Implementations have no state the
// counter depends on and must not block the caller for long.
type Feedback interface {
	Trigger(ctx context.Context, d Direction)
}

// Multi triggers every Feedback in order.
type Multi []Feedback

func (m Multi) Trigger(ctx context.Context, d Direction) {
	for _, f := range m {
		f.Trigger(ctx, d)
	}
}

// Nop is used when feedback is turned off.
type Nop struct{}

func (Nop) Trigger(context.Context, Direction) {}

// Func adapts a plain function to Feedback.
type Func func(ctx context.Context, d Direction)

func (f Func) Trigger(ctx context.Context, d Direction) { f(ctx, d) }
