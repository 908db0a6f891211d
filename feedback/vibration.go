package feedback

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	IncrementPulse = 40 * time.Millisecond
	DecrementPulse = 60 * time.Millisecond
)

// Vibrator runs a vibration motor, or anything that can stand in for one, for d.
type Vibrator interface {
	Vibrate(ctx context.Context, d time.Duration) error
}

// NewVibration pulses v for inc on increments and dec on decrements.
// Zero durations fall back to IncrementPulse and DecrementPulse.
func NewVibration(log *zap.SugaredLogger, v Vibrator, inc, dec time.Duration) *Vibration {
	if inc <= 0 {
		inc = IncrementPulse
	}
	if dec <= 0 {
		dec = DecrementPulse
	}
	return &Vibration{log: log, vibrator: v, pulses: [...]time.Duration{Increment: inc, Decrement: dec}}
}

type Vibration struct {
	log      *zap.SugaredLogger
	vibrator Vibrator
	pulses   [2]time.Duration
}

func (v *Vibration) Trigger(ctx context.Context, d Direction) {
	if d != Increment && d != Decrement {
		return
	}
	if err := v.vibrator.Vibrate(ctx, v.pulses[d]); err != nil {
		v.log.Warnf("vibrate on %s: %v", d, err)
	}
}
