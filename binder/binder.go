// Package binder connects the counter to its views, its preference store and its feedback.
//
// A Binder owns the counter on a single goroutine, Run, the way a UI toolkit
// owns its widgets on the event-dispatch thread. Everything else, HTTP
// handlers and hotkey callbacks included, submits actions and waits for the
// resulting State.
package binder

import (
	"context"
	"fmt"
	"time"

	"github.com/1gm/counter"
	"github.com/1gm/counter/feedback"
	"github.com/1gm/counter/internal/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrStopped is returned by the action methods once Run has returned.
var ErrStopped = errors.New("binder: stopped")

// saveTimeout bounds the final save, which runs after the Run context is done.
const saveTimeout = 5 * time.Second

// View shows the counter. Render is always called from the Run goroutine.
type View interface {
	Render(s counter.State)
}

// ViewFunc adapts a plain function to View.
type ViewFunc func(s counter.State)

func (f ViewFunc) Render(s counter.State) { f(s) }

// Persister loads and saves the counter value, see prefs.Adapter. Load
// reports ok false when nothing is stored.
type Persister interface {
	Load(ctx context.Context) (v int, ok bool, err error)
	Save(ctx context.Context, v int) error
}

type Options struct {
	// Autosave persists the value after every change instead of only when Run returns.
	Autosave bool
}

// New returns a Binder. Nothing happens until Run is called.
func New(log *zap.SugaredLogger, persister Persister, fb feedback.Feedback, opts Options, views ...View) *Binder {
	if fb == nil {
		fb = feedback.Nop{}
	}
	return &Binder{
		log:       log,
		persister: persister,
		feedback:  fb,
		opts:      opts,
		views:     views,
		counter:   counter.New(counter.Default),
		requests:  make(chan request),
		done:      make(chan struct{}),
		presses: pressStats{
			increments: newPressCounter("increment"),
			decrements: newPressCounter("decrement"),
			rejected:   newPressCounter("rejected"),
		},
	}
}

type Binder struct {
	log       *zap.SugaredLogger
	persister Persister
	feedback  feedback.Feedback
	opts      Options
	views     []View

	counter *counter.Counter
	// synced is set once the value came from the store or was changed by an
	// action. Until then the store may hold a value we never saw.
	synced   bool
	requests chan request
	done     chan struct{}
	presses  pressStats
}

type action int

const (
	actionGet action = iota
	actionIncrement
	actionDecrement
	actionSet
	actionReload
)

func (a action) String() string {
	switch a {
	case actionGet:
		return "get"
	case actionIncrement:
		return "increment"
	case actionDecrement:
		return "decrement"
	case actionSet:
		return "set"
	case actionReload:
		return "reload"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

type request struct {
	action action
	value  int
	reply  chan counter.State
}

// Run activates the counter, serves actions until ctx is done and then saves
// the value. It returns the error of that final save.
func (b *Binder) Run(ctx context.Context) error {
	defer close(b.done)

	b.activate(ctx)
	for {
		select {
		case req := <-b.requests:
			req.reply <- b.apply(ctx, req)
		case <-ctx.Done():
			return b.deactivate()
		}
	}
}

func (b *Binder) Increment(ctx context.Context) (counter.State, error) {
	return b.dispatch(ctx, request{action: actionIncrement})
}

func (b *Binder) Decrement(ctx context.Context) (counter.State, error) {
	return b.dispatch(ctx, request{action: actionDecrement})
}

// Set stores v clamped to the counter bounds.
func (b *Binder) Set(ctx context.Context, v int) (counter.State, error) {
	return b.dispatch(ctx, request{action: actionSet, value: v})
}

// State returns the current state without touching the views.
func (b *Binder) State(ctx context.Context) (counter.State, error) {
	return b.dispatch(ctx, request{action: actionGet})
}

// Reload reads the value from the preference store again, as on activation.
func (b *Binder) Reload(ctx context.Context) (counter.State, error) {
	return b.dispatch(ctx, request{action: actionReload})
}

func (b *Binder) dispatch(ctx context.Context, req request) (counter.State, error) {
	req.reply = make(chan counter.State, 1)
	select {
	case b.requests <- req:
	case <-b.done:
		return counter.State{}, ErrStopped
	case <-ctx.Done():
		return counter.State{}, ctx.Err()
	}
	// Run always replies to a request it has received.
	return <-req.reply, nil
}

func (b *Binder) apply(ctx context.Context, req request) counter.State {
	switch req.action {
	case actionGet:
		return b.counter.State()
	case actionIncrement:
		b.press(ctx, feedback.Increment, b.counter.Increment())
	case actionDecrement:
		b.press(ctx, feedback.Decrement, b.counter.Decrement())
	case actionSet:
		prev := b.counter.Value()
		b.counter.SetValue(req.value)
		if b.counter.Value() != prev {
			b.synced = true
			b.autosave(ctx)
		}
	case actionReload:
		b.load(ctx)
	}

	s := b.counter.State()
	b.log.Debugw("applied", "action", req.action, "value", s.Value)
	b.render(s)
	return s
}

func (b *Binder) press(ctx context.Context, d feedback.Direction, changed bool) {
	if !changed {
		b.presses.rejected.Increment()
		return
	}
	if d == feedback.Increment {
		b.presses.increments.Increment()
	} else {
		b.presses.decrements.Increment()
	}
	b.synced = true
	b.feedback.Trigger(ctx, d)
	b.autosave(ctx)
}

func (b *Binder) activate(ctx context.Context) {
	b.load(ctx)
	s := b.counter.State()
	b.log.Infof("activated with value %d", s.Value)
	b.render(s)
}

// load replaces the value with the stored one. A failed load or a missing
// entry keeps the current value.
func (b *Binder) load(ctx context.Context) {
	v, ok, err := b.persister.Load(ctx)
	if err != nil {
		b.log.Errorf("keeping value %d: %v", b.counter.Value(), err)
		return
	}
	b.synced = true
	if ok {
		b.counter.SetValue(v)
	}
}

func (b *Binder) autosave(ctx context.Context) {
	if !b.opts.Autosave {
		return
	}
	log.IfErr(b.log, func() error { return b.persister.Save(ctx, b.counter.Value()) }, "autosave failed")
}

func (b *Binder) deactivate() error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	v := b.counter.Value()
	b.log.Infof("deactivating with value %d (%s)", v, b.presses)
	if !b.synced {
		b.log.Warnf("not saving %d, the stored value was never loaded", v)
		return nil
	}
	return errors.Wrap(b.persister.Save(ctx, v), "failed to save counter")
}

func (b *Binder) render(s counter.State) {
	for _, v := range b.views {
		v.Render(s)
	}
}
