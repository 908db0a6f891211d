// Package prefs persists small integer preferences, the counter value among them.
//
// A Store is a named collection of integer entries, like a platform preference
// file. Adapter binds one entry of a Store to the counter's load/save lifecycle.
package prefs

import (
	"context"

	"github.com/pkg/errors"
)

const (
	// DefaultName is the name of the preference collection the counter lives in.
	DefaultName = "counters"
	// DefaultKey is the entry the counter value is stored under.
	DefaultKey = "key"
)

// Store reads and writes integer entries by key.
type Store interface {
	// GetInt returns the value stored under key; ok is false when nothing is stored.
	GetInt(ctx context.Context, key string) (v int, ok bool, err error)
	// PutInt stores v under key before returning.
	PutInt(ctx context.Context, key string, v int) error
}

// NewAdapter binds key inside store, falling back to def when nothing is stored.
func NewAdapter(store Store, key string, def int) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key, def: def}
}

// Adapter loads and saves a single integer.
type Adapter struct {
	store Store
	key   string
	def   int
}

// Load returns the stored value, or the default with ok false if absent.
func (a *Adapter) Load(ctx context.Context) (v int, ok bool, err error) {
	v, ok, err = a.store.GetInt(ctx, a.key)
	if err != nil {
		return a.def, false, errors.Wrapf(err, "prefs: load %q", a.key)
	}
	if !ok {
		return a.def, false, nil
	}
	return v, true, nil
}

// Save writes v synchronously.
func (a *Adapter) Save(ctx context.Context, v int) error {
	return errors.Wrapf(a.store.PutInt(ctx, a.key, v), "prefs: save %q", a.key)
}

func (a *Adapter) Key() string { return a.key }
