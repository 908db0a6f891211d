package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1gm/counter/config"
	"github.com/1gm/counter/feedback"
	"github.com/1gm/counter/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func readFile(name string) (string, error) {
	b, err := os.ReadFile(name)
	return string(b), err
}

func TestOpenStore(t *testing.T) {
	l := zap.NewNop().Sugar()
	ctx := context.Background()

	for _, backend := range []string{config.BackendFile, config.BackendMemory} {
		a, err := openStore(l, config.Prefs{Backend: backend, Dir: t.TempDir(), Name: "counters", Key: "key"})
		require.NoError(t, err, backend)
		require.NoError(t, a.Save(ctx, 12))
		v, ok, err := a.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 12, v)
	}
}

func TestNewViews(t *testing.T) {
	l := zap.NewNop().Sugar()
	hub := web.NewHub(l, time.Second)

	views, err := newViews(l, config.Config{Overlay: config.Overlay{File: filepath.Join(t.TempDir(), "o.txt"), Format: "%d"}}, hub)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = newViews(l, config.Config{}, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestNewFeedbackWithoutSound(t *testing.T) {
	l := zap.NewNop().Sugar()

	fb, err := newFeedback(l, config.Feedback{Vibration: config.Vibration{Enabled: true}}, nil)
	require.NoError(t, err)
	assert.Equal(t, feedback.Nop{}, fb, "vibration needs the web view")

	fb, err = newFeedback(l, config.Feedback{Vibration: config.Vibration{Enabled: true}}, web.NewHub(l, time.Second))
	require.NoError(t, err)
	assert.Len(t, fb, 1)

	_, err = newFeedback(l, config.Feedback{Sound: config.Sound{Enabled: true, IncrementFile: "missing.wav"}}, nil)
	assert.Error(t, err)
}
