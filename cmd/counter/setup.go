package main

import (
	"github.com/1gm/counter"
	"github.com/1gm/counter/binder"
	"github.com/1gm/counter/config"
	"github.com/1gm/counter/feedback"
	"github.com/1gm/counter/internal/log"
	"github.com/1gm/counter/overlay"
	"github.com/1gm/counter/prefs"
	"github.com/1gm/counter/web"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func newLogger(cfg config.Log) (*zap.SugaredLogger, error) {
	opts := []log.Option{
		log.WithLevel(cfg.Level),
		log.WithFormat(cfg.Format),
		log.WithFields("app", "counter"),
		log.WithOutputPaths(cfg.File),
		log.WithErrorOutputPaths(cfg.File),
	}
	if cfg.OmitTimestamp {
		opts = append(opts, log.WithOmitTimestamp())
	}
	return log.Build(opts...)
}

func openStore(l *zap.SugaredLogger, cfg config.Prefs) (*prefs.Adapter, error) {
	var store prefs.Store
	switch cfg.Backend {
	case config.BackendDynamoDB:
		opts := session.Options{SharedConfigState: session.SharedConfigEnable}
		if cfg.Region != "" {
			opts.Config.Region = aws.String(cfg.Region)
		}
		sess, err := session.NewSessionWithOptions(opts)
		if err != nil {
			return nil, errors.Wrap(err, "create aws session for dynamodb preferences")
		}
		store = prefs.NewDynamoStore(dynamodb.New(sess), cfg.Table, cfg.Name)
		l.Infof("using dynamodb table %s for preferences %q", cfg.Table, cfg.Name)
	case config.BackendMemory:
		store = prefs.NewMemoryStore()
		l.Warn("using in-memory preferences, the value will not survive a restart")
	default:
		fs := prefs.NewFileStore(cfg.Dir, cfg.Name)
		store = fs
		l.Infof("using %s as preferences file", fs.Path())
	}
	return prefs.NewAdapter(store, cfg.Key, counter.Default), nil
}

func newViews(l *zap.SugaredLogger, cfg config.Config, hub *web.Hub) ([]binder.View, error) {
	var views []binder.View
	if hub != nil {
		views = append(views, hub)
	}
	if cfg.Overlay.File != "" {
		ov, err := overlay.New(l, cfg.Overlay.File, cfg.Overlay.Format)
		if err != nil {
			return nil, err
		}
		l.Infof("using %s as overlay file", cfg.Overlay.File)
		views = append(views, ov)
	}
	return views, nil
}

// newFeedback builds whichever of sound and vibration is enabled. Vibration
// needs a page to vibrate, so it is skipped without the web view. A missing
// audio device disables sound with a warning instead of failing startup.
func newFeedback(l *zap.SugaredLogger, cfg config.Feedback, hub *web.Hub) (feedback.Feedback, error) {
	var fb feedback.Multi

	if cfg.Vibration.Enabled && hub != nil {
		fb = append(fb, feedback.NewVibration(l, hub, cfg.Vibration.Increment, cfg.Vibration.Decrement))
	}

	if cfg.Sound.Enabled {
		sounds, err := feedback.LoadSounds(cfg.Sound.IncrementFile, cfg.Sound.DecrementFile)
		if err != nil {
			return nil, err
		}
		if play, err := feedback.Speaker(); err != nil {
			l.Warnf("sound feedback disabled: %v", err)
		} else {
			fb = append(fb, feedback.NewSound(l, play, feedback.MediaVolume(cfg.Sound.MediaVolume, cfg.Sound.MaxMediaVolume), sounds))
		}
	}

	if len(fb) == 0 {
		return feedback.Nop{}, nil
	}
	return fb, nil
}
