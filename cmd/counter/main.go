package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1gm/counter/binder"
	"github.com/1gm/counter/config"
	"github.com/1gm/counter/hotkeys"
	"github.com/1gm/counter/internal/log"
	"github.com/1gm/counter/web"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("c", "", "config file path (yaml, json or toml), settings can also come from COUNTER_* variables")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := realMain(ctx, *configFile)
	stop()
	os.Exit(code)
}

// realMain runs the counter until ctx is done and returns the exit code.
func realMain(ctx context.Context, configFile string) int {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fail(err)
	}

	l, err := newLogger(cfg.Log)
	if err != nil {
		return fail(err)
	}
	defer l.Sync()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := openStore(l, cfg.Prefs)
	if err != nil {
		l.Error(err)
		return 1
	}

	var hub *web.Hub
	if cfg.HTTP.Addr != "" {
		hub = web.NewHub(l, cfg.HTTP.WriteTimeout)
	}
	views, err := newViews(l, cfg, hub)
	if err != nil {
		l.Error(err)
		return 1
	}
	fb, err := newFeedback(l, cfg.Feedback, hub)
	if err != nil {
		l.Error(err)
		return 1
	}

	b := binder.New(l, store, fb, binder.Options{Autosave: cfg.Prefs.Autosave}, views...)
	binderErr := make(chan error, 1)
	go func() { binderErr <- b.Run(ctx) }()

	go reloadOnHangup(ctx, l, b)

	var server *http.Server
	if hub != nil {
		server = &http.Server{
			Addr:     cfg.HTTP.Addr,
			Handler:  web.NewRouter(ctx, l, hub, b),
			ErrorLog: log.StandardLog(l),
		}
		go func() {
			l.Infof("serving the counter on %s", cfg.HTTP.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Errorf("http server stopped: %v", err)
				cancel()
			}
		}()
	}

	if cfg.Hotkeys.Enabled {
		go listenHotkeys(ctx, l, cfg.Hotkeys, b)
	}

	var exitCode int
	if err = <-binderErr; err != nil {
		l.Error(err)
		exitCode = 1
	}

	if server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			l.Errorf("server failed to shut down: %v", err)
			exitCode = 1
		}
	}

	l.Info("shutting down")
	return exitCode
}

// fail reports err through a default logger, for errors before the configured one exists.
func fail(err error) int {
	l := log.New()
	l.Error(err)
	_ = l.Sync()
	return 1
}

// reloadOnHangup rereads the stored value on SIGHUP, which matters when the
// store is shared with another machine.
func reloadOnHangup(ctx context.Context, l *zap.SugaredLogger, b *binder.Binder) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP)
	defer signal.Stop(c)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c:
			if s, err := b.Reload(ctx); err != nil {
				l.Warnf("reload: %v", err)
			} else {
				l.Infof("reloaded value %d", s.Value)
			}
		}
	}
}

func listenHotkeys(ctx context.Context, l *zap.SugaredLogger, cfg config.Hotkeys, b *binder.Binder) {
	increment, err := hotkeys.Parse(cfg.Increment, func() error { _, err := b.Increment(ctx); return err })
	if err != nil {
		l.Error(err)
		return
	}
	decrement, err := hotkeys.Parse(cfg.Decrement, func() error { _, err := b.Decrement(ctx); return err })
	if err != nil {
		l.Error(err)
		return
	}

	l.Infof("registering (%s) to increment and (%s) to decrement", increment, decrement)
	err = hotkeys.Listen(ctx, func(err error) { l.Error(err) }, increment, decrement)
	if errors.Is(err, hotkeys.ErrUnsupported) {
		l.Warn(err)
	} else if err != nil {
		l.Errorf("hotkeys stopped: %v", err)
	}
}
