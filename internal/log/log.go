package log

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a SugaredLogger, overriding any default options with the input options,
// and installs it as zap's global logger.
//
// The default options configure a text logger at the debug level writing to stderr.
// New will panic if the logger cannot be built.
func New(options ...Option) *zap.SugaredLogger {
	lg, err := Build(options...)
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(lg.Desugar())
	return lg
}

// Build is New without the panic and without replacing the global logger.
func Build(options ...Option) (*zap.SugaredLogger, error) {
	const op = "log.Build"

	cfg := &Config{
		Level:        DebugLevel,
		Format:       TextFormat,
		GlobalFields: make(map[string]string),
	}
	for _, opt := range options {
		opt(cfg)
	}

	if cfg.OutputPaths == nil {
		WithOutputPaths("stderr")(cfg)
	}
	if cfg.ErrorOutputPaths == nil {
		WithErrorOutputPaths("stderr")(cfg)
	}

	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "lvl",
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: consoleSeparator,
	}

	enc, err := encoding(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if enc == "json" {
		encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = consoleTimeEncoder
	}
	if cfg.OmitTimestamp {
		encoderCfg.EncodeTime = nil
	} else {
		encoderCfg.TimeKey = "ts"
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         enc,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
		EncoderConfig:    encoderCfg,
	}

	lg, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(cfg.GlobalFields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.GlobalFields))
		for k, v := range cfg.GlobalFields {
			fields = append(fields, zap.String(k, v))
		}
		lg = lg.With(fields...)
	}
	return lg.Sugar(), nil
}

// Validate reports whether Build accepts level and format.
func Validate(level, format string) error {
	if _, err := parseLevel(level); err != nil {
		return err
	}
	_, err := encoding(format)
	return err
}

// encoding maps a configured format onto a zap encoder name.
func encoding(format string) (string, error) {
	switch strings.ToLower(format) {
	case JSONFormat:
		return "json", nil
	case TextFormat, "":
		return "console", nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// parseLevel maps a configured level name onto a zap level, empty means debug.
func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.DebugLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return lvl, err
	}
	return lvl, nil
}

type contextKey int

const logContextKey contextKey = 0

type logContext map[interface{}]interface{}

// Put returns a copy of ctx annotated with keyvals, which With adds to every message.
func Put(ctx context.Context, keyvals ...interface{}) context.Context {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "(MISSING)")
	}

	prev := from(ctx)
	v := make(logContext, len(prev)+len(keyvals)/2)
	for k, val := range prev {
		v[k] = val
	}
	for i := 0; i < len(keyvals); i += 2 {
		v[keyvals[i]] = keyvals[i+1]
	}

	return context.WithValue(ctx, logContextKey, v)
}

func from(ctx context.Context) logContext {
	if v, ok := ctx.Value(logContextKey).(logContext); ok {
		return v
	}
	return logContext{}
}

// With returns l annotated with the keyvals stored in ctx by Put.
func With(ctx context.Context, l *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return l
	}

	vals := from(ctx)
	if len(vals) == 0 {
		return l
	}
	args := make([]interface{}, 0, 2*len(vals))
	for k, v := range vals {
		args = append(args, k, v)
	}
	return l.With(args...)
}

// IfErr logs an error if fn returns one, prefixed by msgs joined with spaces.
//	e.g. "prefs.FileStore failed to save counters: inner err here"
func IfErr(l *zap.SugaredLogger, fn func() error, msgs ...string) {
	if err := fn(); err != nil {
		if len(msgs) > 0 {
			l.Errorf("%s: %v", strings.Join(msgs, " "), err)
		} else {
			l.Error(err)
		}
	}
}

// StandardLog adapts l for libraries that want a *log.Logger, e.g. http.Server.ErrorLog.
func StandardLog(l *zap.SugaredLogger) *log.Logger {
	return zap.NewStdLog(l.Desugar())
}
