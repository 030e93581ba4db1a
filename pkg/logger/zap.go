package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger adapts a zap logger to Logger. Map objects become
// individual fields; anything else is attached as "obj".
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return zapLogger{l: l}
}

func (z zapLogger) Info(msg string, obj any)  { z.l.Info(msg, fields(obj)...) }
func (z zapLogger) Warn(msg string, obj any)  { z.l.Warn(msg, fields(obj)...) }
func (z zapLogger) Debug(msg string, obj any) { z.l.Debug(msg, fields(obj)...) }
func (z zapLogger) Error(msg string, obj any) { z.l.Error(msg, fields(obj)...) }

func fields(obj any) []zap.Field {
	switch v := obj.(type) {
	case nil:
		return nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]zap.Field, 0, len(keys))
		for _, k := range keys {
			out = append(out, zap.Any(k, v[k]))
		}
		return out
	default:
		return []zap.Field{zap.Any("obj", v)}
	}
}

// NewCLIZap builds the console logger used by the command line: stderr,
// no stack traces, debug level when verbose and warn level otherwise.
func NewCLIZap(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return cfg.Build()
}
