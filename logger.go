package curveclust

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with curveclust-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRun tags every record with a run identifier.
func (l *Logger) WithRun(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogRun logs a finished clustering run.
func (l *Logger) LogRun(ctx context.Context, points, clusters int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"points", points,
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"points", points,
			"clusters", clusters,
			"duration", duration,
		)
	}
}

// LogPhase logs one pipeline phase of a run.
func (l *Logger) LogPhase(ctx context.Context, phase Phase, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "phase failed",
			"phase", phase,
			"duration", duration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "phase completed",
			"phase", phase,
			"duration", duration,
		)
	}
}

// LogEstimate logs the linkage parameters a run clusters with.
func (l *Logger) LogEstimate(ctx context.Context, params LinkageParameters, estimated bool) {
	l.InfoContext(ctx, "linkage parameters",
		"linkage_distance", params.LinkageDistance,
		"density_threshold", params.DensityThreshold,
		"min_density_count", params.MinDensityCount,
		"estimated", estimated,
	)
}

// LogCompare logs a B-Cubed comparison.
func (l *Logger) LogCompare(ctx context.Context, points int, fmeasure float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compare failed",
			"points", points,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compare completed",
			"points", points,
			"fmeasure", fmeasure,
		)
	}
}
