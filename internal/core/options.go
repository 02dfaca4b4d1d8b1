package core

import (
	"log/slog"
	"time"
)

// Clock supplies timestamps for audit entries and metric durations.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Logger is the minimal structured logging surface used by the facade.
// Key-value pairs follow the message.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type slogLogger struct{ l *slog.Logger }

// NewSlogLogger adapts a *slog.Logger to the Logger interface.
func NewSlogLogger(l *slog.Logger) Logger { return slogLogger{l: l} }

func (s slogLogger) Debug(msg string, kv ...any) { s.l.Debug(msg, kv...) }
func (s slogLogger) Info(msg string, kv ...any)  { s.l.Info(msg, kv...) }
func (s slogLogger) Warn(msg string, kv ...any)  { s.l.Warn(msg, kv...) }
func (s slogLogger) Error(msg string, kv ...any) { s.l.Error(msg, kv...) }

type shapeOptions struct {
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	archive Archive
}

func defaultShapeOptions() shapeOptions {
	return shapeOptions{
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:  noopLogger{},
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
}

// Option customizes a Shape.
type Option func(*shapeOptions)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(o *shapeOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l Logger) Option {
	return func(o *shapeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAuditRecorder attaches an audit recorder.
func WithAuditRecorder(a AuditRecorder) Option {
	return func(o *shapeOptions) {
		if a != nil {
			o.audit = a
		}
	}
}

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(o *shapeOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer attaches a tracer.
func WithTracer(t Tracer) Option {
	return func(o *shapeOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithArchive attaches an archive; a snapshot is persisted after every
// successful insert.
func WithArchive(a Archive) Option {
	return func(o *shapeOptions) {
		o.archive = a
	}
}
