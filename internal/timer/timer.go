// Package timer brackets operations with named duration timers.
//
//	t := timer.Start("clone", timer.WithLogger(logger), timer.WithRecorder(metrics))
//	defer t.Stop()
//
// Stop is idempotent, so an explicit Stop on the success path can coexist
// with a deferred one.
package timer

import (
	"log/slog"
	"sync"
	"time"
)

// Recorder receives the duration of every stopped timer.
type Recorder interface {
	RecordLatency(operation string, duration time.Duration)
}

// Timer measures one invocation of a named operation.
type Timer struct {
	name     string
	start    time.Time
	logger   *slog.Logger
	recorder Recorder
	attrs    []any
	now      func() time.Time

	once    sync.Once
	elapsed time.Duration
}

// Option configures a Timer.
type Option func(*Timer)

// WithLogger logs the duration at debug level when the timer stops.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timer) {
		t.logger = logger
	}
}

// WithRecorder forwards the duration to r.
func WithRecorder(r Recorder) Option {
	return func(t *Timer) {
		t.recorder = r
	}
}

// WithAttrs adds slog attributes to the stop log line.
func WithAttrs(attrs ...any) Option {
	return func(t *Timer) {
		t.attrs = append(t.attrs, attrs...)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// Start starts a timer named name.
func Start(name string, opts ...Option) *Timer {
	t := &Timer{name: name, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.now()
	return t
}

// Name returns the operation name.
func (t *Timer) Name() string {
	return t.name
}

// Stop stops the timer and returns the elapsed time. Only the first call
// logs and records; later calls return the same duration.
func (t *Timer) Stop() time.Duration {
	t.once.Do(func() {
		t.elapsed = t.now().Sub(t.start)
		if t.logger != nil {
			args := append([]any{"op", t.name, "duration", t.elapsed}, t.attrs...)
			t.logger.Debug("operation finished", args...)
		}
		if t.recorder != nil {
			t.recorder.RecordLatency(t.name, t.elapsed)
		}
	})
	return t.elapsed
}
