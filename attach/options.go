package attach

import (
	"log/slog"
	"time"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithConnectivity sets the connectivity check. Without it the workflow
// assumes it is online.
func WithConnectivity(c Connectivity) Option {
	return func(w *Workflow) {
		w.connectivity = c
	}
}

// WithPreviews replaces the default in-memory preview cache.
func WithPreviews(p PreviewCache) Option {
	return func(w *Workflow) {
		w.previews = p
	}
}

// WithClock sets the clock file identifiers are derived from.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// WithLogger sets the workflow logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// WithErrorSink receives failures of background commits.
func WithErrorSink(sink func(error)) Option {
	return func(w *Workflow) {
		w.sink = sink
	}
}
