package sync

import (
	"log/slog"

	"github.com/mikellez/lumen/git"
	"github.com/mikellez/lumen/internal/timer"
)

const (
	// DefaultHost is the host remote URLs are built from.
	DefaultHost = "github.com"
	// DefaultBranch is the single tracked branch.
	DefaultBranch = "main"
	// DefaultDepth is the clone depth.
	DefaultDepth = 1
)

// Option configures an Engine.
type Option func(*Engine)

// WithRemoteOperations replaces the go-git network implementation.
func WithRemoteOperations(ops git.RemoteOperations) Option {
	return func(e *Engine) {
		e.remote = ops
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHost sets the host used to build remote URLs.
func WithHost(host string) Option {
	return func(e *Engine) {
		e.host = host
	}
}

// WithBranch sets the tracked branch.
func WithBranch(branch string) Option {
	return func(e *Engine) {
		e.branch = branch
	}
}

// WithDepth sets the clone depth. 0 clones the full history.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		e.depth = depth
	}
}

// WithRecorder receives the duration of every operation.
func WithRecorder(r timer.Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}
