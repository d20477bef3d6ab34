// Package worker runs game jobs from the queue on a pool of goroutines.
package worker

import (
	"time"

	"github.com/okian/rapm/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithTimeout bounds the time one job may take. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(w *InMemoryWorker) {
		if d >= 0 {
			w.timeout = d
		}
	}
}

// WithErrorHandler is called with every job that fails.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *InMemoryWorker) {
		if h != nil {
			w.onError = h
		}
	}
}
