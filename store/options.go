package store

import "go.uber.org/zap"

const defaultBufferSize = 16

type options struct {
	bufferSize int
	logger     *zap.Logger
}

// Option configures a store.
type Option func(*options)

// WithBufferSize sets how many dispatches may wait for the worker.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithLogger sets the logger for store diagnostics. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		bufferSize: defaultBufferSize,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
