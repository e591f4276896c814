package trackgo

import "runtime"

type options struct {
	logger     *Logger
	maxWorkers int
}

// Option configures builder behavior.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:     NoopLogger(),
		maxWorkers: runtime.GOMAXPROCS(0),
	}
}

// WithLogger configures the logger used by the builder.
//
// If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxWorkers configures the number of goroutines used for parallel
// class evaluation during Filter.
//
// If n <= 0, GOMAXPROCS is used. n = 1 makes Filter fully sequential.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxWorkers = n
		}
	}
}
