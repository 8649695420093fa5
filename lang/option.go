package lang

import (
	"io"
	"os"

	"github.com/ardnew/clearsys/log"
)

// DefaultMaxDepth is the default maximum depth of nested function calls.
// Users may modify this before running to change the default.
//
//nolint:gochecknoglobals
var DefaultMaxDepth = 10000

// options holds parse and evaluation settings.
type options struct {
	logger   log.Logger // zero value is a silent no-op
	output   io.Writer
	maxDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the writer receiving print output. The default is
// os.Stdout. A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.output = w
	}
}

// WithMaxDepth sets the maximum depth of nested function calls.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// makeOptions applies opts over the defaults.
func makeOptions(opts ...Option) options {
	o := options{
		output:   os.Stdout,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}
