package lightning

import "github.com/charmbracelet/log"

// Option configures a Builder or Generator.
type Option func(*options)

type options struct {
	logger *log.Logger
	picker Representative
}

// WithLogger sets the logger for per-layer debug output and the summary.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRepresentative sets the strategy that picks where a new need
// component joins the forest. The default is CentroidPicker.
func WithRepresentative(r Representative) Option {
	return func(o *options) {
		if r != nil {
			o.picker = r
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger: log.Default(),
		picker: CentroidPicker{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
