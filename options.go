package ui

import (
	"go.uber.org/zap"
)

type options struct {
	logger    *zap.Logger
	metrics   *Metrics
	loop      FrameLoop
	config    Config
	hasConfig bool
}

// Option configures a Renderer or a Scene.
type Option func(*options)

// WithLogger sets the logger. The default logger discards everything unless
// a Config with a LogLevel is given.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the collectors updated during reconciliation.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLoop sets the frame loop driving a Scene.
func WithLoop(l FrameLoop) Option {
	return func(o *options) { o.loop = l }
}

// WithConfig sets the configuration used to build the defaults of the other
// options.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
		o.hasConfig = true
	}
}

func newOptions(opts []Option) (*options, error) {
	o := &options{config: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	if o.hasConfig {
		if err := o.config.Validate(); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		l, err := NewLogger(o.config)
		if err != nil {
			return nil, err
		}
		o.logger = l
	}
	if o.metrics == nil && o.config.Metrics {
		m, err := DefaultMetrics()
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	if o.metrics == nil {
		o.metrics = nopMetrics()
	}
	return o, nil
}
