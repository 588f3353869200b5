package splatpress

import (
	"log/slog"

	"github.com/hupe1980/splatpress/compressor"
	"github.com/hupe1980/splatpress/pipeline"
	"github.com/hupe1980/splatpress/schema"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	registry         *schema.Registry
	config           pipeline.Config
	compressor       compressor.Compressor
}

// Option configures a Splatpress instance.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := splatpress.NewJSONLogger(slog.LevelInfo)
//	sp, _ := splatpress.New(splatpress.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
//	metrics := &splatpress.BasicMetricsCollector{}
//	sp, _ := splatpress.New(splatpress.WithMetricsCollector(metrics))
//	// ... encode ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithRegistry sets the schema registry. Default: schema.Default().
func WithRegistry(reg *schema.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithConfig sets the pipeline configuration. Default: pipeline.DefaultConfig().
func WithConfig(cfg pipeline.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithCompressor sets the geometry compressor, overriding the one described
// by the configuration.
func WithCompressor(c compressor.Compressor) Option {
	return func(o *options) {
		o.compressor = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		config:           pipeline.DefaultConfig(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.registry == nil {
		o.registry = schema.Default()
	}
	return o
}
