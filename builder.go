// This file implements the fluent builder for Splatpress instances.
// Builders are immutable - each method returns a new builder with the updated configuration.

package splatpress

import (
	"github.com/hupe1980/splatpress/attrpack"
	"github.com/hupe1980/splatpress/compressor"
	"github.com/hupe1980/splatpress/pipeline"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
)

// Builder is an immutable fluent builder for Splatpress instances.
// Each method returns a new builder with the updated configuration.
//
// Example:
//
//	sp, err := splatpress.NewBuilder().
//	    Bits(18).
//	    LogTransform(false).
//	    Compression(attrpack.CompressionLZ4).
//	    Build()
type Builder struct {
	cfg        pipeline.Config
	registry   *schema.Registry
	logger     *Logger
	metrics    MetricsCollector
	compressor compressor.Compressor
}

// NewBuilder starts from pipeline.DefaultConfig.
func NewBuilder() Builder {
	return Builder{cfg: pipeline.DefaultConfig()}
}

// Config replaces the whole pipeline configuration.
func (b Builder) Config(cfg pipeline.Config) Builder {
	b.cfg = cfg
	return b
}

// Element sets the element holding the points. Default: "vertex".
func (b Builder) Element(name string) Builder {
	b.cfg.Element = name
	return b
}

// Position sets the x, y and z property names.
func (b Builder) Position(x, y, z string) Builder {
	b.cfg.Position = []string{x, y, z}
	return b
}

// Bits sets the quantization depth per axis.
// Default: 16. Valid range: 1-21.
func (b Builder) Bits(bits int) Builder {
	b.cfg.Bits = bits
	return b
}

// LogTransform enables or disables the signed log transform of positions.
// Default: true.
func (b Builder) LogTransform(enabled bool) Builder {
	b.cfg.LogTransform = enabled
	return b
}

// GeometryFormat sets the format of the geometry file given to the compressor.
func (b Builder) GeometryFormat(f ply.Format) Builder {
	b.cfg.Format = f
	return b
}

// DecodeFormat sets the format of decoded containers. Empty keeps the
// format of the encoded source.
func (b Builder) DecodeFormat(f string) Builder {
	b.cfg.DecodeFormat = f
	return b
}

// Compression sets the attribute pack block compression. Default: zstd.
func (b Builder) Compression(c attrpack.Compression) Builder {
	b.cfg.Compression = c
	return b
}

// Codec sets the attribute pack manifest codec by name.
func (b Builder) Codec(name string) Builder {
	b.cfg.Codec = name
	return b
}

// Workers bounds per-point parallelism. <= 0 means GOMAXPROCS.
func (b Builder) Workers(n int) Builder {
	b.cfg.Workers = n
	return b
}

// Compressor sets the geometry compressor.
func (b Builder) Compressor(c compressor.Compressor) Builder {
	b.compressor = c
	return b
}

// Registry sets the schema registry.
func (b Builder) Registry(reg *schema.Registry) Builder {
	b.registry = reg
	return b
}

// Logger sets the logger.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Build validates the configuration and creates the instance.
func (b Builder) Build() (*Splatpress, error) {
	opts := []Option{WithConfig(b.cfg), WithRegistry(b.registry)}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	if b.compressor != nil {
		opts = append(opts, WithCompressor(b.compressor))
	}
	return New(opts...)
}
