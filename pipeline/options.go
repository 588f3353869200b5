package pipeline

import (
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/splatpress/compressor"
	"github.com/hupe1980/splatpress/internal/fs"
)

// Recorder receives stage timings and output sizes.
type Recorder interface {
	RecordStage(name string, d time.Duration, points int)
	RecordBytes(name string, n int64)
}

type noopRecorder struct{}

func (noopRecorder) RecordStage(string, time.Duration, int) {}
func (noopRecorder) RecordBytes(string, int64)              {}

type options struct {
	logger     *slog.Logger
	recorder   Recorder
	compressor compressor.Compressor
	fsys       fs.FileSystem
}

// Option configures an Encoder or Decoder.
type Option func(*options)

// WithLogger sets the logger. Nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRecorder sets the stage recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithCompressor overrides the compressor built from Config.Compressor.
func WithCompressor(c compressor.Compressor) Option {
	return func(o *options) {
		o.compressor = c
	}
}

// WithFileSystem sets the file system outputs are written through.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

func applyOptions(cfg Config, opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.recorder == nil {
		o.recorder = noopRecorder{}
	}
	if o.compressor == nil && cfg.Compressor.Enabled() {
		o.compressor = compressor.NewExec(cfg.Compressor, compressor.WithLogger(o.logger))
	}
	o.fsys = fs.OrDefault(o.fsys)
	return o
}
