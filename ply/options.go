package ply

import (
	"io"
	"log/slog"

	"github.com/hupe1980/splatpress/internal/fs"
)

type options struct {
	logger *slog.Logger
	fsys   fs.FileSystem
}

// Option configures a Reader or Writer.
type Option func(*options)

// WithLogger sets the logger. Nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFileSystem sets the file system writes go through.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o.fsys = fs.OrDefault(o.fsys)
	return o
}
