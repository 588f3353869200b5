package attrpack

import (
	"io"
	"log/slog"

	"github.com/hupe1980/splatpress/codec"
	"github.com/hupe1980/splatpress/internal/fs"
)

type options struct {
	codec       codec.Codec
	compression Compression
	blockSize   int
	fsys        fs.FileSystem
	logger      *slog.Logger
}

// Option configures a Writer or Reader.
type Option func(*options)

// WithCodec sets the manifest codec. Nil selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = codec.OrDefault(c)
	}
}

// WithCompression sets the column compression. The default is ZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed block size in bytes.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithFileSystem sets the file system used for writes.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithLogger sets the logger. Nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func applyOptions(opts []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
		blockSize:   defaultBlockSize,
	}
	for _, fn := range opts {
		fn(&o)
	}
	o.fsys = fs.OrDefault(o.fsys)
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
