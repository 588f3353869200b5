package compressor

import (
	"context"
	"io"
	"os"

	"github.com/hupe1980/splatpress/internal/fs"
)

// Passthrough copies the input unchanged. It stands in for a real
// compressor when only the pre/post-processing is wanted.
type Passthrough struct {
	FS fs.FileSystem
}

// Name returns "passthrough".
func (Passthrough) Name() string { return "passthrough" }

// Compress copies input to output.
func (p Passthrough) Compress(ctx context.Context, input, output string) error {
	return p.copy(ctx, input, output)
}

// Decompress copies input to output.
func (p Passthrough) Decompress(ctx context.Context, input, output string) error {
	return p.copy(ctx, input, output)
}

func (p Passthrough) copy(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := fs.OrDefault(p.FS).OpenFile(input, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer in.Close()
	return fs.SaveFile(p.FS, output, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
