package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hupe1980/splatpress/attrpack"
	"github.com/hupe1980/splatpress/internal/conv"
	"github.com/hupe1980/splatpress/morton"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/quantization"
	"github.com/hupe1980/splatpress/schema"
	"github.com/hupe1980/splatpress/transform"
)

// Decoder rebuilds a full container from an encoder output directory.
type Decoder struct {
	reg  *schema.Registry
	cfg  Config
	opts options
}

// NewDecoder validates cfg and returns a Decoder.
func NewDecoder(reg *schema.Registry, cfg Config, opts ...Option) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{reg: reg, cfg: cfg, opts: applyOptions(cfg, opts)}, nil
}

// Decode reads inDir and writes the restored container to outPath. Points
// come out in Morton order.
func (d *Decoder) Decode(ctx context.Context, inDir, outPath string) (res *Result, err error) {
	r := newRun(d.opts, "op", "decode", "input", inDir)
	defer func() {
		if err != nil {
			r.rollback()
		}
	}()

	packPath := filepath.Join(inDir, d.cfg.AttributesFile)
	var pack *attrpack.Pack
	if err := r.stage(StageRead, packPath, func() error {
		var err error
		pack, err = attrpack.NewReader(d.reg, attrpack.WithLogger(r.logger)).ReadFile(packPath)
		return err
	}); err != nil {
		return nil, err
	}
	g := pack.Geometry
	if g == nil {
		return nil, &Error{Stage: StageRead, Path: packPath, Err: ErrMissingGeometry}
	}
	r.res.Points = g.Points

	geomPath := filepath.Join(inDir, d.cfg.GeometryFile)
	if d.opts.compressor != nil {
		tmpDir, err := d.opts.fsys.MkdirTemp("", "splatpress-decode-*")
		if err != nil {
			return nil, &Error{Stage: StageDecompress, Err: err}
		}
		defer func() {
			if rmErr := d.opts.fsys.RemoveAll(tmpDir); rmErr != nil {
				r.logger.Warn("removing temp dir failed", "path", tmpDir, "error", rmErr)
			}
		}()

		binPath := filepath.Join(inDir, d.cfg.CompressedFile)
		geomPath = filepath.Join(tmpDir, d.cfg.GeometryFile)
		if err := r.stage(StageDecompress, binPath, func() error {
			return d.opts.compressor.Decompress(ctx, binPath, geomPath)
		}); err != nil {
			return nil, err
		}
	}

	var ints [][]uint32
	if err := r.stage(StageRead, geomPath, func() error {
		var err error
		ints, err = d.readGeometry(geomPath, g)
		return err
	}); err != nil {
		return nil, err
	}

	if err := r.stage(StageSort, geomPath, func() error {
		keys, err := morton.Keys(ctx, ints, d.cfg.Workers)
		if err != nil {
			return err
		}
		perm := morton.SortedIndices(keys)
		sorted, err := morton.ApplyAll(ints, perm)
		if err != nil {
			return err
		}
		ints = sorted
		return nil
	}); err != nil {
		return nil, err
	}

	var points [][]float32
	if err := r.stage(StageDequantize, geomPath, func() error {
		q, err := quantization.New(g.Bits, quantization.WithWorkers(d.cfg.Workers))
		if err != nil {
			return err
		}
		if points, err = q.Dequantize(ctx, ints, g.BoundingBox); err != nil {
			return err
		}
		r.res.BoundingBox = g.BoundingBox
		if !g.LogTransform {
			return nil
		}
		return transform.ExpInPlace(ctx, points, &r.res.BoundingBox, d.cfg.Workers)
	}); err != nil {
		return nil, err
	}

	out := pack.Dataset
	if err := r.stage(StageRestore, packPath, func() error {
		return out.SetFloat32s(g.Element, g.Position, points)
	}); err != nil {
		return nil, err
	}

	format := pack.SourceFormat
	if d.cfg.DecodeFormat != "" {
		format, _ = ply.ParseFormat(d.cfg.DecodeFormat)
	}
	if err := r.stage(StageWrite, outPath, func() error {
		w := ply.NewWriter(d.reg, ply.WithLogger(r.logger), ply.WithFileSystem(d.opts.fsys))
		return w.WriteFile(outPath, out, format)
	}); err != nil {
		return nil, err
	}
	r.written("output", outPath)

	r.logger.Info("decoded", "points", r.res.Points, "output", outPath, "format", format.String())
	return r.res, nil
}

// readGeometry loads the quantized coordinates and checks they match the
// manifest.
func (d *Decoder) readGeometry(path string, g *attrpack.Geometry) ([][]uint32, error) {
	if len(g.Position) != quantization.Dims {
		return nil, fmt.Errorf("%w: pack names %d position properties", quantization.ErrDimensionMismatch, len(g.Position))
	}
	geo, err := ply.NewReader(d.reg, ply.WithLogger(d.opts.logger)).ReadFile(path)
	if err != nil {
		return nil, err
	}
	floats, err := geo.Float32s(g.Element, g.Position...)
	if err != nil {
		return nil, err
	}
	if n := len(floats[0]); n != g.Points {
		return nil, fmt.Errorf("%w: geometry has %d points, pack has %d", ErrPointCountMismatch, n, g.Points)
	}

	if g.Bits < quantization.MinBits || g.Bits > quantization.MaxBits {
		return nil, fmt.Errorf("%w: pack declares %d bits", quantization.ErrInvalidBits, g.Bits)
	}
	limit := uint32(1)<<g.Bits - 1
	ints := make([][]uint32, len(floats))
	for a, axis := range floats {
		if ints[a], err = conv.Float32sToUint32s(axis, limit); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotQuantized, g.Position[a], err)
		}
	}
	return ints, nil
}
