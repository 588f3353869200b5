package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hupe1980/splatpress/attrpack"
	"github.com/hupe1980/splatpress/codec"
	"github.com/hupe1980/splatpress/morton"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/quantization"
	"github.com/hupe1980/splatpress/schema"
	"github.com/hupe1980/splatpress/transform"
)

// Encoder turns a container into geometry, attribute pack and (optionally)
// compressed geometry.
type Encoder struct {
	reg  *schema.Registry
	cfg  Config
	opts options
}

// NewEncoder validates cfg and returns an Encoder.
func NewEncoder(reg *schema.Registry, cfg Config, opts ...Option) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{reg: reg, cfg: cfg, opts: applyOptions(cfg, opts)}, nil
}

// Encode processes inPath into outDir. On error every file written by the
// call is removed again.
func (e *Encoder) Encode(ctx context.Context, inPath, outDir string) (res *Result, err error) {
	r := newRun(e.opts, "op", "encode", "input", inPath)
	defer func() {
		if err != nil {
			r.rollback()
		}
	}()

	var ds *ply.Dataset
	if err := r.stage(StageRead, inPath, func() error {
		var err error
		ds, err = ply.NewReader(e.reg, ply.WithLogger(r.logger)).ReadFile(inPath)
		return err
	}); err != nil {
		return nil, err
	}

	es, ok := ds.Schema(e.cfg.Element)
	if !ok {
		return nil, &Error{Stage: StageRead, Path: inPath,
			Err: fmt.Errorf("%w: element %q", ply.ErrNotFound, e.cfg.Element)}
	}
	r.res.Points = es.Count

	// box is the quantization domain. It is in log space when LogTransform
	// is set, while Result.BoundingBox stays linear.
	var (
		points [][]float32
		box    quantization.BoundingBox
	)
	if err := r.stage(StageTransform, inPath, func() error {
		var err error
		if points, err = ds.Float32s(e.cfg.Element, e.cfg.Position...); err != nil {
			return err
		}
		if r.res.BoundingBox, err = quantization.ComputeBoundingBox(points); err != nil {
			return err
		}
		box = r.res.BoundingBox
		if !e.cfg.LogTransform {
			return nil
		}
		return transform.LogInPlace(ctx, points, &box, e.cfg.Workers)
	}); err != nil {
		return nil, err
	}

	var ints [][]uint32
	if err := r.stage(StageQuantize, inPath, func() error {
		q, err := quantization.New(e.cfg.Bits, quantization.WithWorkers(e.cfg.Workers))
		if err != nil {
			return err
		}
		ints, err = q.Quantize(ctx, points, box)
		return err
	}); err != nil {
		return nil, err
	}

	var perm []int
	if err := r.stage(StageSort, inPath, func() error {
		keys, err := morton.Keys(ctx, ints, e.cfg.Workers)
		if err != nil {
			return err
		}
		perm = morton.SortedIndices(keys)
		r.res.Duplicates = int(morton.Duplicates(keys, perm).GetCardinality())
		return nil
	}); err != nil {
		return nil, err
	}
	if r.res.Duplicates > 0 {
		r.logger.Warn("points share quantized cells", "duplicates", r.res.Duplicates, "bits", e.cfg.Bits)
	}

	// Every column of the element moves with the same permutation before
	// anything downstream reads it.
	if err := r.stage(StageReorder, inPath, func() error {
		moved, err := morton.ApplyAll(ints, perm)
		if err != nil {
			return err
		}
		ints = moved
		return reorderElement(ds, es, perm)
	}); err != nil {
		return nil, err
	}

	geomPath := filepath.Join(outDir, e.cfg.GeometryFile)
	packPath := filepath.Join(outDir, e.cfg.AttributesFile)
	if err := r.stage(StageWrite, outDir, func() error {
		if err := e.writeGeometry(geomPath, ds, es, ints); err != nil {
			return err
		}
		r.written("geometry", geomPath)
		if err := e.writePack(packPath, filepath.Base(inPath), ds, es, box, r.res); err != nil {
			return err
		}
		r.written("attributes", packPath)
		return nil
	}); err != nil {
		return nil, err
	}

	if e.opts.compressor != nil {
		binPath := filepath.Join(outDir, e.cfg.CompressedFile)
		if err := r.stage(StageCompress, binPath, func() error {
			err := e.opts.compressor.Compress(ctx, geomPath, binPath)
			if err != nil {
				// The command may have left a partial file behind.
				if rmErr := e.opts.fsys.Remove(binPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
					r.logger.Warn("removing partial output failed", "path", binPath, "error", rmErr)
				}
			}
			return err
		}); err != nil {
			return nil, err
		}
		r.written("compressed", binPath)
	}

	r.logger.Info("encoded", "points", r.res.Points, "duplicates", r.res.Duplicates,
		"bbox", r.res.BoundingBox.String(), "files", len(r.res.Files))
	return r.res, nil
}

func reorderElement(ds *ply.Dataset, es *schema.ElementSchema, perm []int) error {
	el, err := ds.Element(es.Name)
	if err != nil {
		return err
	}
	for _, name := range es.PropertyNames() {
		col, err := el.Property(name)
		if err != nil {
			return err
		}
		moved, err := morton.Apply(col, perm)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", es.Name, name, err)
		}
		el.SetProperty(name, moved)
	}
	return nil
}

// writeGeometry stores the quantized coordinates as floats (exact below
// 2^24) in a container holding only the position properties.
func (e *Encoder) writeGeometry(path string, ds *ply.Dataset, es *schema.ElementSchema, ints [][]uint32) error {
	geo := ply.NewDataset()
	geo.AddElement(es)
	el, err := ds.Element(es.Name)
	if err != nil {
		return err
	}
	for name, col := range el.Properties {
		geo.SetProperty(es.Name, name, col)
	}
	if err := geo.SetFloat32s(es.Name, e.cfg.Position, quantization.CastAxes[float32](ints)); err != nil {
		return err
	}
	return ply.NewWriter(e.reg, ply.WithLogger(e.opts.logger), ply.WithFileSystem(e.opts.fsys)).
		WriteFileMasked(path, geo, e.cfg.Format, e.cfg.Position)
}

// writePack stores every non-position column plus the manifest.
func (e *Encoder) writePack(path, source string, ds *ply.Dataset, es *schema.ElementSchema,
	box quantization.BoundingBox, res *Result) error {
	view := ply.NewDataset()
	view.Format = ds.Format
	for _, s := range ds.Schemas {
		view.AddElement(s)
		el, err := ds.Element(s.Name)
		if err != nil {
			return err
		}
		for name, col := range el.Properties {
			if s.Name == es.Name && slices.Contains(e.cfg.Position, name) {
				continue
			}
			view.SetProperty(s.Name, name, col)
		}
	}

	c, _ := codec.ByName(e.cfg.Codec)
	w := attrpack.NewWriter(
		attrpack.WithCodec(c),
		attrpack.WithCompression(e.cfg.Compression),
		attrpack.WithFileSystem(e.opts.fsys),
		attrpack.WithLogger(e.opts.logger),
	)
	return w.WriteFile(path, &attrpack.Pack{
		Dataset: view,
		Geometry: &attrpack.Geometry{
			Element:      es.Name,
			Position:     e.cfg.Position,
			Bits:         e.cfg.Bits,
			LogTransform: e.cfg.LogTransform,
			BoundingBox:  box,
			Points:       res.Points,
			Duplicates:   res.Duplicates,
		},
		SourceFormat: ds.Format,
		Meta:         map[string]string{"source": source},
	})
}
