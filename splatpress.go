package splatpress

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/splatpress/internal/fs"
	"github.com/hupe1980/splatpress/pipeline"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
)

// Splatpress bundles a schema registry, a pipeline configuration and the
// ambient logger and metrics. It is safe for concurrent use; every call
// builds its own encoder or decoder.
type Splatpress struct {
	reg        *schema.Registry
	cfg        pipeline.Config
	logger     *Logger
	metrics    MetricsCollector
	pipeOpts   []pipeline.Option
	plyOptions []ply.Option
}

// New validates the options and returns a ready instance.
func New(optFns ...Option) (*Splatpress, error) {
	o := applyOptions(optFns)
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(o.logger.Logger),
		pipeline.WithRecorder(o.metricsCollector),
	}
	if o.compressor != nil {
		pipeOpts = append(pipeOpts, pipeline.WithCompressor(o.compressor))
	}

	return &Splatpress{
		reg:        o.registry,
		cfg:        o.config,
		logger:     o.logger,
		metrics:    o.metricsCollector,
		pipeOpts:   pipeOpts,
		plyOptions: []ply.Option{ply.WithLogger(o.logger.Logger)},
	}, nil
}

// Registry returns the schema registry.
func (sp *Splatpress) Registry() *schema.Registry { return sp.reg }

// Config returns a copy of the pipeline configuration.
func (sp *Splatpress) Config() pipeline.Config { return sp.cfg }

// Read parses the container at path.
func (sp *Splatpress) Read(path string) (*ply.Dataset, error) {
	return ply.NewReader(sp.reg, sp.plyOptions...).ReadFile(path)
}

// Info reads path and describes its elements.
func (sp *Splatpress) Info(path string) ([]ply.ElementInfo, ply.Format, error) {
	ds, err := sp.Read(path)
	if err != nil {
		return nil, 0, err
	}
	return ds.Describe(), ds.Format, nil
}

// Convert rewrites in as out in format f. A non-nil mask keeps only the
// named properties.
func (sp *Splatpress) Convert(ctx context.Context, in, out string, f ply.Format, mask []string) (err error) {
	start := time.Now()
	defer func() {
		sp.metrics.RecordRun("convert", time.Since(start), err)
		sp.logger.LogConvert(ctx, in, out, err)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	ds, err := sp.Read(in)
	if err != nil {
		return err
	}
	w := ply.NewWriter(sp.reg, sp.plyOptions...)
	if mask == nil {
		err = w.WriteFile(out, ds, f)
	} else {
		err = w.WriteFileMasked(out, ds, f, mask)
	}
	if err != nil {
		return err
	}
	if fi, statErr := fs.Default.Stat(out); statErr == nil {
		sp.metrics.RecordBytes("converted", fi.Size())
	}
	return nil
}

// Encode runs the encoder on one container, writing into outDir.
func (sp *Splatpress) Encode(ctx context.Context, in, outDir string) (res *pipeline.Result, err error) {
	start := time.Now()
	defer func() {
		sp.metrics.RecordRun("encode", time.Since(start), err)
		var points, dups int
		if res != nil {
			points, dups = res.Points, res.Duplicates
		}
		sp.logger.LogEncode(ctx, in, points, dups, err)
	}()

	enc, err := pipeline.NewEncoder(sp.reg, sp.cfg, sp.pipeOpts...)
	if err != nil {
		return nil, err
	}
	return enc.Encode(ctx, in, outDir)
}

// EncodeDir encodes every file in dir whose name matches pattern, one after
// another. Each file gets its own directory under outRoot named after the
// file without extension. The first failure stops the run; results of the
// files already done are returned with it.
func (sp *Splatpress) EncodeDir(ctx context.Context, dir, pattern, outRoot string) ([]*pipeline.Result, error) {
	files, err := fs.FindFiles(nil, dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("splatpress: find %q in %s: %w", pattern, dir, err)
	}

	results := make([]*pipeline.Result, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		res, err := sp.Encode(ctx, f, filepath.Join(outRoot, name))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Decode restores a container from an encoder output directory.
func (sp *Splatpress) Decode(ctx context.Context, inDir, out string) (res *pipeline.Result, err error) {
	start := time.Now()
	defer func() {
		sp.metrics.RecordRun("decode", time.Since(start), err)
		points := 0
		if res != nil {
			points = res.Points
		}
		sp.logger.LogDecode(ctx, out, points, err)
	}()

	dec, err := pipeline.NewDecoder(sp.reg, sp.cfg, sp.pipeOpts...)
	if err != nil {
		return nil, err
	}
	return dec.Decode(ctx, inDir, out)
}
