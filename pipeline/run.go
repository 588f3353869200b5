package pipeline

import (
	"log/slog"
	"time"

	"github.com/hupe1980/splatpress/quantization"
)

// Stage names reported to the Recorder and in Result.Stages.
const (
	StageRead       = "read"
	StageTransform  = "transform"
	StageQuantize   = "quantize"
	StageSort       = "sort"
	StageReorder    = "reorder"
	StageWrite      = "write"
	StageCompress   = "compress"
	StageDecompress = "decompress"
	StageDequantize = "dequantize"
	StageRestore    = "restore"
)

// Result summarizes one run.
type Result struct {
	Points int
	// Duplicates counts points that share a quantized cell with their
	// predecessor in Morton order.
	Duplicates int
	// BoundingBox is the box of the positions in linear space, also when
	// the log transform is enabled.
	BoundingBox quantization.BoundingBox
	Stages      map[string]time.Duration
	// Files lists every file written, in order.
	Files []string
}

// run carries per-call state. Encoder and Decoder stay immutable.
type run struct {
	opts   options
	logger *slog.Logger
	res    *Result
}

func newRun(o options, attrs ...any) *run {
	return &run{
		opts:   o,
		logger: o.logger.With(attrs...),
		res:    &Result{Stages: make(map[string]time.Duration)},
	}
}

// stage times fn and wraps its error with the stage name.
func (r *run) stage(name, path string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	r.res.Stages[name] += d
	if err != nil {
		r.logger.Error("stage failed", "stage", name, "error", err)
		return &Error{Stage: name, Path: path, Err: err}
	}
	r.opts.recorder.RecordStage(name, d, r.res.Points)
	r.logger.Debug("stage done", "stage", name, "elapsed", d, "points", r.res.Points)
	return nil
}

// written records an output file and its size.
func (r *run) written(name, path string) {
	r.res.Files = append(r.res.Files, path)
	if fi, err := r.opts.fsys.Stat(path); err == nil {
		r.opts.recorder.RecordBytes(name, fi.Size())
	}
}

// rollback removes every file this run wrote.
func (r *run) rollback() {
	for _, f := range r.res.Files {
		if err := r.opts.fsys.Remove(f); err != nil {
			r.logger.Warn("rollback failed", "path", f, "error", err)
		}
	}
	r.res.Files = nil
}
