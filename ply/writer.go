package ply

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/splatpress/internal/fs"
	"github.com/hupe1980/splatpress/schema"
)

// Writer serializes datasets. Like Reader it holds no per-file state.
type Writer struct {
	reg    *schema.Registry
	logger *slog.Logger
	fsys   fs.FileSystem
}

// NewWriter returns a writer that checks every emitted property against reg.
// A nil reg skips the check.
func NewWriter(reg *schema.Registry, opts ...Option) *Writer {
	o := applyOptions(opts)
	return &Writer{reg: reg, logger: o.logger, fsys: o.fsys}
}

// Write serializes every element and property of ds in schema order.
func (w *Writer) Write(out io.Writer, ds *Dataset, f Format) error {
	return w.write(out, ds, f, nil)
}

// WriteMasked serializes only properties named in mask. Elements left without
// properties are dropped from header and body.
func (w *Writer) WriteMasked(out io.Writer, ds *Dataset, f Format, mask []string) error {
	return w.write(out, ds, f, maskSet(mask))
}

// WriteFile writes ds to path atomically. On failure path is untouched.
func (w *Writer) WriteFile(path string, ds *Dataset, f Format) error {
	return w.writeFile(path, ds, f, nil)
}

// WriteFileMasked is the file variant of WriteMasked.
func (w *Writer) WriteFileMasked(path string, ds *Dataset, f Format, mask []string) error {
	return w.writeFile(path, ds, f, maskSet(mask))
}

func maskSet(mask []string) map[string]struct{} {
	set := make(map[string]struct{}, len(mask))
	for _, name := range mask {
		set[name] = struct{}{}
	}
	return set
}

func (w *Writer) writeFile(path string, ds *Dataset, f Format, mask map[string]struct{}) error {
	// Plan first so a bad dataset never creates a temp file.
	plans, err := w.plan(ds, f, mask)
	if err != nil {
		return withPath(err, "write", path)
	}
	err = fs.SaveFile(w.fsys, path, func(out io.Writer) error {
		return w.emit(out, f, plans)
	})
	if err != nil {
		return withPath(err, "write", path)
	}
	w.logger.Debug("wrote container", "path", path, "format", f.String(), "elements", len(plans))
	return nil
}

func (w *Writer) write(out io.Writer, ds *Dataset, f Format, mask map[string]struct{}) error {
	plans, err := w.plan(ds, f, mask)
	if err != nil {
		return err
	}
	return w.emit(out, f, plans)
}

// plan resolves and validates everything up front; emit cannot fail on the
// dataset afterwards, only on the sink.
func (w *Writer) plan(ds *Dataset, f Format, mask map[string]struct{}) ([]elementPlan, error) {
	if f != ASCII && f != BinaryLittleEndian {
		return nil, &Error{Op: "write", Err: fmt.Errorf("%w: %d", ErrUnsupportedFormat, uint8(f))}
	}

	plans := make([]elementPlan, 0, len(ds.Schemas))
	for _, es := range ds.Schemas {
		p := elementPlan{name: es.Name, count: es.Count}
		for _, ps := range es.Properties {
			if mask != nil {
				if _, ok := mask[ps.Name]; !ok {
					continue
				}
			}
			col, err := w.column(ds, es, ps, f)
			if err != nil {
				return nil, err
			}
			p.cols = append(p.cols, col)
		}
		if mask != nil && len(p.cols) == 0 {
			continue
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (w *Writer) column(ds *Dataset, es *schema.ElementSchema, ps schema.PropertySchema, f Format) (column, error) {
	fail := func(err error) (column, error) {
		return column{}, &Error{Op: "write", Element: es.Name, Property: ps.Name, Err: err}
	}

	typ := ps.EmitType()
	if w.reg != nil {
		if typ == "" {
			reg, err := w.reg.Resolve(es.Name, ps.Name)
			if err != nil {
				return column{}, err
			}
			typ = reg.CanonicalType()
		}
		if !w.reg.IsAccepted(es.Name, ps.Name, typ) {
			return fail(schema.ErrUnregisteredSchema)
		}
	}

	values, err := ds.Property(es.Name, ps.Name)
	if err != nil {
		return column{}, err
	}
	if len(values) != es.Count {
		return fail(fmt.Errorf("%w: %d values for count %d", ErrDimensionMismatch, len(values), es.Count))
	}
	for i, v := range values {
		if v.kind != ps.StorageType {
			return fail(fmt.Errorf("%w: index %d holds %s, schema says %s", ErrTypeMismatch, i, v.kind, ps.StorageType))
		}
	}

	enc := encoderFor(f, ps.StorageType)
	if enc == nil {
		return fail(fmt.Errorf("%w: no encoder for %s/%s", ErrUnsupportedFormat, f, ps.StorageType))
	}
	return column{name: ps.Name, headerType: typ, values: values, enc: enc}, nil
}

func (w *Writer) emit(out io.Writer, f Format, plans []elementPlan) error {
	buf := appendHeader(make([]byte, 0, flushThreshold+1024), f, plans)
	for pi := range plans {
		p := &plans[pi]
		for i := 0; i < p.count; i++ {
			buf = appendRecord(buf, f, p, i)
			if len(buf) >= flushThreshold {
				if _, err := out.Write(buf); err != nil {
					return err
				}
				buf = buf[:0]
			}
		}
	}
	_, err := out.Write(buf)
	return err
}
