package attrpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/splatpress/codec"
	"github.com/hupe1980/splatpress/internal/conv"
	"github.com/hupe1980/splatpress/internal/fs"
	"github.com/hupe1980/splatpress/internal/hash"
	"github.com/hupe1980/splatpress/ply"
)

const magic = "SPAK"

// Writer writes pack files.
type Writer struct {
	codec       codec.Codec
	compression Compression
	blockSize   int
	fsys        fs.FileSystem
	logger      *slog.Logger
}

// NewWriter returns a Writer.
func NewWriter(opts ...Option) *Writer {
	o := applyOptions(opts)
	return &Writer{
		codec:       o.codec,
		compression: o.compression,
		blockSize:   o.blockSize,
		fsys:        o.fsys,
		logger:      o.logger,
	}
}

type countingWriter struct {
	w io.Writer
	n int64
	// sum, when set, sees every byte written.
	sum io.Writer
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if c.sum != nil {
		_, _ = c.sum.Write(p[:n])
	}
	return n, err
}

type plannedColumn struct {
	entry  *PropertyEntry
	values []ply.Value
}

// plan builds the manifest skeleton and checks every stored column against
// its schema.
func (w *Writer) plan(p *Pack) (*Manifest, []plannedColumn, error) {
	if !w.compression.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(w.compression))
	}
	if len(w.codec.Name()) > 255 {
		return nil, nil, fmt.Errorf("%w: codec name too long", ErrUnknownCodec)
	}

	m := &Manifest{
		Version:      Version,
		Compression:  w.compression,
		SourceFormat: p.SourceFormat,
		Geometry:     p.Geometry,
		Meta:         p.Meta,
		Elements:     make([]ElementEntry, len(p.Dataset.Schemas)),
	}
	var cols []plannedColumn
	for i, es := range p.Dataset.Schemas {
		entry := &m.Elements[i]
		entry.Name, entry.Count = es.Name, es.Count
		entry.Properties = make([]PropertyEntry, len(es.Properties))
		el := p.Dataset.Elements[es.Name]

		for j, ps := range es.Properties {
			pe := &entry.Properties[j]
			pe.Name, pe.Type, pe.Storage = ps.Name, ps.EmitType(), ps.StorageType
			if el == nil {
				continue
			}
			values, ok := el.Properties[ps.Name]
			if !ok {
				continue
			}
			if len(values) != es.Count {
				return nil, nil, fmt.Errorf("%w: %s.%s has %d values for count %d",
					ErrColumnMismatch, es.Name, ps.Name, len(values), es.Count)
			}
			for k, v := range values {
				if v.Kind() != ps.StorageType {
					return nil, nil, fmt.Errorf("%w: %s.%s index %d holds %s, schema says %s",
						ErrColumnMismatch, es.Name, ps.Name, k, v.Kind(), ps.StorageType)
				}
			}
			pe.Stored = true
			cols = append(cols, plannedColumn{entry: pe, values: values})
		}
	}
	return m, cols, nil
}

// WriteFile writes p to path atomically.
func (w *Writer) WriteFile(path string, p *Pack) error {
	m, cols, err := w.plan(p)
	if err != nil {
		return fmt.Errorf("attrpack write %s: %w", path, err)
	}

	var size int64
	err = fs.SaveFile(w.fsys, path, func(out io.Writer) error {
		cw := &countingWriter{w: out}
		if err := w.writeHeader(cw); err != nil {
			return err
		}
		for _, col := range cols {
			if err := w.writeColumn(cw, col); err != nil {
				return err
			}
		}

		body, err := w.codec.Marshal(m)
		if err != nil {
			return fmt.Errorf("attrpack: encode manifest: %w", err)
		}
		if _, err := cw.Write(body); err != nil {
			return err
		}
		bodyLen, err := conv.IntToUint32(len(body))
		if err != nil {
			return fmt.Errorf("attrpack: manifest: %w", err)
		}
		trailer := binary.LittleEndian.AppendUint32(nil, bodyLen)
		if _, err := cw.Write(append(trailer, magic...)); err != nil {
			return err
		}
		size = cw.n
		return nil
	})
	if err != nil {
		return fmt.Errorf("attrpack write %s: %w", path, err)
	}

	w.logger.Debug("wrote attribute pack", "path", path, "columns", len(cols),
		"compression", w.compression.String(), "bytes", size)
	return nil
}

func (w *Writer) writeHeader(out io.Writer) error {
	name := w.codec.Name()
	hdr := make([]byte, 0, len(magic)+5+len(name))
	hdr = append(hdr, magic...)
	hdr = binary.LittleEndian.AppendUint32(hdr, Version)
	hdr = append(hdr, byte(len(name)))
	hdr = append(hdr, name...)
	_, err := out.Write(hdr)
	return err
}

const valuesPerChunk = 16 * 1024

func (w *Writer) writeColumn(cw *countingWriter, col plannedColumn) error {
	col.entry.Offset = cw.n
	h := hash.NewCRC32C()
	cw.sum = h
	defer func() { cw.sum = nil }()

	bw := newBlockWriter(cw, w.compression, w.blockSize)
	buf := make([]byte, 0, 4*min(len(col.values), valuesPerChunk))
	for i, v := range col.values {
		buf = binary.LittleEndian.AppendUint32(buf, v.Bits())
		if len(buf) == cap(buf) || i == len(col.values)-1 {
			if _, err := bw.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	col.entry.Length = cw.n - col.entry.Offset
	col.entry.Checksum = h.Sum32()
	return nil
}
