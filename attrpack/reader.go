package attrpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/hupe1980/splatpress/codec"
	"github.com/hupe1980/splatpress/internal/hash"
	"github.com/hupe1980/splatpress/internal/mmap"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
)

// Reader reads pack files, rebuilding schemas against a registry.
type Reader struct {
	reg    *schema.Registry
	logger *slog.Logger
}

// NewReader returns a Reader.
func NewReader(reg *schema.Registry, opts ...Option) *Reader {
	o := applyOptions(opts)
	return &Reader{reg: reg, logger: o.logger}
}

// ReadFile maps path and decodes the manifest and every stored column.
func (r *Reader) ReadFile(path string) (*Pack, error) {
	m, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("attrpack read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("attrpack read %s: %w", path, err)
	}
	defer m.Close()

	p, err := r.Parse(m.Bytes())
	if err != nil {
		return nil, fmt.Errorf("attrpack read %s: %w", path, err)
	}
	r.logger.Debug("read attribute pack", "path", path, "columns", p.Manifest.StoredColumns(), "bytes", m.Size())
	return p, nil
}

// ReadManifest decodes only the manifest of path.
func (r *Reader) ReadManifest(path string) (*Manifest, error) {
	m, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("attrpack read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("attrpack read %s: %w", path, err)
	}
	defer m.Close()

	man, _, err := decodeManifest(m.Bytes())
	if err != nil {
		return nil, fmt.Errorf("attrpack read %s: %w", path, err)
	}
	return man, nil
}

// Parse decodes a pack held in memory. data is not retained.
func (r *Reader) Parse(data []byte) (*Pack, error) {
	man, dataEnd, err := decodeManifest(data)
	if err != nil {
		return nil, err
	}

	ds := ply.NewDataset()
	ds.Format = man.SourceFormat
	for _, ee := range man.Elements {
		es := schema.NewElementSchema(ee.Name, ee.Count)
		for _, pe := range ee.Properties {
			if err := es.AddProperty(r.reg, ee.Name, pe.Name, pe.Type); err != nil {
				return nil, err
			}
			ps := es.Properties[len(es.Properties)-1]
			if ps.StorageType != pe.Storage {
				return nil, fmt.Errorf("%w: %s.%s stored as %s, registry says %s",
					ErrColumnMismatch, ee.Name, pe.Name, pe.Storage, ps.StorageType)
			}
			if !pe.Stored {
				continue
			}
			values, err := decodeColumn(data[:dataEnd], man.Compression, pe, ee.Count)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", ee.Name, pe.Name, err)
			}
			ds.SetProperty(ee.Name, pe.Name, values)
		}
		ds.AddElement(es)
	}

	return &Pack{
		Dataset:      ds,
		Geometry:     man.Geometry,
		SourceFormat: man.SourceFormat,
		Meta:         man.Meta,
		Manifest:     man,
	}, nil
}

const (
	trailerSize = 8
	maxPrealloc = 64 << 20
)

// decodeManifest validates framing and returns the manifest plus the offset
// where column data ends.
func decodeManifest(data []byte) (*Manifest, int, error) {
	if len(data) < len(magic)+5+trailerSize || string(data[:len(magic)]) != magic {
		return nil, 0, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != Version {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	nameLen := int(data[8])
	headerEnd := 9 + nameLen
	if headerEnd > len(data)-trailerSize {
		return nil, 0, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	name := string(data[9:headerEnd])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	tail := data[len(data)-trailerSize:]
	if string(tail[4:]) != magic {
		return nil, 0, fmt.Errorf("%w: trailer", ErrInvalidMagic)
	}
	manLen := int(binary.LittleEndian.Uint32(tail))
	manStart := len(data) - trailerSize - manLen
	if manLen < 0 || manStart < headerEnd {
		return nil, 0, fmt.Errorf("%w: manifest length %d", ErrCorrupt, manLen)
	}

	var man Manifest
	if err := c.Unmarshal(data[manStart:len(data)-trailerSize], &man); err != nil {
		return nil, 0, fmt.Errorf("%w: manifest: %w", ErrCorrupt, err)
	}
	if man.Version != Version {
		return nil, 0, fmt.Errorf("%w: manifest version %d", ErrUnsupportedVersion, man.Version)
	}
	if !man.Compression.Valid() {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(man.Compression))
	}
	for _, ee := range man.Elements {
		if ee.Count < 0 || ee.Count > math.MaxInt32 {
			return nil, 0, fmt.Errorf("%w: element %q count %d", ErrCorrupt, ee.Name, ee.Count)
		}
		for _, pe := range ee.Properties {
			if pe.Stored && (pe.Offset < int64(headerEnd) || pe.Length < 0 || pe.Offset+pe.Length > int64(manStart)) {
				return nil, 0, fmt.Errorf("%w: column %s.%s out of bounds", ErrCorrupt, ee.Name, pe.Name)
			}
		}
	}
	return &man, manStart, nil
}

func decodeColumn(data []byte, c Compression, pe PropertyEntry, count int) ([]ply.Value, error) {
	stream := data[pe.Offset : pe.Offset+pe.Length]
	if sum := hash.CRC32C(stream); sum != pe.Checksum {
		return nil, fmt.Errorf("%w: checksum %08x, manifest has %08x", ErrCorrupt, sum, pe.Checksum)
	}
	raw, err := decompressStream(make([]byte, 0, min(4*count, maxPrealloc)), stream, c)
	if err != nil {
		return nil, err
	}
	if len(raw) != 4*count {
		return nil, fmt.Errorf("%w: %d bytes for %d values", ErrCorrupt, len(raw), count)
	}
	values := make([]ply.Value, count)
	for i := range values {
		values[i] = ply.ValueFromBits(pe.Storage, binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return values, nil
}
