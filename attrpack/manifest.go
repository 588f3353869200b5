package attrpack

import (
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/quantization"
	"github.com/hupe1980/splatpress/schema"
)

// Version is the current file version.
const Version uint32 = 1

// Manifest describes a pack: the full schema of the source container, where
// each stored column lives, and how the geometry was encoded.
type Manifest struct {
	Version      uint32            `json:"version"`
	Compression  Compression       `json:"compression"`
	SourceFormat ply.Format        `json:"source_format"`
	Geometry     *Geometry         `json:"geometry,omitempty"`
	Elements     []ElementEntry    `json:"elements"`
	Meta         map[string]string `json:"meta,omitempty"`
}

// Geometry records the parameters needed to invert a geometry encode.
type Geometry struct {
	Element      string                   `json:"element"`
	Position     []string                 `json:"position"`
	Bits         int                      `json:"bits"`
	LogTransform bool                     `json:"log_transform"`
	BoundingBox  quantization.BoundingBox `json:"bbox"`
	Points       int                      `json:"points"`
	Duplicates   int                      `json:"duplicates"`
}

// ElementEntry is one element of the source schema, in declared order.
type ElementEntry struct {
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	Properties []PropertyEntry `json:"properties"`
}

// PropertyEntry is one property. Columns that are not stored (the geometry)
// keep their place so the original order can be rebuilt.
type PropertyEntry struct {
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	Storage  schema.StorageType `json:"storage"`
	Stored   bool               `json:"stored"`
	Offset   int64              `json:"offset,omitempty"`
	Length   int64              `json:"length,omitempty"`
	// Checksum is the CRC32C of the column's block stream.
	Checksum uint32             `json:"crc32c,omitempty"`
}

// StoredColumns returns the number of columns held in the pack.
func (m *Manifest) StoredColumns() int {
	n := 0
	for _, e := range m.Elements {
		for _, p := range e.Properties {
			if p.Stored {
				n++
			}
		}
	}
	return n
}

// Pack is the in-memory form of a pack file.
//
// Dataset carries the complete schema list; only the columns present in
// Dataset.Elements are stored. On read, Dataset holds the stored columns and
// Manifest the decoded manifest.
type Pack struct {
	Dataset      *ply.Dataset
	Geometry     *Geometry
	SourceFormat ply.Format
	Meta         map[string]string
	Manifest     *Manifest
}
