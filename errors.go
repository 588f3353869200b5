package splatpress

import (
	"context"
	"errors"

	"github.com/hupe1980/splatpress/attrpack"
	"github.com/hupe1980/splatpress/compressor"
	"github.com/hupe1980/splatpress/internal/fs"
	"github.com/hupe1980/splatpress/morton"
	"github.com/hupe1980/splatpress/pipeline"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/quantization"
	"github.com/hupe1980/splatpress/schema"
	"github.com/hupe1980/splatpress/transform"
)

// Kind classifies an error for callers that report or branch on it.
type Kind int

const (
	KindUnknown Kind = iota
	KindFileNotFound
	KindDirectoryCreateFailed
	KindIOOpenFailed
	KindUnsupportedFormat
	KindSchemaNotFound
	KindUnregisteredSchema
	KindElementNameMismatch
	KindDuplicateProperty
	KindDimensionMismatch
	KindTypeMismatch
	KindNotFound
	KindMalformed
	KindConfig
	KindCompressorFailed
	KindCanceled
)

var kindNames = [...]string{
	KindUnknown:               "Unknown",
	KindFileNotFound:          "FileNotFound",
	KindDirectoryCreateFailed: "DirectoryCreateFailed",
	KindIOOpenFailed:          "IOOpenFailed",
	KindUnsupportedFormat:     "UnsupportedFormat",
	KindSchemaNotFound:        "SchemaNotFound",
	KindUnregisteredSchema:    "UnregisteredSchema",
	KindElementNameMismatch:   "ElementNameMismatch",
	KindDuplicateProperty:     "DuplicateProperty",
	KindDimensionMismatch:     "DimensionMismatch",
	KindTypeMismatch:          "TypeMismatch",
	KindNotFound:              "ElementOrPropertyNotFound",
	KindMalformed:             "Malformed",
	KindConfig:                "ConfigError",
	KindCompressorFailed:      "CompressorFailed",
	KindCanceled:              "Canceled",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// kindTable is checked in order; the first match wins. UnregisteredSchema
// comes before SchemaNotFound because the reader wraps both.
var kindTable = []struct {
	kind Kind
	errs []error
}{
	{KindCanceled, []error{context.Canceled, context.DeadlineExceeded}},
	{KindFileNotFound, []error{ply.ErrFileNotFound, attrpack.ErrNotFound}},
	{KindDirectoryCreateFailed, []error{fs.ErrDirectoryCreate}},
	{KindIOOpenFailed, []error{fs.ErrOpen}},
	{KindUnsupportedFormat, []error{ply.ErrUnsupportedFormat, attrpack.ErrUnsupportedVersion, attrpack.ErrUnknownCodec, attrpack.ErrUnknownCompression}},
	{KindUnregisteredSchema, []error{schema.ErrUnregisteredSchema}},
	{KindSchemaNotFound, []error{schema.ErrSchemaNotFound}},
	{KindElementNameMismatch, []error{schema.ErrElementNameMismatch}},
	{KindDuplicateProperty, []error{schema.ErrDuplicateProperty}},
	{KindDimensionMismatch, []error{
		ply.ErrDimensionMismatch, quantization.ErrDimensionMismatch, morton.ErrDimensionMismatch,
		transform.ErrDimensionMismatch, morton.ErrInvalidPermutation, pipeline.ErrPointCountMismatch,
		attrpack.ErrColumnMismatch,
	}},
	{KindTypeMismatch, []error{ply.ErrTypeMismatch}},
	{KindNotFound, []error{ply.ErrNotFound}},
	{KindMalformed, []error{
		ply.ErrInvalidHeader, ply.ErrMalformedBody, attrpack.ErrInvalidMagic, attrpack.ErrCorrupt,
		pipeline.ErrMissingGeometry, pipeline.ErrNotQuantized, quantization.ErrEmpty,
	}},
	{KindConfig, []error{
		schema.ErrConfig, pipeline.ErrInvalidConfig, quantization.ErrInvalidBits, transform.ErrInvalidDepth,
		compressor.ErrNotConfigured,
	}},
	{KindCompressorFailed, []error{compressor.ErrCompressorFailed}},
}

// KindOf maps err to its Kind. It returns KindUnknown for nil and for
// errors that do not wrap a known sentinel.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, row := range kindTable {
		for _, target := range row.errs {
			if errors.Is(err, target) {
				return row.kind
			}
		}
	}
	return KindUnknown
}
