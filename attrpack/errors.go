package attrpack

import "errors"

var (
	// ErrNotFound is returned when the pack file does not exist.
	ErrNotFound = errors.New("attrpack: file not found")
	// ErrInvalidMagic is returned when the file is not a pack.
	ErrInvalidMagic = errors.New("attrpack: invalid magic")
	// ErrUnsupportedVersion is returned for unknown file versions.
	ErrUnsupportedVersion = errors.New("attrpack: unsupported version")
	// ErrUnknownCodec is returned when the manifest codec is not built in.
	ErrUnknownCodec = errors.New("attrpack: unknown codec")
	// ErrUnknownCompression is returned for unknown compression names or ids.
	ErrUnknownCompression = errors.New("attrpack: unknown compression")
	// ErrCorrupt is returned when blocks or the manifest are inconsistent.
	ErrCorrupt = errors.New("attrpack: corrupt pack")
	// ErrColumnMismatch is returned when a column disagrees with its schema.
	ErrColumnMismatch = errors.New("attrpack: column does not match schema")
)
