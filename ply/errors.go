package ply

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/splatpress/internal/fs"
)

var (
	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("ply: file not found")
	// ErrDirectoryCreate is returned when the output directory cannot be created.
	ErrDirectoryCreate = fs.ErrDirectoryCreate
	// ErrIOOpen is returned when a file cannot be opened or mapped.
	ErrIOOpen = fs.ErrOpen
	// ErrUnsupportedFormat is returned for unknown format tokens.
	ErrUnsupportedFormat = errors.New("ply: unsupported format")
	// ErrInvalidHeader is returned for malformed header lines.
	ErrInvalidHeader = errors.New("ply: invalid header")
	// ErrMalformedBody is returned when the body is truncated or holds bad tokens.
	ErrMalformedBody = errors.New("ply: malformed body")
	// ErrTypeMismatch is returned when a value is accessed as the wrong storage type.
	ErrTypeMismatch = errors.New("ply: type mismatch")
	// ErrNotFound is returned when an element or property lookup misses.
	ErrNotFound = errors.New("ply: element or property not found")
	// ErrDimensionMismatch is returned when column lengths or counts disagree.
	ErrDimensionMismatch = errors.New("ply: dimension mismatch")
)

// Error describes where a codec operation failed.
type Error struct {
	Op       string
	Path     string
	Element  string
	Property string
	// Line is the 1-based header line, or 0.
	Line int
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ply ")
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Element != "" {
		fmt.Fprintf(&b, " element %q", e.Element)
	}
	if e.Property != "" {
		fmt.Fprintf(&b, " property %q", e.Property)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func withPath(err error, op, path string) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
		return err
	}
	return &Error{Op: op, Path: path, Err: err}
}
