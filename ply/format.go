package ply

import (
	"fmt"
	"strings"
)

// Format is the body encoding of a container.
type Format uint8

const (
	// ASCII bodies hold whitespace separated tokens, one record per line.
	ASCII Format = iota
	// BinaryLittleEndian bodies hold fixed-width little-endian values.
	BinaryLittleEndian
)

const (
	asciiToken  = "ascii"
	binaryToken = "binary_little_endian"
)

func (f Format) String() string {
	switch f {
	case ASCII:
		return asciiToken
	case BinaryLittleEndian:
		return binaryToken
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat parses a header format token. "binary" is accepted as a
// shorthand for binary_little_endian.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case asciiToken:
		return ASCII, nil
	case binaryToken, "binary":
		return BinaryLittleEndian, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if f != ASCII && f != BinaryLittleEndian {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
