package schema

import (
	"fmt"
	"strings"
)

// StorageType is the in-memory representation of a property column.
// The set is closed: adding a type means touching every codec switch.
type StorageType uint8

const (
	// Int32 stores values as signed 32-bit integers.
	Int32 StorageType = iota
	// Float32 stores values as IEEE-754 single precision floats.
	Float32
)

// Size returns the on-disk width of a value in bytes.
func (t StorageType) Size() int {
	return 4
}

// Valid reports whether t is one of the known storage types.
func (t StorageType) Valid() bool {
	return t == Int32 || t == Float32
}

func (t StorageType) String() string {
	switch t {
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("StorageType(%d)", uint8(t))
	}
}

// ParseStorageType parses the textual form used in configuration files.
func ParseStorageType(s string) (StorageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int32", "int":
		return Int32, nil
	case "float32", "float":
		return Float32, nil
	default:
		return 0, fmt.Errorf("%w: unknown storage type %q", ErrConfig, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t StorageType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid storage type %d", ErrConfig, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *StorageType) UnmarshalText(b []byte) error {
	v, err := ParseStorageType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// PropertySchema describes one registered property.
//
// HeaderType is the spelling observed while reading (or to be emitted when
// writing). It belongs to the copy held by an ElementSchema; the registry
// never hands out a shared instance.
type PropertySchema struct {
	Element       string
	Name          string
	AcceptedTypes []string
	StorageType   StorageType
	HeaderType    string
}

// Accepts reports whether spelling is one of the accepted header types.
func (p PropertySchema) Accepts(spelling string) bool {
	for _, t := range p.AcceptedTypes {
		if t == spelling {
			return true
		}
	}
	return false
}

// CanonicalType returns the first accepted spelling.
func (p PropertySchema) CanonicalType() string {
	if len(p.AcceptedTypes) == 0 {
		return ""
	}
	return p.AcceptedTypes[0]
}

// EmitType returns the spelling a writer should put into a header.
func (p PropertySchema) EmitType() string {
	if p.HeaderType != "" {
		return p.HeaderType
	}
	return p.CanonicalType()
}

func (p PropertySchema) clone() PropertySchema {
	p.AcceptedTypes = append([]string(nil), p.AcceptedTypes...)
	return p
}
