package ply

import (
	"fmt"
	"math"

	"github.com/hupe1980/splatpress/schema"
)

// Value is one scalar of a property column: either an int32 or a float32.
// The zero Value is Int32Value(0).
type Value struct {
	kind schema.StorageType
	bits uint32
}

// Int32Value returns an int32 Value.
func Int32Value(v int32) Value {
	return Value{kind: schema.Int32, bits: uint32(v)}
}

// Float32Value returns a float32 Value.
func Float32Value(v float32) Value {
	return Value{kind: schema.Float32, bits: math.Float32bits(v)}
}

// Kind returns the active variant.
func (v Value) Kind() schema.StorageType {
	return v.kind
}

// Int32 returns the int32 variant or ErrTypeMismatch.
func (v Value) Int32() (int32, error) {
	if v.kind != schema.Int32 {
		return 0, fmt.Errorf("%w: value holds %s, want int32", ErrTypeMismatch, v.kind)
	}
	return int32(v.bits), nil
}

// Float32 returns the float32 variant or ErrTypeMismatch.
func (v Value) Float32() (float32, error) {
	if v.kind != schema.Float32 {
		return 0, fmt.Errorf("%w: value holds %s, want float32", ErrTypeMismatch, v.kind)
	}
	return math.Float32frombits(v.bits), nil
}

func (v Value) String() string {
	if v.kind == schema.Float32 {
		return fmt.Sprint(math.Float32frombits(v.bits))
	}
	return fmt.Sprint(int32(v.bits))
}

// Float32Values wraps a float32 slice as a property column.
func Float32Values(in []float32) []Value {
	out := make([]Value, len(in))
	for i, f := range in {
		out[i] = Float32Value(f)
	}
	return out
}

// Int32Values wraps an int32 slice as a property column.
func Int32Values(in []int32) []Value {
	out := make([]Value, len(in))
	for i, n := range in {
		out[i] = Int32Value(n)
	}
	return out
}

// Float32Column extracts a float32 slice, failing on the first non-float value.
func Float32Column(col []Value) ([]float32, error) {
	out := make([]float32, len(col))
	for i, v := range col {
		if v.kind != schema.Float32 {
			return nil, fmt.Errorf("%w: index %d holds %s, want float32", ErrTypeMismatch, i, v.kind)
		}
		out[i] = math.Float32frombits(v.bits)
	}
	return out, nil
}

// Int32Column extracts an int32 slice, failing on the first non-int value.
func Int32Column(col []Value) ([]int32, error) {
	out := make([]int32, len(col))
	for i, v := range col {
		if v.kind != schema.Int32 {
			return nil, fmt.Errorf("%w: index %d holds %s, want int32", ErrTypeMismatch, i, v.kind)
		}
		out[i] = int32(v.bits)
	}
	return out, nil
}

// Bits returns the raw 32-bit pattern, as stored in binary bodies.
func (v Value) Bits() uint32 {
	return v.bits
}

// ValueFromBits rebuilds a Value from its kind and raw bit pattern.
func ValueFromBits(kind schema.StorageType, bits uint32) Value {
	return Value{kind: kind, bits: bits}
}
