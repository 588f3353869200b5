package ply

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"unsafe"

	"github.com/hupe1980/splatpress/schema"
)

// cursor walks a body buffer. It borrows the buffer and never copies it.
type cursor struct {
	data []byte
	pos  int
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// token returns the next whitespace delimited token. The slice aliases the
// buffer.
func (c *cursor) token() ([]byte, bool) {
	for c.pos < len(c.data) && isSpace(c.data[c.pos]) {
		c.pos++
	}
	start := c.pos
	for c.pos < len(c.data) && !isSpace(c.data[c.pos]) {
		c.pos++
	}
	if start == c.pos {
		return nil, false
	}
	return c.data[start:c.pos], true
}

func (c *cursor) uint32() (uint32, bool) {
	if len(c.data)-c.pos < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, true
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// view exposes tok to strconv without allocating. The result must not
// outlive tok.
func view(tok []byte) string {
	return unsafe.String(unsafe.SliceData(tok), len(tok))
}

type decodeFunc func(c *cursor) (Value, error)

var errTruncated = fmt.Errorf("%w: unexpected end of body", ErrMalformedBody)

func decodeASCIIInt32(c *cursor) (Value, error) {
	tok, ok := c.token()
	if !ok {
		return Value{}, errTruncated
	}
	n, err := strconv.ParseInt(view(tok), 10, 32)
	if err != nil {
		return Value{}, fmt.Errorf("%w: bad int32 token %q", ErrMalformedBody, string(tok))
	}
	return Int32Value(int32(n)), nil
}

func decodeASCIIFloat32(c *cursor) (Value, error) {
	tok, ok := c.token()
	if !ok {
		return Value{}, errTruncated
	}
	f, err := strconv.ParseFloat(view(tok), 32)
	if err != nil {
		return Value{}, fmt.Errorf("%w: bad float32 token %q", ErrMalformedBody, string(tok))
	}
	return Float32Value(float32(f)), nil
}

func decodeBinaryInt32(c *cursor) (Value, error) {
	v, ok := c.uint32()
	if !ok {
		return Value{}, errTruncated
	}
	return Value{kind: schema.Int32, bits: v}, nil
}

func decodeBinaryFloat32(c *cursor) (Value, error) {
	v, ok := c.uint32()
	if !ok {
		return Value{}, errTruncated
	}
	return Value{kind: schema.Float32, bits: v}, nil
}

// decoderFor selects the column decoder once per column.
func decoderFor(f Format, t schema.StorageType) (decodeFunc, error) {
	switch {
	case f == ASCII && t == schema.Int32:
		return decodeASCIIInt32, nil
	case f == ASCII && t == schema.Float32:
		return decodeASCIIFloat32, nil
	case f == BinaryLittleEndian && t == schema.Int32:
		return decodeBinaryInt32, nil
	case f == BinaryLittleEndian && t == schema.Float32:
		return decodeBinaryFloat32, nil
	default:
		return nil, fmt.Errorf("%w: no decoder for %s/%s", ErrUnsupportedFormat, f, t)
	}
}

// checkCapacity rejects counts the remaining body cannot possibly hold, so
// a lying header cannot force huge allocations.
func checkCapacity(f Format, es *schema.ElementSchema, remaining int) error {
	n := es.Len()
	if n == 0 || es.Count == 0 {
		return nil
	}
	var limit int
	switch f {
	case BinaryLittleEndian:
		limit = remaining / es.RecordSize()
	default:
		// Every token takes at least one byte plus a separator.
		limit = (remaining + 1) / 2 / n
	}
	if es.Count > limit {
		return fmt.Errorf("%w: %d records declared, body holds at most %d", ErrMalformedBody, es.Count, limit)
	}
	return nil
}

// decodeElement reads es.Count records of es from c.
func decodeElement(c *cursor, f Format, es *schema.ElementSchema) (*Element, error) {
	if err := checkCapacity(f, es, c.remaining()); err != nil {
		return nil, &Error{Op: "decode", Element: es.Name, Err: err}
	}

	decoders := make([]decodeFunc, es.Len())
	cols := make([][]Value, es.Len())
	for i, p := range es.Properties {
		dec, err := decoderFor(f, p.StorageType)
		if err != nil {
			return nil, &Error{Op: "decode", Element: es.Name, Property: p.Name, Err: err}
		}
		decoders[i] = dec
		cols[i] = make([]Value, es.Count)
	}

	for rec := 0; rec < es.Count; rec++ {
		for i, dec := range decoders {
			v, err := dec(c)
			if err != nil {
				return nil, &Error{Op: "decode", Element: es.Name, Property: es.Properties[i].Name,
					Err: fmt.Errorf("record %d: %w", rec, err)}
			}
			cols[i][rec] = v
		}
	}

	el := NewElement(es.Name)
	for i, p := range es.Properties {
		el.Properties[p.Name] = cols[i]
	}
	return el, nil
}
