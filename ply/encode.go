package ply

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/hupe1980/splatpress/schema"
)

type encodeFunc func(buf []byte, v Value) []byte

func encodeASCIIInt32(buf []byte, v Value) []byte {
	return strconv.AppendInt(buf, int64(int32(v.bits)), 10)
}

// encodeASCIIFloat32 emits the shortest text that parses back to the same
// float32.
func encodeASCIIFloat32(buf []byte, v Value) []byte {
	return strconv.AppendFloat(buf, float64(math.Float32frombits(v.bits)), 'g', -1, 32)
}

func encodeBinary(buf []byte, v Value) []byte {
	return binary.LittleEndian.AppendUint32(buf, v.bits)
}

func encoderFor(f Format, t schema.StorageType) encodeFunc {
	switch {
	case f == ASCII && t == schema.Int32:
		return encodeASCIIInt32
	case f == ASCII && t == schema.Float32:
		return encodeASCIIFloat32
	case f == BinaryLittleEndian && t.Valid():
		return encodeBinary
	default:
		return nil
	}
}

type column struct {
	name       string
	headerType string
	values     []Value
	enc        encodeFunc
}

type elementPlan struct {
	name  string
	count int
	cols  []column
}

const flushThreshold = 64 * 1024

// appendHeader renders the header for plans.
func appendHeader(buf []byte, f Format, plans []elementPlan) []byte {
	buf = append(buf, magic+"\nformat "...)
	buf = append(buf, f.String()...)
	buf = append(buf, " 1.0\n"...)
	for _, p := range plans {
		buf = append(buf, "element "...)
		buf = append(buf, p.name...)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(p.count), 10)
		buf = append(buf, '\n')
		for _, c := range p.cols {
			buf = append(buf, "property "...)
			buf = append(buf, c.headerType...)
			buf = append(buf, ' ')
			buf = append(buf, c.name...)
			buf = append(buf, '\n')
		}
	}
	return append(buf, endHeader+"\n"...)
}

// appendRecord renders record i of p.
func appendRecord(buf []byte, f Format, p *elementPlan, i int) []byte {
	for j := range p.cols {
		if f == ASCII && j > 0 {
			buf = append(buf, ' ')
		}
		buf = p.cols[j].enc(buf, p.cols[j].values[i])
	}
	if f == ASCII {
		buf = append(buf, '\n')
	}
	return buf
}
