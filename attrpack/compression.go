package attrpack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of column streams.
type Compression uint8

const (
	// CompressionNone stores every block raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Valid reports whether c is a known compression.
func (c Compression) Valid() bool {
	return c <= CompressionZSTD
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

const (
	blockHeaderSize  = 8
	defaultBlockSize = 256 * 1024
)

// compressBlock returns data framed as one block. Blocks that do not shrink
// below 90% are stored raw.
func compressBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = binary.LittleEndian.AppendUint32(dst, 0)
		return append(dst, data...), nil
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(compressed)))
	return append(dst, compressed...), nil
}

// blockWriter buffers a column stream and emits it as framed blocks.
type blockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buffer      *bytes.Buffer
	frame       []byte
}

func newBlockWriter(w io.Writer, c Compression, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &blockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buffer:      bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := b.blockSize - b.buffer.Len()
		if space <= 0 {
			if err := b.Flush(); err != nil {
				return total, err
			}
			space = b.blockSize
		}
		n, _ := b.buffer.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush frames and writes the buffered bytes as one block.
func (b *blockWriter) Flush() error {
	if b.buffer.Len() == 0 {
		return nil
	}
	frame, err := compressBlock(b.frame[:0], b.buffer.Bytes(), b.compression)
	if err != nil {
		return err
	}
	b.frame = frame
	if _, err := b.w.Write(frame); err != nil {
		return err
	}
	b.buffer.Reset()
	return nil
}

// decompressStream decodes every block of data and appends the payload to
// dst. Raw blocks are copied, so dst never aliases data.
func decompressStream(dst, data []byte, c Compression) ([]byte, error) {
	for off := 0; off < len(data); {
		if len(data)-off < blockHeaderSize {
			return nil, fmt.Errorf("%w: truncated block header at %d", ErrCorrupt, off)
		}
		raw := int(binary.LittleEndian.Uint32(data[off:]))
		stored := int(binary.LittleEndian.Uint32(data[off+4:]))
		off += blockHeaderSize

		if stored == 0 {
			if len(data)-off < raw {
				return nil, fmt.Errorf("%w: raw block extends beyond stream", ErrCorrupt)
			}
			dst = append(dst, data[off:off+raw]...)
			off += raw
			continue
		}
		if len(data)-off < stored {
			return nil, fmt.Errorf("%w: compressed block extends beyond stream", ErrCorrupt)
		}
		block := data[off : off+stored]
		off += stored

		start := len(dst)
		switch c {
		case CompressionLZ4:
			dst = append(dst, make([]byte, raw)...)
			n, err := lz4.UncompressBlock(block, dst[start:])
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			if n != raw {
				return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
			}
		case CompressionZSTD:
			dec := getZstdDecoder()
			var err error
			dst, err = dec.DecodeAll(block, dst)
			zstdDecoderPool.Put(dec)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			if len(dst)-start != raw {
				return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
			}
		default:
			return nil, fmt.Errorf("%w: compressed block in %s stream", ErrCorrupt, c)
		}
	}
	return dst, nil
}
