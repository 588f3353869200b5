package ply

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/splatpress/internal/mmap"
	"github.com/hupe1980/splatpress/schema"
)

const (
	magic     = "ply"
	endHeader = "end_header"
)

// Reader parses containers whose properties are registered in a Registry.
// A Reader holds no per-file state and is safe for concurrent use.
type Reader struct {
	reg    *schema.Registry
	logger *slog.Logger
}

// NewReader returns a reader validating headers against reg.
func NewReader(reg *schema.Registry, opts ...Option) *Reader {
	o := applyOptions(opts)
	return &Reader{reg: reg, logger: o.logger}
}

// ReadFile maps path read-only and decodes it. The mapping is released before
// ReadFile returns; the dataset holds no reference to it.
func (r *Reader) ReadFile(path string) (*Dataset, error) {
	m, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &Error{Op: "read", Path: path, Err: ErrFileNotFound}
		}
		return nil, &Error{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", ErrIOOpen, err)}
	}
	defer m.Close()

	if err := m.Advise(mmap.AccessSequential); err != nil {
		r.logger.Debug("madvise failed", "path", path, "error", err)
	}

	data := m.Bytes()
	h, err := r.parseHeader(data)
	if err != nil {
		return nil, withPath(err, "read", path)
	}
	body, err := m.Region(h.bodyOffset, m.Size()-h.bodyOffset)
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", ErrMalformedBody, err)}
	}
	ds, err := r.decodeBody(h, body.Bytes())
	if err != nil {
		return nil, withPath(err, "read", path)
	}

	r.logger.Debug("read container", "path", path, "format", h.format.String(),
		"elements", len(h.schemas), "bytes", m.Size())
	return ds, nil
}

// Parse decodes an in-memory container. data is borrowed only for the call.
func (r *Reader) Parse(data []byte) (*Dataset, error) {
	h, err := r.parseHeader(data)
	if err != nil {
		return nil, err
	}
	return r.decodeBody(h, data[h.bodyOffset:])
}

// ParseHeader decodes only the header and returns the declared elements in
// a dataset without columns.
func (r *Reader) ParseHeader(data []byte) (*Dataset, error) {
	h, err := r.parseHeader(data)
	if err != nil {
		return nil, err
	}
	ds := NewDataset()
	ds.Format = h.format
	ds.Schemas = h.schemas
	return ds, nil
}

type header struct {
	format     Format
	schemas    []*schema.ElementSchema
	bodyOffset int
}

func (r *Reader) decodeBody(h *header, body []byte) (*Dataset, error) {
	ds := NewDataset()
	ds.Format = h.format
	c := &cursor{data: body}
	for _, es := range h.schemas {
		el, err := decodeElement(c, h.format, es)
		if err != nil {
			return nil, err
		}
		ds.Schemas = append(ds.Schemas, es)
		ds.Elements[es.Name] = el
	}
	return ds, nil
}

type headerState uint8

const (
	stateMagic headerState = iota
	stateHeader
	stateDone
)

// parseHeader runs the header state machine over data. Every property is
// validated against the registry before any body byte is touched.
func (r *Reader) parseHeader(data []byte) (*header, error) {
	var (
		h         = &header{}
		state     = stateMagic
		sawFormat bool
		current   *schema.ElementSchema
		pos       int
		lineNo    int
	)

	fail := func(err error) error {
		var se *schema.Error
		if errors.As(err, &se) {
			return &Error{Op: "parse header", Line: lineNo, Element: se.Element, Property: se.Property, Err: err}
		}
		return &Error{Op: "parse header", Line: lineNo, Err: err}
	}

	for state != stateDone {
		if pos >= len(data) {
			return nil, fail(fmt.Errorf("%w: missing %s", ErrInvalidHeader, endHeader))
		}
		end := bytes.IndexByte(data[pos:], '\n')
		var raw []byte
		if end < 0 {
			raw = data[pos:]
			pos = len(data)
		} else {
			raw = data[pos : pos+end]
			pos += end + 1
		}
		lineNo++
		// Header strings are copied so the schema never aliases the input.
		fields := strings.Fields(string(bytes.TrimRight(raw, "\r")))

		if state == stateMagic {
			if len(fields) != 1 || fields[0] != magic {
				return nil, fail(fmt.Errorf("%w: missing %q magic", ErrInvalidHeader, magic))
			}
			state = stateHeader
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "comment", "obj_info":
		case "format":
			if len(fields) < 2 {
				return nil, fail(fmt.Errorf("%w: format line needs a token", ErrInvalidHeader))
			}
			f, err := parseFormatToken(fields[1])
			if err != nil {
				return nil, fail(err)
			}
			h.format, sawFormat = f, true
		case "element":
			if len(fields) != 3 {
				return nil, fail(fmt.Errorf("%w: element line wants name and count", ErrInvalidHeader))
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fail(fmt.Errorf("%w: bad element count %q", ErrInvalidHeader, fields[2]))
			}
			for _, es := range h.schemas {
				if es.Name == fields[1] {
					return nil, fail(fmt.Errorf("%w: element %q declared twice", ErrInvalidHeader, fields[1]))
				}
			}
			current = schema.NewElementSchema(fields[1], count)
			h.schemas = append(h.schemas, current)
		case "property":
			if len(fields) >= 2 && fields[1] == "list" {
				return nil, fail(fmt.Errorf("%w: list properties are not supported", ErrInvalidHeader))
			}
			if len(fields) != 3 {
				return nil, fail(fmt.Errorf("%w: property line wants type and name", ErrInvalidHeader))
			}
			if current == nil {
				return nil, fail(&schema.Error{Op: "add property", Property: fields[2], Type: fields[1],
					Err: schema.ErrElementNameMismatch})
			}
			if err := current.AddProperty(r.reg, current.Name, fields[2], fields[1]); err != nil {
				if errors.Is(err, schema.ErrSchemaNotFound) {
					err = fmt.Errorf("%w: %w", schema.ErrUnregisteredSchema, err)
				}
				return nil, fail(err)
			}
		case endHeader:
			if !sawFormat {
				return nil, fail(fmt.Errorf("%w: missing format line", ErrInvalidHeader))
			}
			state = stateDone
		default:
			return nil, fail(fmt.Errorf("%w: unknown keyword %q", ErrInvalidHeader, fields[0]))
		}
	}

	h.bodyOffset = pos
	return h, nil
}

// parseFormatToken accepts only the exact header spellings.
func parseFormatToken(tok string) (Format, error) {
	switch tok {
	case asciiToken:
		return ASCII, nil
	case binaryToken:
		return BinaryLittleEndian, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, tok)
	}
}
