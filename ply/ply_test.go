package ply

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/splatpress/internal/fs"
	"github.com/hupe1980/splatpress/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	b := schema.NewBuilder()
	for _, name := range []string{"x", "y", "z", "opacity"} {
		require.NoError(t, b.Register("vertex", name, []string{"float", "float32"}, schema.Float32))
	}
	for _, name := range []string{"red", "green", "blue"} {
		require.NoError(t, b.Register("vertex", name, []string{"int", "int32"}, schema.Int32))
	}
	require.NoError(t, b.Register("camera", "fov", []string{"float"}, schema.Float32))
	return b.Build()
}

func testDataset(t *testing.T, reg *schema.Registry) *Dataset {
	t.Helper()
	ds := NewDataset()

	vs := schema.NewElementSchema("vertex", 3)
	require.NoError(t, vs.AddProperty(reg, "vertex", "x", "float"))
	require.NoError(t, vs.AddProperty(reg, "vertex", "y", "float32"))
	require.NoError(t, vs.AddProperty(reg, "vertex", "red", ""))
	ds.AddElement(vs)
	require.NoError(t, ds.SetFloat32s("vertex", []string{"x", "y"}, [][]float32{
		{0, -1.5, 3.4028235e38},
		{0.1, float32(math.SmallestNonzeroFloat32), -7},
	}))
	require.NoError(t, ds.SetInt32s("vertex", []string{"red"}, [][]int32{{0, -255, math.MaxInt32}}))

	cs := schema.NewElementSchema("camera", 1)
	require.NoError(t, cs.AddProperty(reg, "camera", "fov", ""))
	ds.AddElement(cs)
	ds.SetProperty("camera", "fov", Float32Values([]float32{60}))
	return ds
}

func TestRoundTrip(t *testing.T) {
	reg := testRegistry(t)

	for _, f := range []Format{ASCII, BinaryLittleEndian} {
		t.Run(f.String(), func(t *testing.T) {
			ds := testDataset(t, reg)

			var buf bytes.Buffer
			require.NoError(t, NewWriter(reg).Write(&buf, ds, f))

			got, err := NewReader(reg).Parse(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, f, got.Format)
			require.Len(t, got.Schemas, 2)
			assert.Equal(t, []string{"x", "y", "red"}, got.Schemas[0].PropertyNames())
			assert.Equal(t, "float32", got.Schemas[0].Properties[1].HeaderType)
			assert.Equal(t, "int", got.Schemas[0].Properties[2].HeaderType)

			for _, es := range ds.Schemas {
				for _, name := range es.PropertyNames() {
					want, err := ds.Property(es.Name, name)
					require.NoError(t, err)
					have, err := got.Property(es.Name, name)
					require.NoError(t, err)
					assert.Equal(t, want, have, "%s.%s", es.Name, name)
				}
			}
		})
	}
}

func TestWriteASCIILayout(t *testing.T) {
	reg := testRegistry(t)
	ds := NewDataset()
	es := schema.NewElementSchema("vertex", 2)
	require.NoError(t, es.AddProperty(reg, "vertex", "x", ""))
	require.NoError(t, es.AddProperty(reg, "vertex", "red", ""))
	ds.AddElement(es)
	ds.SetProperty("vertex", "x", Float32Values([]float32{1.5, -2}))
	ds.SetProperty("vertex", "red", Int32Values([]int32{7, 8}))

	var buf bytes.Buffer
	require.NoError(t, NewWriter(reg).Write(&buf, ds, ASCII))
	assert.Equal(t, "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty int red\nend_header\n1.5 7\n-2 8\n", buf.String())
}

func TestWriteBinaryLayout(t *testing.T) {
	reg := testRegistry(t)
	ds := NewDataset()
	es := schema.NewElementSchema("vertex", 1)
	require.NoError(t, es.AddProperty(reg, "vertex", "x", ""))
	require.NoError(t, es.AddProperty(reg, "vertex", "red", ""))
	ds.AddElement(es)
	ds.SetProperty("vertex", "x", Float32Values([]float32{1}))
	ds.SetProperty("vertex", "red", Int32Values([]int32{-2}))

	var buf bytes.Buffer
	require.NoError(t, NewWriter(reg).Write(&buf, ds, BinaryLittleEndian))

	hdr := "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\nproperty int red\nend_header\n"
	body := []byte{0x00, 0x00, 0x80, 0x3f, 0xfe, 0xff, 0xff, 0xff}
	assert.Equal(t, append([]byte(hdr), body...), buf.Bytes())
}

func TestWriteMasked(t *testing.T) {
	reg := testRegistry(t)
	ds := testDataset(t, reg)
	w := NewWriter(reg)

	t.Run("PartialIntersection", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, w.WriteMasked(&buf, ds, ASCII, []string{"red", "x"}))

		got, err := NewReader(reg).Parse(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, got.Schemas, 1)
		assert.Equal(t, "vertex", got.Schemas[0].Name)
		assert.Equal(t, []string{"x", "red"}, got.Schemas[0].PropertyNames())
	})

	t.Run("Disjoint", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, w.WriteMasked(&buf, ds, BinaryLittleEndian, []string{"nope"}))
		assert.Equal(t, "ply\nformat binary_little_endian 1.0\nend_header\n", buf.String())
	})

	t.Run("EmptyMask", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, w.WriteMasked(&buf, ds, ASCII, nil))
		assert.Equal(t, "ply\nformat ascii 1.0\nend_header\n", buf.String())
	})
}

func TestWriteValidation(t *testing.T) {
	reg := testRegistry(t)
	w := NewWriter(reg)

	t.Run("DimensionMismatch", func(t *testing.T) {
		ds := testDataset(t, reg)
		ds.SetProperty("vertex", "x", Float32Values([]float32{1}))
		var buf bytes.Buffer
		err := w.Write(&buf, ds, ASCII)
		require.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Zero(t, buf.Len())
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		ds := testDataset(t, reg)
		ds.SetProperty("vertex", "red", Float32Values([]float32{1, 2, 3}))
		err := w.Write(&bytes.Buffer{}, ds, BinaryLittleEndian)
		require.ErrorIs(t, err, ErrTypeMismatch)

		var pe *Error
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "red", pe.Property)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		ds := testDataset(t, reg)
		delete(ds.Elements["vertex"].Properties, "y")
		err := w.Write(&bytes.Buffer{}, ds, ASCII)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		err := w.Write(&bytes.Buffer{}, testDataset(t, reg), Format(9))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestParseHeaderErrors(t *testing.T) {
	reg := testRegistry(t)
	r := NewReader(reg)

	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"MissingMagic", "format ascii 1.0\nend_header\n", ErrInvalidHeader},
		{"UnknownFormat", "ply\nformat binary_big_endian 1.0\nend_header\n", ErrUnsupportedFormat},
		{"MissingFormat", "ply\nelement vertex 0\nend_header\n", ErrInvalidHeader},
		{"MissingEndHeader", "ply\nformat ascii 1.0\nelement vertex 1\n", ErrInvalidHeader},
		{"BadCount", "ply\nformat ascii 1.0\nelement vertex -1\nend_header\n", ErrInvalidHeader},
		{"UnknownKeyword", "ply\nformat ascii 1.0\nvertex 1\nend_header\n", ErrInvalidHeader},
		{"ListProperty", "ply\nformat ascii 1.0\nelement face 1\nproperty list uchar int idx\nend_header\n", ErrInvalidHeader},
		{"PropertyBeforeElement", "ply\nformat ascii 1.0\nproperty float x\nend_header\n", schema.ErrElementNameMismatch},
		{"UnregisteredType", "ply\nformat ascii 1.0\nelement vertex 1\nproperty double x\nend_header\n1\n", schema.ErrUnregisteredSchema},
		{"UnregisteredName", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float w\nend_header\n1\n", schema.ErrUnregisteredSchema},
		{"WrongElement", "ply\nformat ascii 1.0\nelement camera 1\nproperty float x\nend_header\n1\n", schema.ErrSchemaNotFound},
		{"DuplicateProperty", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float x\nend_header\n1 1\n", schema.ErrDuplicateProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Parse([]byte(tt.input))
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseRejectsBeforeBody(t *testing.T) {
	reg := testRegistry(t)
	// The body is garbage: an unregistered property must win over body errors.
	input := "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float q\nend_header\nnot-a-number\n"
	_, err := NewReader(reg).Parse([]byte(input))
	require.ErrorIs(t, err, schema.ErrUnregisteredSchema)
	assert.NotErrorIs(t, err, ErrMalformedBody)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 5, pe.Line)
	assert.Equal(t, "q", pe.Property)
}

func TestParseHeaderDetails(t *testing.T) {
	reg := testRegistry(t)
	input := "ply\r\ncomment made by hand\r\nobj_info none\r\nformat ascii 1.0\r\nelement vertex 2\r\nproperty float x\r\nend_header\r\n1\r\n2\r\n"

	ds, err := NewReader(reg).Parse([]byte(input))
	require.NoError(t, err)
	xs, err := ds.Float32s("vertex", "x")
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}}, xs)

	hdr, err := NewReader(reg).ParseHeader([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, hdr.Elements)
	require.Len(t, hdr.Schemas, 1)
	assert.Equal(t, 2, hdr.Schemas[0].Count)
}

func TestParseBodyErrors(t *testing.T) {
	reg := testRegistry(t)
	r := NewReader(reg)

	t.Run("ASCIITruncated", func(t *testing.T) {
		_, err := r.Parse([]byte("ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nend_header\n1 2\n3\n"))
		require.ErrorIs(t, err, ErrMalformedBody)
	})

	t.Run("ASCIIBadToken", func(t *testing.T) {
		_, err := r.Parse([]byte("ply\nformat ascii 1.0\nelement vertex 1\nproperty int red\nend_header\n1.5\n"))
		require.ErrorIs(t, err, ErrMalformedBody)
		assert.Contains(t, err.Error(), "1.5")
	})

	t.Run("BinaryTruncated", func(t *testing.T) {
		input := append([]byte("ply\nformat binary_little_endian 1.0\nelement vertex 2\nproperty float x\nend_header\n"), 0, 0, 0x80, 0x3f, 0)
		_, err := r.Parse(input)
		require.ErrorIs(t, err, ErrMalformedBody)
	})

	t.Run("HugeCount", func(t *testing.T) {
		_, err := r.Parse([]byte("ply\nformat binary_little_endian 1.0\nelement vertex 9223372036854775807\nproperty float x\nend_header\n"))
		require.ErrorIs(t, err, ErrMalformedBody)
	})
}

func TestReadFile(t *testing.T) {
	reg := testRegistry(t)
	dir := t.TempDir()

	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "scene.ply")
		ds := testDataset(t, reg)
		require.NoError(t, NewWriter(reg).WriteFile(path, ds, BinaryLittleEndian))

		got, err := NewReader(reg).ReadFile(path)
		require.NoError(t, err)
		want, _ := ds.Int32s("vertex", "red")
		have, err := got.Int32s("vertex", "red")
		require.NoError(t, err)
		assert.Equal(t, want, have)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := NewReader(reg).ReadFile(filepath.Join(dir, "missing.ply"))
		require.ErrorIs(t, err, ErrFileNotFound)

		var pe *Error
		require.True(t, errors.As(err, &pe))
		assert.Contains(t, pe.Path, "missing.ply")
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ply")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := NewReader(reg).ReadFile(path)
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("Masked", func(t *testing.T) {
		path := filepath.Join(dir, "geometry.ply")
		require.NoError(t, NewWriter(reg).WriteFileMasked(path, testDataset(t, reg), ASCII, []string{"x", "y", "z"}))

		got, err := NewReader(reg).ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, got.Schemas[0].PropertyNames())
		_, err = got.Element("camera")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestWriteFileNoPartialOutput(t *testing.T) {
	reg := testRegistry(t)

	cases := map[string]fs.Fault{
		"Write":  {FailAfterBytes: 16},
		"Sync":   {FailAfterBytes: -1, FailOnSync: true},
		"Rename": {FailAfterBytes: -1, FailOnRename: true},
	}
	for name, fault := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.ply")
			fsys := fs.NewFaultyFS(nil)
			fsys.AddRule("out.ply", fault)

			err := NewWriter(reg, WithFileSystem(fsys)).WriteFile(path, testDataset(t, reg), ASCII)
			require.ErrorIs(t, err, fs.ErrInjected)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}

	t.Run("ValidationFailureCreatesNothing", func(t *testing.T) {
		dir := t.TempDir()
		ds := testDataset(t, reg)
		ds.SetProperty("vertex", "x", nil)
		err := NewWriter(reg).WriteFile(filepath.Join(dir, "out.ply"), ds, ASCII)
		require.ErrorIs(t, err, ErrDimensionMismatch)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestValueAccess(t *testing.T) {
	v := Float32Value(2.5)
	f, err := v.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), f)
	_, err = v.Int32()
	require.ErrorIs(t, err, ErrTypeMismatch)

	n, err := Int32Value(-3).Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-3), n)

	_, err = Float32Column([]Value{Float32Value(1), Int32Value(1)})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestElementLen(t *testing.T) {
	el := NewElement("vertex")
	n, err := el.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	el.SetProperty("x", Float32Values([]float32{1, 2}))
	el.SetProperty("y", Float32Values([]float32{1}))
	_, err = el.Len()
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDescribe(t *testing.T) {
	reg := testRegistry(t)
	info := testDataset(t, reg).Describe()
	require.Len(t, info, 2)
	assert.Equal(t, "vertex", info[0].Name)
	assert.Equal(t, 3, info[0].Count)
	assert.Equal(t, PropertyInfo{Name: "y", HeaderType: "float32", Storage: schema.Float32, Values: 3}, info[0].Properties[1])
}
