package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
	"github.com/hupe1980/splatpress/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"splatpress"}, args...))
	return buf.String(), err
}

func writeScene(t *testing.T, dir, name string, n int) string {
	t.Helper()
	ds, err := testutil.SplatDataset(testutil.NewRNG(3), schema.Default(), n)
	require.NoError(t, err)
	return testutil.WritePLY(t, dir, name, ds, ply.BinaryLittleEndian)
}

func TestInfo(t *testing.T) {
	in := writeScene(t, t.TempDir(), "scene.ply", 12)

	out, err := run(t, "info", in)
	require.NoError(t, err)
	assert.Contains(t, out, "binary_little_endian")
	assert.Contains(t, out, "vertex")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "f_rest_44")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir, "scene.ply", 5)
	outPath := filepath.Join(dir, "ascii.ply")

	_, err := run(t, "convert", "--format", "ascii", "--mask", "x,y,z", in, outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("ply\nformat ascii 1.0\nelement vertex 5\nproperty float x\n")))
	assert.NotContains(t, string(data), "opacity")
}

func TestConvertAllProperties(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir, "scene.ply", 7)
	outPath := filepath.Join(dir, "ascii.ply")

	_, err := run(t, "convert", "--format", "ascii", in, outPath)
	require.NoError(t, err)

	ds, err := ply.NewReader(schema.Default()).ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, ply.ASCII, ds.Format)
	es, ok := ds.Schema("vertex")
	require.True(t, ok)
	assert.Equal(t, 7, es.Count)
	assert.Len(t, es.PropertyNames(), 65)
}

func TestEncodeDecode(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir, "scene.ply", 200)
	encoded := filepath.Join(dir, "encoded")
	restored := filepath.Join(dir, "restored.ply")

	out, err := run(t, "encode", "--bits", "14", "--compression", "lz4", in, encoded)
	require.NoError(t, err)
	assert.Contains(t, out, "200 points")
	assert.FileExists(t, filepath.Join(encoded, "attributes.spak"))

	out, err = run(t, "decode", "--format", "ascii", encoded, restored)
	require.NoError(t, err)
	assert.Contains(t, out, restored)

	info, err := run(t, "info", restored)
	require.NoError(t, err)
	assert.Contains(t, info, "ascii")
}

func TestEncodeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "a.ply", 10)
	writeScene(t, dir, "b.ply", 10)
	writeScene(t, dir, "skip.bak", 10)

	out, err := run(t, "encode", "--match", `^[ab]\.ply$`, dir, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Contains(t, out, "a.ply")
	assert.Contains(t, out, "b.ply")
	assert.NoDirExists(t, filepath.Join(dir, "out", "skip"))
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "info")
	assert.Error(t, err)

	_, err = run(t, "info", filepath.Join(dir, "missing.ply"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FileNotFound")

	in := writeScene(t, dir, "scene.ply", 3)
	_, err = run(t, "encode", "--bits", "40", in, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConfigError")

	_, err = run(t, "convert", "--format", "binary_big_endian", in, filepath.Join(dir, "x.ply"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnsupportedFormat")
}
