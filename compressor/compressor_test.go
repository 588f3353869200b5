package compressor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/splatpress/internal/fs"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	in := filepath.Join(dir, "geometry.ply")
	require.NoError(t, os.WriteFile(in, []byte("payload"), 0o644))
	return in
}

func TestExecCompress(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out", "geometry.bin")

	c := NewExec(Config{
		Compress: []string{"sh", "-c", `printf '%s:' "$2" > "$1" && cat "$0" >> "$1"`, "{input}", "{output}", "q={quality}"},
		Params:   map[string]string{"quality": "11"},
	})
	assert.Equal(t, "sh", c.Name())
	require.NoError(t, c.Compress(context.Background(), in, out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "q=11:payload", string(got))
}

func TestExecFailure(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	in := writeInput(t, dir)

	c := NewExec(Config{Decompress: []string{"sh", "-c", "echo boom >&2; exit 3"}})
	err := c.Decompress(context.Background(), in, filepath.Join(dir, "x.ply"))
	require.ErrorIs(t, err, ErrCompressorFailed)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.ExitCode)
	assert.Equal(t, "boom", ce.Stderr)
	assert.Equal(t, "decompress", ce.Op)
}

func TestExecNoOutput(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	in := writeInput(t, dir)

	c := NewExec(Config{Compress: []string{"sh", "-c", "true"}})
	err := c.Compress(context.Background(), in, filepath.Join(dir, "never.bin"))
	require.ErrorIs(t, err, ErrCompressorFailed)
}

func TestExecNotConfigured(t *testing.T) {
	c := NewExec(Config{})
	assert.False(t, Config{}.Enabled())
	err := c.Compress(context.Background(), "a", "b")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestPassthrough(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "copy", "geometry.bin")

	var c Compressor = Passthrough{}
	require.NoError(t, c.Compress(context.Background(), in, out))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	err = c.Decompress(context.Background(), filepath.Join(dir, "missing"), out)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPassthroughFileSystem(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "geometry.bin")

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("geometry.ply", fs.Fault{FailOnOpen: true, FailAfterBytes: -1})

	err := Passthrough{FS: ffs}.Compress(context.Background(), in, out)
	require.ErrorIs(t, err, fs.ErrInjected)
	assert.NoFileExists(t, out)
	assert.FileExists(t, in)
}
