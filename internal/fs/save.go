package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var (
	// ErrDirectoryCreate is returned when a parent directory cannot be created.
	ErrDirectoryCreate = errors.New("fs: failed to create directory")
	// ErrOpen is returned when an output file cannot be opened.
	ErrOpen = errors.New("fs: failed to open file")
)

const writeBufferSize = 256 * 1024

// Exists reports whether path exists.
func Exists(fsys FileSystem, path string) bool {
	_, err := OrDefault(fsys).Stat(path)
	return err == nil
}

// EnsureDir creates the parent directory of path if it is missing.
func EnsureDir(fsys FileSystem, path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := OrDefault(fsys).MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDirectoryCreate, dir, err)
	}
	return nil
}

// SaveFile writes path through writeFunc atomically: the bytes go to a
// temporary sibling that is renamed over path only after writeFunc, flush,
// sync and close all succeed. On failure path is left untouched.
func SaveFile(fsys FileSystem, path string, writeFunc func(io.Writer) error) (err error) {
	fsys = OrDefault(fsys)
	if err := EnsureDir(fsys, path); err != nil {
		return err
	}

	dir, base := filepath.Dir(path), filepath.Base(path)
	tmp, err := fsys.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fsys.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(tmp, writeBufferSize)
	if err = writeFunc(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fsys.Rename(tmpName, path); err != nil {
		return err
	}

	// Best effort: make the rename durable.
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// FindFiles returns the regular files directly under dir whose base name
// matches pattern, sorted by name.
func FindFiles(fsys FileSystem, dir, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	entries, err := OrDefault(fsys).ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if re.MatchString(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
