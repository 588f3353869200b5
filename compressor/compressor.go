// Package compressor runs the external geometry compressor.
//
// The compressor is a black box that reads a container file and writes one.
// It is never retried: a failing run is reported with its exit code and the
// tail of its stderr.
package compressor

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCompressorFailed is returned when the external command fails or
	// produces no output.
	ErrCompressorFailed = errors.New("compressor: command failed")
	// ErrNotConfigured is returned when a direction has no command.
	ErrNotConfigured = errors.New("compressor: no command configured")
)

// Compressor converts between a geometry container and its compressed form.
type Compressor interface {
	Compress(ctx context.Context, input, output string) error
	Decompress(ctx context.Context, input, output string) error
	Name() string
}

// Error describes a failed run.
type Error struct {
	Op       string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("compressor %s %s: %v", e.Op, e.Command, e.Err)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
