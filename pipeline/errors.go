package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("pipeline: invalid config")
	// ErrMissingGeometry is returned when a pack carries no geometry manifest.
	ErrMissingGeometry = errors.New("pipeline: pack has no geometry")
	// ErrPointCountMismatch is returned when the decoded geometry and the pack
	// disagree on the number of points.
	ErrPointCountMismatch = errors.New("pipeline: point count mismatch")
	// ErrNotQuantized is returned when geometry values are not quantized integers.
	ErrNotQuantized = errors.New("pipeline: geometry is not quantized")
)

// Error reports the stage and file a pipeline run failed in.
type Error struct {
	Stage string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("pipeline %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("pipeline %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
