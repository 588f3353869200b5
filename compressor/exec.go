package compressor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Config describes the command lines of an external compressor. Arguments
// may hold the placeholders {input} and {output} and any key of Params
// written as {key}.
type Config struct {
	Compress   []string          `yaml:"compress"`
	Decompress []string          `yaml:"decompress"`
	Params     map[string]string `yaml:"params"`
	// Dir is the working directory; empty means the current one.
	Dir string `yaml:"dir"`
}

// Enabled reports whether at least one direction is configured.
func (c Config) Enabled() bool {
	return len(c.Compress) > 0 || len(c.Decompress) > 0
}

// Exec runs Config's command lines as subprocesses.
type Exec struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures an Exec.
type Option func(*Exec)

// WithLogger sets the logger. Nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exec) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExec returns an Exec for cfg.
func NewExec(cfg Config, opts ...Option) *Exec {
	e := &Exec{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the compress executable, or "exec".
func (e *Exec) Name() string {
	if len(e.cfg.Compress) > 0 {
		return filepath.Base(e.cfg.Compress[0])
	}
	return "exec"
}

// Compress runs the compress command line.
func (e *Exec) Compress(ctx context.Context, input, output string) error {
	return e.run(ctx, "compress", e.cfg.Compress, input, output)
}

// Decompress runs the decompress command line.
func (e *Exec) Decompress(ctx context.Context, input, output string) error {
	return e.run(ctx, "decompress", e.cfg.Decompress, input, output)
}

func (e *Exec) expand(args []string, input, output string) []string {
	pairs := []string{"{input}", input, "{output}", output}
	for k, v := range e.cfg.Params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)

	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}

const stderrTail = 4096

func (e *Exec) run(ctx context.Context, op string, tmpl []string, input, output string) error {
	if len(tmpl) == 0 {
		return &Error{Op: op, Err: ErrNotConfigured}
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return &Error{Op: op, Command: tmpl[0], Err: err}
	}

	args := e.expand(tmpl, input, output)
	//nolint:gosec // G204: the command line comes from the operator's configuration
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.cfg.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	e.logger.Info("running compressor", "op", op, "command", args[0], "input", input, "output", output)
	runErr := cmd.Run()
	e.logger.Debug("compressor finished", "op", op, "elapsed", time.Since(start), "stdout_bytes", stdout.Len())

	if runErr != nil {
		fail := &Error{Op: op, Command: args[0], Stderr: tail(stderr.Bytes()),
			Err: fmt.Errorf("%w: %w", ErrCompressorFailed, runErr)}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			fail.ExitCode = exitErr.ExitCode()
		}
		return fail
	}
	if _, err := os.Stat(output); err != nil {
		return &Error{Op: op, Command: args[0], Stderr: tail(stderr.Bytes()),
			Err: fmt.Errorf("%w: no output at %s", ErrCompressorFailed, output)}
	}
	return nil
}

func tail(b []byte) string {
	if len(b) > stderrTail {
		b = b[len(b)-stderrTail:]
	}
	return strings.TrimSpace(string(b))
}
