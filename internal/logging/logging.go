// Package logging constructs the application logger. All components log
// through hclog with key/value pairs; this package only owns construction
// (level parsing, color detection, optional file sink).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Options configures [New].
type Options struct {
	Level   string // trace|debug|info|warn|error; empty means info.
	LogFile string // Optional extra sink, appended to and never truncated.
	NoColor bool
}

// New builds the root logger. When LogFile is set the returned closer owns
// the file handle; it is a no-op otherwise.
func New(name string, opts Options) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	output := io.Writer(os.Stderr)
	var closer io.Closer = nopCloser{}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: output,
		Color:  colorMode(opts),
	})
	return logger, closer, nil
}

func colorMode(opts Options) hclog.ColorOption {
	// A file sink shares the writer, so color codes would land in the file.
	if opts.NoColor || opts.LogFile != "" || os.Getenv("NO_COLOR") != "" {
		return hclog.ColorOff
	}
	return hclog.AutoColor
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
