// ABOUTME: Leveled stderr logger shared by the CLI, LLM client and fan-out
// ABOUTME: Thin setup over charmbracelet/log so commands get one consistent format
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Options controls logger construction
type Options struct {
	Level   string
	Verbose bool
	Quiet   bool
	Output  io.Writer
}

// New builds a logger. Verbose forces debug and Quiet limits output to errors.
func New(opts Options) (*log.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	switch {
	case opts.Quiet:
		level = log.ErrorLevel
	case opts.Verbose:
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          "microdoser",
		ReportTimestamp: opts.Verbose,
		TimeFormat:      time.Kitchen,
	})
	return logger, nil
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard)
}
