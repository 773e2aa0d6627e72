package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

var (
	verbose atomic.Bool

	mu         sync.Mutex
	console    io.Writer = color.Output
	outputFile *os.File
	outputPath string

	warnPaint    = color.New(color.FgYellow).SprintFunc()
	errorPaint   = color.New(color.FgRed).SprintFunc()
	successPaint = color.New(color.FgGreen).SprintFunc()
)

const separatorWidth = 50

// SetVerbose enables or disables debug logging for the current process.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// SetConsole redirects console output and returns a func restoring the
// previous writer. Colour codes are still governed by color.NoColor.
func SetConsole(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := console
	console = w
	return func() {
		mu.Lock()
		defer mu.Unlock()
		console = prev
	}
}

// SetOutputFile configures optional file logging while preserving console output.
// Passing an empty path disables file logging. The file never receives colour codes.
func SetOutputFile(path string) error {
	path = strings.TrimSpace(path)

	mu.Lock()
	defer mu.Unlock()

	if path == outputPath {
		return nil
	}

	if outputFile != nil {
		err := outputFile.Close()
		outputFile = nil
		outputPath = ""
		if err != nil {
			return err
		}
	}

	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	outputFile = f
	outputPath = path
	return nil
}

// Close flushes and closes the log file if one is configured.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if outputFile == nil {
		return nil
	}
	err := outputFile.Close()
	outputFile = nil
	outputPath = ""
	return err
}

func write(paint func(...any) string, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if paint != nil {
		fmt.Fprint(console, paint(msg))
	} else {
		fmt.Fprint(console, msg)
	}
	if outputFile != nil {
		fmt.Fprint(outputFile, msg)
	}
}

// Infof prints formatted output regardless of verbosity level.
func Infof(format string, args ...any) {
	write(nil, fmt.Sprintf(format, args...))
}

// Infoln prints output regardless of verbosity level.
func Infoln(args ...any) {
	write(nil, fmt.Sprintln(args...))
}

// Warnf prints formatted output in yellow.
func Warnf(format string, args ...any) {
	write(warnPaint, fmt.Sprintf(format, args...))
}

// Errorf prints formatted output in red. It does not return an error.
func Errorf(format string, args ...any) {
	write(errorPaint, fmt.Sprintf(format, args...))
}

// Successf prints formatted output in green.
func Successf(format string, args ...any) {
	write(successPaint, fmt.Sprintf(format, args...))
}

// Separator prints a horizontal rule between per-mod blocks.
func Separator() {
	write(nil, strings.Repeat("─", separatorWidth)+"\n")
}

// Debugf prints formatted output only when verbose mode is enabled.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	write(nil, fmt.Sprintf(format, args...))
}
