package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestDebugfHonoursVerbose(t *testing.T) {
	var buf bytes.Buffer
	restore := SetConsole(&buf)
	defer restore()
	defer SetVerbose(false)

	SetVerbose(false)
	Debugf("hidden %d\n", 1)
	if buf.Len() != 0 {
		t.Fatalf("Debugf wrote output while not verbose: %q", buf.String())
	}

	SetVerbose(true)
	Debugf("shown %d\n", 2)
	if got := buf.String(); got != "shown 2\n" {
		t.Fatalf("Debugf output=%q", got)
	}
}

func TestOutputFileReceivesPlainText(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prevNoColor }()

	var buf bytes.Buffer
	restore := SetConsole(&buf)
	defer restore()

	logPath := filepath.Join(t.TempDir(), "logs", "vsmd.log")
	if err := SetOutputFile(logPath); err != nil {
		t.Fatalf("SetOutputFile failed: %v", err)
	}

	Warnf("careful %s\n", "now")
	Infoln("plain")

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := string(data); got != "careful now\nplain\n" {
		t.Fatalf("log file content=%q", got)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("console output should be coloured: %q", buf.String())
	}
}

func TestSetOutputFileEmptyPathDisablesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "vsmd.log")
	if err := SetOutputFile(logPath); err != nil {
		t.Fatalf("SetOutputFile failed: %v", err)
	}
	if err := SetOutputFile(""); err != nil {
		t.Fatalf("SetOutputFile(\"\") failed: %v", err)
	}

	var buf bytes.Buffer
	restore := SetConsole(&buf)
	defer restore()
	Infof("after close\n")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("log file should be empty after disabling, got %q", data)
	}
}
