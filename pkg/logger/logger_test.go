package logger

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg %d", 1)
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "[WARN] warn-msg 1") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error-msg") {
		t.Fatalf("error message missing: %q", out)
	}
	Init("info")
}

func TestWriterLogsAtLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Init("info")
	w := Writer(LevelInfo)
	fmt.Fprintln(w, "[GIN] 200 | GET /documents")
	if !strings.Contains(buf.String(), "[INFO] [GIN] 200 | GET /documents") {
		t.Fatalf("writer output missing: %q", buf.String())
	}
	if strings.HasSuffix(buf.String(), "\n\n") {
		t.Fatalf("trailing newline should be trimmed before logging: %q", buf.String())
	}

	buf.Reset()
	dw := Writer(LevelDebug)
	fmt.Fprint(dw, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug writer should be suppressed at info level, got %q", buf.String())
	}
}
