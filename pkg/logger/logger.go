package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger shared by the collaboration server packages.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - Writer(level) bridges libraries that want an io.Writer (gin's request log)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// ParseLevel maps a level name to a Level; unknown names map to LevelInfo.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

func header(l Level) string {
	return fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(l.String()))
}

func output(l Level, msg string) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	logger.Print(header(l) + msg)
}

func Debugf(format string, v ...interface{}) { output(LevelDebug, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...interface{})  { output(LevelInfo, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...interface{})  { output(LevelWarn, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...interface{}) { output(LevelError, fmt.Sprintf(format, v...)) }

func Fatalf(format string, v ...interface{}) {
	mu.RLock()
	logger.Print(header(LevelFatal) + fmt.Sprintf(format, v...))
	mu.RUnlock()
	os.Exit(1)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { output(LevelDebug, v) }
func Info(v string)  { output(LevelInfo, v) }
func Warn(v string)  { output(LevelWarn, v) }
func Error(v string) { output(LevelError, v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}

// Writer returns an io.Writer that logs each write as one line at l.
func Writer(l Level) io.Writer { return levelWriter(l) }

type levelWriter Level

func (w levelWriter) Write(p []byte) (int, error) {
	output(Level(w), strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
