// Package logger provides the leveled console log and the per-run output
// channel that external tool output is written to.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines to a writer. Color
// is used only when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger. A nil writer discards messages.
// Unknown or empty levels fall back to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: IsTerminal(writer),
		now:         time.Now,
	}
}

// IsTerminal reports whether w is a terminal that should receive colored
// output. NO_COLOR disables color everywhere.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}

	if color.NoColor {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NormalizeLevel lowercases level and maps unknown values to "info".
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

func levelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(level string) bool {
	return levelToInt(level) >= levelToInt(cl.logLevel)
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.logWithLevel("TRACE", message) }

func (cl *ConsoleLogger) LogDebug(message string) { cl.logWithLevel("DEBUG", message) }

func (cl *ConsoleLogger) LogInfo(message string) { cl.logWithLevel("INFO", message) }

func (cl *ConsoleLogger) LogWarn(message string) { cl.logWithLevel("WARN", message) }

func (cl *ConsoleLogger) LogError(message string) { cl.logWithLevel("ERROR", message) }

func (cl *ConsoleLogger) logWithLevel(level, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := cl.now().Format("15:04:05")

	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", color.New(color.FgHiBlack).Sprint(ts), colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	io.WriteString(cl.writer, formatted)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}
