package obs

import (
	"log"
	"os"

	"github.com/fatih/color"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var levelColors = map[Level]*color.Color{
	Debug: forced(color.New(color.FgHiBlack)),
	Info:  forced(color.New(color.FgCyan)),
	Warn:  forced(color.New(color.FgYellow)),
	Error: forced(color.New(color.FgRed, color.Bold)),
}

// forced ignores the global color.NoColor switch; StdLogger.Color decides.
func forced(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

// tag renders the bracketed level tag, colored when requested.
func (l Level) tag(colored bool) string {
	s := "[" + l.String() + "]"
	if !colored {
		return s
	}
	c, ok := levelColors[l]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

// Logger is a minimal logging interface for observability.
type Logger interface {
	Logf(level Level, format string, args ...interface{})
}

// NopLogger discards all logs.
type NopLogger struct{}

func (NopLogger) Logf(level Level, format string, args ...interface{}) {}

// StdLogger adapts the standard library logger.
type StdLogger struct {
	L     *log.Logger
	Min   Level
	Pref  string // optional prefix per log line
	Color bool   // colorize the level tag
}

// NewConsoleLogger returns a StdLogger writing to stderr. Level tags are
// colored only when the terminal supports it and NO_COLOR is unset.
func NewConsoleLogger(min Level, pref string) StdLogger {
	return StdLogger{
		L:     log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
		Min:   min,
		Pref:  pref,
		Color: !color.NoColor,
	}
}

func (s StdLogger) Logf(level Level, format string, args ...interface{}) {
	if s.L == nil {
		return
	}
	if level < s.Min {
		return
	}
	tag := level.tag(s.Color)
	if s.Pref != "" {
		s.L.Printf("%s%s "+format, append([]interface{}{s.Pref, tag}, args...)...)
	} else {
		s.L.Printf("%s "+format, append([]interface{}{tag}, args...)...)
	}
}
