package logger

import (
	"fmt"
	"io"
	"time"
)

// Logger is a small leveled logger that only needs an io.Writer, so device
// builds can hand it machine.Serial and host builds os.Stdout.
type Logger struct {
	name  string
	out   io.Writer
	level LogLevel
	color bool
}

type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelLabels = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO ",
	WarnLevel:  "WARN ",
	ErrorLevel: "ERROR",
}

var levelColors = map[LogLevel]string{
	DebugLevel: "\033[34m", // blue
	InfoLevel:  "\033[32m", // green
	WarnLevel:  "\033[33m", // yellow
	ErrorLevel: "\033[31m", // red
}

const colorReset = "\033[0m"

func New(name string, out io.Writer, level LogLevel) *Logger {
	return &Logger{
		name:  name,
		out:   out,
		level: level,
		color: true,
	}
}

// NoColor disables ANSI escapes; serial monitors rarely render them.
func (l *Logger) NoColor() *Logger {
	l.color = false
	return l
}

// Named returns a child logger with its own component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, out: l.out, level: l.level, color: l.color}
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	if level < l.level {
		return
	}
	ts := time.Now().UnixMilli()
	msg := fmt.Sprintf(format, args...)
	label := levelLabels[level]
	if l.color {
		fmt.Fprintf(
			l.out,
			"%s[%s %d] %s%s %s\n",
			levelColors[level], label, ts, l.name, colorReset, msg,
		)
		return
	}
	fmt.Fprintf(l.out, "[%s %d] %s %s\n", label, ts, l.name, msg)
}

func (l *Logger) Debug(format string, args ...any) { l.log(DebugLevel, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(InfoLevel, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(WarnLevel, format, args...) }

func (l *Logger) Error(err error, format string, args ...any) {
	format = format + ": " + err.Error()
	l.log(ErrorLevel, format, args...)
}
