// Package logger implements the core's severity-tagged message stream.
//
// The core never decides what to do with a message — it only dispatches to
// whatever sink is installed for a given level. A driver overrides the
// Critical sink to stop its run loop; see spec §4.5 and §7.
package logger

import (
	"fmt"
	"log/slog"
)

// Level is the severity of a logged message.
type Level int

const (
	Info Level = iota
	Warning
	Critical
)

func (l Level) String() string {
	switch l {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Sink receives a fully formatted message for a given level.
type Sink func(message string)

// Logger dispatches formatted messages to one sink per severity level.
//
// Before a driver calls SetSink, every level defaults to slog.Default at the
// matching level, so the core is never silently inert.
type Logger struct {
	sinks [3]Sink
}

// New returns a Logger with the default slog-backed sinks installed.
func New() *Logger {
	l := &Logger{}
	l.sinks[Info] = func(msg string) { slog.Info(msg) }
	l.sinks[Warning] = func(msg string) { slog.Warn(msg) }
	l.sinks[Critical] = func(msg string) { slog.Error(msg) }
	return l
}

// SetSink installs or replaces the sink for the given level.
func (l *Logger) SetSink(level Level, sink Sink) {
	l.sinks[level] = sink
}

// Log formats the message and dispatches it to the sink installed for level.
func (l *Logger) Log(level Level, format string, args ...any) {
	sink := l.sinks[level]
	if sink == nil {
		return
	}
	sink(fmt.Sprintf(format, args...))
}
