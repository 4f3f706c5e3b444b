// Package flog is a small leveled logger for cmd/fitsdump, grounded on
// the example corpus's gLog package: a fixed set of *log.Logger values
// switched on a numeric verbosity level. The core fits package never
// imports this; only the CLI does, fed by the engine's warning channel.
package flog

import (
	"io"
	"log"
	"os"
)

// Level is a verbosity threshold; higher values are more verbose.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelTrace
)

var (
	Trace   = log.New(io.Discard, "TRACE: ", log.Ltime)
	Info    = log.New(io.Discard, "INFO: ", log.Ltime)
	Warning = log.New(os.Stderr, "WARN: ", log.Ltime)
	Error   = log.New(os.Stderr, "ERROR: ", log.Ltime)
)

// SetLevel switches each logger's output between its real writer and
// io.Discard so only messages at or below level are actually written.
func SetLevel(level Level) {
	Trace.SetOutput(writerFor(level, LevelTrace, os.Stdout))
	Info.SetOutput(writerFor(level, LevelInfo, os.Stdout))
	Warning.SetOutput(writerFor(level, LevelWarning, os.Stderr))
	Error.SetOutput(os.Stderr)
}

func writerFor(level, want Level, w io.Writer) io.Writer {
	if level >= want {
		return w
	}
	return io.Discard
}

// SetOutput redirects every logger, Error included, to w (for example
// a log file instead of the terminal).
func SetOutput(w io.Writer) {
	Trace.SetOutput(w)
	Info.SetOutput(w)
	Warning.SetOutput(w)
	Error.SetOutput(w)
}
