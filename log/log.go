// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log exports logging primitives that log to stderr and also to an
// external logger, such as a mirror file, if one is registered.
package log // import "binhistory.io/log"

// We call this log instead of logging for two reasons:
// 1) It's shorter to type;
// 2) it mimics Go's log package and can be used as a drop-in replacement for it.

import (
	"fmt"
	"io"
	goLog "log"
	"os"
	"sync"
)

// Logger is the interface for logging messages.
type Logger interface {
	// Printf writes a formated message to the log.
	Printf(format string, v ...interface{})

	// Print writes a message to the log.
	Print(v ...interface{})

	// Println writes a line to the log.
	Println(v ...interface{})

	// Fatal writes a message to the log and aborts.
	Fatal(v ...interface{})

	// Fatalf writes a formated message to the log and aborts.
	Fatalf(format string, v ...interface{})
}

// ExternalLogger describes a service that processes logs.
type ExternalLogger interface {
	Log(Level, string)
	Flush()
}

// Level represents the level of logging.
type Level int

// Different levels of logging.
const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
	DisabledLevel
)

// The set of default loggers for each log level.
var (
	Debug = &logger{DebugLevel}
	Info  = &logger{InfoLevel}
	Error = &logger{ErrorLevel}
)

type globalState struct {
	mu             sync.RWMutex
	currentLevel   Level
	defaultLogger  Logger
	externalLogger ExternalLogger
}

var state = globalState{
	currentLevel:  InfoLevel,
	defaultLogger: newDefaultLogger(os.Stderr),
}

func globals() *globalState {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return &state
}

func newDefaultLogger(w io.Writer) Logger {
	return goLog.New(w, "", goLog.Ldate|goLog.Ltime|goLog.LUTC|goLog.Lmicroseconds)
}

// SetOutput sets the default logger to write to w.
// If w is nil, the default logger is disabled.
func SetOutput(w io.Writer) {
	state.mu.Lock()
	defer state.mu.Unlock()

	if w == nil {
		state.defaultLogger = nil
	} else {
		state.defaultLogger = newDefaultLogger(w)
	}
}

// Register connects an ExternalLogger to the default logger. This may only be
// called once.
func Register(e ExternalLogger) {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.externalLogger != nil {
		panic("cannot register second external logger")
	}
	state.externalLogger = e
}

type logger struct {
	level Level
}

var _ Logger = (*logger)(nil)

// Printf writes a formatted message to the log.
func (l *logger) Printf(format string, v ...interface{}) {
	g := globals()

	if l.level < g.currentLevel {
		return // Don't log at lower levels.
	}
	if g.externalLogger != nil {
		g.externalLogger.Log(l.level, fmt.Sprintf(format, v...))
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Printf(format, v...)
	}
}

// Print writes a message to the log.
func (l *logger) Print(v ...interface{}) {
	g := globals()

	if l.level < g.currentLevel {
		return // Don't log at lower levels.
	}
	if g.externalLogger != nil {
		g.externalLogger.Log(l.level, fmt.Sprint(v...))
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Print(v...)
	}
}

// Println writes a line to the log.
func (l *logger) Println(v ...interface{}) {
	g := globals()

	if l.level < g.currentLevel {
		return // Don't log at lower levels.
	}
	if g.externalLogger != nil {
		g.externalLogger.Log(l.level, fmt.Sprintln(v...))
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Println(v...)
	}
}

// Fatal writes a message to the log and aborts, regardless of the current log level.
func (l *logger) Fatal(v ...interface{}) {
	g := globals()

	if g.externalLogger != nil {
		g.externalLogger.Log(l.level, fmt.Sprint(v...))
		// Make sure we get this message to the external logger.
		g.externalLogger.Flush()
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Fatal(v...)
	} else {
		goLog.Fatal(v...)
	}
}

// Fatalf writes a formated message to the log and aborts, regardless of the
// current log level.
func (l *logger) Fatalf(format string, v ...interface{}) {
	g := globals()

	if g.externalLogger != nil {
		g.externalLogger.Log(l.level, fmt.Sprintf(format, v...))
		// Make sure we get this message to the external logger.
		g.externalLogger.Flush()
	}
	if g.defaultLogger != nil {
		g.defaultLogger.Fatalf(format, v...)
	} else {
		goLog.Fatalf(format, v...)
	}
}

// String returns the name of the logger.
func (l *logger) String() string {
	return l.level.String()
}

// String returns the name of the level.
func (l Level) String() string {
	switch l {
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	case ErrorLevel:
		return "error"
	case DisabledLevel:
		return "disabled"
	}
	return "unknown"
}

func toLevel(level string) (Level, error) {
	switch level {
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "error":
		return ErrorLevel, nil
	case "disabled":
		return DisabledLevel, nil
	}
	return DisabledLevel, fmt.Errorf("invalid log level %q", level)
}

// GetLevel returns the current logging level.
func GetLevel() string {
	return globals().currentLevel.String()
}

// SetLevel sets the current level of logging.
func SetLevel(level string) error {
	l, err := toLevel(level)
	if err != nil {
		return err
	}
	state.mu.Lock()
	state.currentLevel = l
	state.mu.Unlock()
	return nil
}

// At returns whether the level will be logged currently.
func At(level string) bool {
	l, err := toLevel(level)
	if err != nil {
		return false
	}
	return globals().currentLevel <= l
}

// Printf writes a formatted message to the log.
func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

// Print writes a message to the log.
func Print(v ...interface{}) {
	Info.Print(v...)
}

// Println writes a line to the log.
func Println(v ...interface{}) {
	Info.Println(v...)
}

// Fatal writes a message to the log and aborts.
func Fatal(v ...interface{}) {
	Info.Fatal(v...)
}

// Fatalf writes a formatted message to the log and aborts.
func Fatalf(format string, v ...interface{}) {
	Info.Fatalf(format, v...)
}

// Flush flushes the external logger, if any.
func Flush() {
	g := globals()
	if g.externalLogger != nil {
		g.externalLogger.Flush()
	}
}
