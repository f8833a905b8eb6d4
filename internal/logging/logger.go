package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// LogLevel represents different logging levels
type LogLevel int32

const (
	// LevelError only logs errors
	LevelError LogLevel = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs general information, warnings and errors
	LevelInfo
	// LevelDebug logs detailed debug information and all above
	LevelDebug
	// LevelTrace logs very detailed trace information and all above
	LevelTrace
)

var levelNames = map[LogLevel]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

// Logger tags every line with the component it was created for
// (vfscore registers one per package: "resolve", "writedir",
// "dirbackend", and so on) and filters by a level shared with the
// logger it was derived from.
//
// Every one of those package loggers is a var initializer that runs at
// program startup, before main() gets a chance to call SetLevel or read
// VFS_DEBUG off the environment. If each carried its own independent
// level, as the first cut of this file did, SetLevel on the root logger
// (cmd/vfsmount's -verbose flag) would never reach any of them — they'd
// already be frozen at the zero value, LevelError. level is instead a
// pointer shared with whichever logger WithPrefix was called on, so one
// call to SetLevel anywhere in a lineage immediately governs every
// logger derived from it, independent of construction order.
type Logger struct {
	component string
	level     *atomic.Int32
	out       *log.Logger
}

var (
	defaultLogger *Logger
	initDefault   sync.Once
)

// GetLogger returns the root logger, reading VFS_LOG_LEVEL/VFS_DEBUG
// from the environment the first time it is called. Every package's
// WithPrefix-derived logger shares this logger's level pointer.
func GetLogger() *Logger {
	initDefault.Do(func() {
		defaultLogger = NewLogger("vfscore")
		if level := os.Getenv("VFS_LOG_LEVEL"); level != "" {
			for l, name := range levelNames {
				if name == level {
					defaultLogger.SetLevel(l)
				}
			}
		}
		if os.Getenv("VFS_DEBUG") != "" {
			defaultLogger.SetLevel(LevelDebug)
		}
	})
	return defaultLogger
}

// NewLogger creates a standalone root logger for component, with its
// own independent level.
func NewLogger(component string) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC
	if os.Getenv("LOG_LONGFILE") != "" {
		flags |= log.Llongfile
	} else {
		flags |= log.Lshortfile
	}

	level := new(atomic.Int32)
	level.Store(int32(LevelInfo))
	return &Logger{
		component: component,
		level:     level,
		out:       log.New(os.Stdout, "", flags),
	}
}

// SetLevel sets the logging level for l and every logger that shares
// its level pointer (l itself plus every present and future descendant
// produced by WithPrefix).
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level <= LogLevel(l.level.Load())
}

// log performs the actual logging, tagging the line with this logger's
// own component rather than the shared *log.Logger's fixed prefix, so
// that e.g. dirbackend and resolve are distinguishable in output even
// though both were derived from the same GetLogger() root.
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s: %s", levelNames[level], l.component, msg)
	if err := l.out.Output(3, line); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log message: %v\n", err)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Trace logs a trace message
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(LevelTrace, format, args...)
}

// WithPrefix derives a logger for a subsystem ("resolve", "dirbackend",
// ...), sharing l's level pointer and underlying writer. Every package
// in vfscore calls this exactly once, at var-init time, against the
// shared GetLogger() root.
func (l *Logger) WithPrefix(component string) *Logger {
	return &Logger{
		component: component,
		level:     l.level,
		out:       l.out,
	}
}
