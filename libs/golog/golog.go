// Package golog provides leveled logging with pluggable handlers and formatters.
package golog

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents a log level (CRIT, ERR, ...)
type Level int32

// Log levels
const (
	CRIT  Level = iota // For panics (code bugs)
	ERR                // General errors (e.g. errors from database, etc)
	WARN               // e.g. correctable but inconsistent state
	INFO               // e.g. access logs, analytics, ...
	DEBUG              // Normally turned off but can help to track down issues
)

// Levels maps log level to a string
var Levels = map[Level]string{
	CRIT:  "CRIT",
	ERR:   "ERR",
	WARN:  "WARN",
	INFO:  "INFO",
	DEBUG: "DEBUG",
}

func (l Level) String() string {
	if s := Levels[l]; s != "" {
		return s
	}
	return strconv.Itoa(int(l))
}

// Logger is a leveled logger with optional key/value context.
type Logger interface {
	Context(ctx ...interface{}) Logger

	SetLevel(l Level) Level
	Level() Level
	// L returns true if the current level is greater than or equal to 'l'
	L(l Level) bool

	SetHandler(h Handler)
	Handler() Handler

	Logf(calldepth int, l Level, format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Handler writes log entries to some destination.
type Handler interface {
	Log(e *Entry) error
}

// Entry is a single log line.
type Entry struct {
	Time time.Time
	Lvl  Level
	Msg  string
	Ctx  []interface{}
	Src  string
}

type logger struct {
	mu  sync.Mutex
	ctx []interface{}
	hnd Handler
	lvl Level
}

var defaultL = &logger{
	hnd: DefaultHandler,
	lvl: INFO,
}

// DefaultHandler writes logfmt entries to stdout/stderr.
var DefaultHandler = IOHandler(os.Stdout, os.Stderr, LogfmtFormatter())

// Default returns the process-wide logger.
func Default() Logger {
	return defaultL
}

func (l *logger) SetLevel(lvl Level) Level {
	return Level(atomic.SwapInt32((*int32)(&l.lvl), int32(lvl)))
}

func (l *logger) Level() Level {
	return Level(atomic.LoadInt32((*int32)(&l.lvl)))
}

func (l *logger) SetHandler(h Handler) {
	l.mu.Lock()
	l.hnd = h
	l.mu.Unlock()
}

func (l *logger) Handler() Handler {
	l.mu.Lock()
	h := l.hnd
	l.mu.Unlock()
	return h
}

func (l *logger) L(lvl Level) bool {
	return l.Level() >= lvl
}

func (l *logger) Context(ctx ...interface{}) Logger {
	if len(l.ctx) != 0 {
		ctx = append(l.ctx, ctx...)
	}
	return &logger{
		ctx: ctx,
		hnd: l.Handler(),
		lvl: l.Level(),
	}
}

func (l *logger) Logf(calldepth int, lvl Level, format string, args ...interface{}) {
	if !l.L(lvl) {
		return
	}
	e := &Entry{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  fmt.Sprintf(format, args...),
		Ctx:  l.ctx,
	}
	if calldepth > 0 {
		if _, file, line, ok := runtime.Caller(calldepth); ok {
			short := file
			for i := len(file) - 1; i > 0; i-- {
				if file[i] == '/' {
					short = file[i+1:]
					break
				}
			}
			e.Src = short + ":" + strconv.Itoa(line)
		}
	}
	l.Handler().Log(e)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.Logf(2, CRIT, format, args...)
	os.Exit(1)
}

func (l *logger) Criticalf(format string, args ...interface{}) {
	l.Logf(2, CRIT, format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.Logf(2, ERR, format, args...)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	l.Logf(2, WARN, format, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.Logf(2, INFO, format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.Logf(2, DEBUG, format, args...)
}

// Package level helpers that log through the default logger.

// Fatalf logs at CRIT through the default logger and exits the process.
func Fatalf(format string, args ...interface{}) {
	defaultL.Logf(2, CRIT, format, args...)
	os.Exit(1)
}

// Criticalf logs at CRIT through the default logger.
func Criticalf(format string, args ...interface{}) {
	defaultL.Logf(2, CRIT, format, args...)
}

// Errorf logs at ERR through the default logger.
func Errorf(format string, args ...interface{}) {
	defaultL.Logf(2, ERR, format, args...)
}

// Warningf logs at WARN through the default logger.
func Warningf(format string, args ...interface{}) {
	defaultL.Logf(2, WARN, format, args...)
}

// Infof logs at INFO through the default logger.
func Infof(format string, args ...interface{}) {
	defaultL.Logf(2, INFO, format, args...)
}

// Debugf logs at DEBUG through the default logger.
func Debugf(format string, args ...interface{}) {
	defaultL.Logf(2, DEBUG, format, args...)
}
