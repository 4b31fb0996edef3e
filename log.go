package spimemory

import (
	"log/slog"
	"os"
	"sync"
)

// Component identifies the driver part a log record comes from.
type Component string

const (
	ComponentIdentity  Component = "identity"
	ComponentStatus    Component = "status"
	ComponentSequencer Component = "sequencer"
)

var (
	logLevel = new(slog.LevelVar)

	logMutex      sync.RWMutex
	builtinLogger *slog.Logger
	defaultLogger *slog.Logger
)

func init() {
	logLevel.Set(slog.LevelWarn)
	builtinLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	defaultLogger = builtinLogger
}

// DefaultLogger returns the logger used by a Flash configured without one.
func DefaultLogger() *slog.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return defaultLogger
}

// SetLogger replaces the default logger. Flashes created earlier keep theirs.
// A nil logger restores the built-in stderr logger.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logger == nil {
		logger = builtinLogger
	}
	defaultLogger = logger
}

// SetLogLevel sets the minimum level of the built-in default logger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

func (f *Flash) logDebug(c Component, msg string, args ...any) {
	f.log.Debug(msg, append([]any{"component", string(c)}, args...)...)
}

func (f *Flash) logWarn(c Component, msg string, args ...any) {
	f.log.Warn(msg, append([]any{"component", string(c)}, args...)...)
}
