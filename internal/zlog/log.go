// Package zlog centralizes logging for the zlayout core on top of
// charmbracelet/log, keeping the teacher's emoji-prefixed, one-line-per-event
// texture while adding levels and structured fields.
package zlog

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	current = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "zlayout",
	})
)

// SetDefault installs l as the package-wide logger.
func SetDefault(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// Default returns the current package-wide logger.
func Default() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debug(msg string, kv ...any) { Default().Debug(msg, kv...) }
func Info(msg string, kv ...any)  { Default().Info(msg, kv...) }
func Warn(msg string, kv ...any)  { Default().Warn(msg, kv...) }
func Error(msg string, kv ...any) { Default().Error(msg, kv...) }
