package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	file    *os.File
	logger  *slog.Logger
	mu      sync.Mutex
	enabled bool
)

// Path returns ~/.config/go-programmer/debug.log
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-programmer", "debug.log"), nil
}

// Enable starts debug logging to ~/.config/go-programmer/debug.log
func Enable() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return EnableFile(path)
}

// EnableFile starts debug logging to path, truncating it
func EnableFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enableWriter(f)
	logger.Info("=== Debug logging started ===", "category", "debug")
	return nil
}

// EnableWriter logs to w instead of a file (tests, stderr)
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enableWriter(w)
}

func enableWriter(w io.Writer) {
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	enabled = true
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
	enabled = false
	counters = make(map[string]int)
}

// Enabled reports whether Log writes anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes msg with key/value args under a category
func Log(category, msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}

	logger.Debug(msg, append([]any{"category", category}, args...)...)
	if file != nil {
		file.Sync() // flush immediately so we see logs even on crash
	}
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, msg string, args ...any) {
	mu.Lock()
	key := category + msg
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, fmt.Sprintf("%s (every %d)", msg, n), append(args, "count", count)...)
	}
}
