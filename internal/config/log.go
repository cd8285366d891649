package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// DefaultLogPath returns $XDG_STATE_HOME/quizvox/quizvox.log, falling back
// to ~/.local/state/quizvox/quizvox.log.
func DefaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "quizvox", "quizvox.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "quizvox.log")
	}
	return filepath.Join(home, ".local", "state", "quizvox", "quizvox.log")
}

// OpenLog opens (appending) the log file at path, or DefaultLogPath when
// empty. The TUI owns the terminal, so diagnostics go to a file.
func OpenLog(path string) (*log.Logger, io.Closer, error) {
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "quizvox: ", log.LstdFlags|log.Lmsgprefix), f, nil
}
