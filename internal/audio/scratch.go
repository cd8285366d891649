package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Scratch is a private temporary directory for one drill session's audio.
type Scratch struct {
	dir       string
	closeOnce sync.Once
	closeErr  error
}

// NewScratch creates a fresh directory under the system temp dir.
func NewScratch() (*Scratch, error) {
	dir, err := os.MkdirTemp("", "quizvox-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("create audio scratch dir: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the directory path.
func (s *Scratch) Dir() string { return s.dir }

// Path returns name joined onto the scratch directory.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Close removes the directory and everything in it. Safe to call repeatedly.
func (s *Scratch) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = os.RemoveAll(s.dir)
	})
	return s.closeErr
}
