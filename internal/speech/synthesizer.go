// Package speech turns text into spoken audio and recorded answers back
// into text.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/abhisek/quizvox/internal/audio"
)

// TTSBackend converts text into encoded audio.
type TTSBackend interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// Ext is the file extension of the produced audio, e.g. ".mp3".
	Ext() string
}

// Player plays an audio file and can be stopped from another goroutine.
type Player interface {
	Play(ctx context.Context, path string) error
	Stop()
}

// Synthesizer speaks text through a TTS backend and an audio player. Only
// one Speak runs at a time.
type Synthesizer struct {
	backend TTSBackend
	player  Player
	scratch *audio.Scratch
	logger  *log.Logger

	busy atomic.Bool
}

// NewSynthesizer returns a Synthesizer writing audio into scratch.
func NewSynthesizer(backend TTSBackend, player Player, scratch *audio.Scratch, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Synthesizer{
		backend: backend,
		player:  player,
		scratch: scratch,
		logger:  logger,
	}
}

// Speak synthesizes text and plays it, blocking until playback ends or
// StopPlayback is called. A call made while another Speak is running
// returns nil without doing anything.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Printf("speak skipped, synthesizer busy: %q", text)
		return nil
	}
	defer s.busy.Store(false)

	data, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.Play(ctx, data)
}

// Synthesize returns encoded audio for text.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	data, err := s.backend.Synthesize(ctx, text)
	if err != nil {
		return nil, &SynthesisError{Op: "synthesize", Err: err}
	}
	if len(data) == 0 {
		return nil, &SynthesisError{Op: "synthesize", Err: errors.New("backend returned no audio")}
	}
	return data, nil
}

// Play writes data to the scratch directory and plays it. Playback ended
// by StopPlayback is not an error.
func (s *Synthesizer) Play(ctx context.Context, data []byte) error {
	path := s.scratch.Path("speech" + s.backend.Ext())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &SynthesisError{Op: "play", Err: fmt.Errorf("write %s: %w", path, err)}
	}

	err := s.player.Play(ctx, path)
	switch {
	case err == nil, errors.Is(err, audio.ErrPlaybackStopped):
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return &SynthesisError{Op: "play", Err: err}
	}
}

// StopPlayback ends the current playback. Safe to call when nothing is
// playing.
func (s *Synthesizer) StopPlayback() {
	s.player.Stop()
}

// Busy reports whether a Speak call is in progress.
func (s *Synthesizer) Busy() bool {
	return s.busy.Load()
}
