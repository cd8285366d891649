package speech

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/abhisek/quizvox/internal/audio"
)

// DefaultMaxRecord bounds a single spoken answer.
const DefaultMaxRecord = 60 * time.Second

// STTBackend converts a WAV recording into text.
type STTBackend interface {
	Transcribe(ctx context.Context, rec audio.Recording) (string, error)
}

// Transcriber records answers from the microphone and transcribes them.
type Transcriber struct {
	recorder  *audio.Recorder
	backend   STTBackend
	scratch   *audio.Scratch
	maxRecord time.Duration
	logger    *log.Logger
}

// NewTranscriber returns a Transcriber recording into scratch for at most
// maxRecord per answer (DefaultMaxRecord when zero).
func NewTranscriber(recorder *audio.Recorder, backend STTBackend, scratch *audio.Scratch, maxRecord time.Duration, logger *log.Logger) *Transcriber {
	if maxRecord <= 0 {
		maxRecord = DefaultMaxRecord
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Transcriber{
		recorder:  recorder,
		backend:   backend,
		scratch:   scratch,
		maxRecord: maxRecord,
		logger:    logger,
	}
}

// Record captures an answer until stop is raised or the maximum duration
// elapses.
func (t *Transcriber) Record(ctx context.Context, stop *audio.StopSignal) (audio.Recording, error) {
	rec, err := t.recorder.Record(ctx, stop, t.maxRecord, t.scratch.Path("recorded.wav"))
	if err != nil {
		if ctx.Err() != nil {
			return audio.Recording{}, ctx.Err()
		}
		return audio.Recording{}, &TranscriptionError{Op: "record", Err: err}
	}
	t.logger.Printf("recorded %d bytes (%s) in %s", rec.PCMBytes, rec.Format, rec.Duration.Round(time.Millisecond))
	return rec, nil
}

// Validate checks that the WAV file on disk matches the format it was
// recorded in.
func (t *Transcriber) Validate(rec audio.Recording) error {
	info, err := audio.InspectWAV(rec.Path)
	if err != nil {
		return &ValidationError{Path: rec.Path, Expected: t.recorder.Format(), Err: err}
	}
	want := t.recorder.Format()
	if info.Format != want {
		return &ValidationError{Path: rec.Path, Expected: want, Got: info.Format}
	}
	return nil
}

// Transcribe returns the text spoken in rec. An empty recording yields ""
// without contacting the backend.
func (t *Transcriber) Transcribe(ctx context.Context, rec audio.Recording) (string, error) {
	if rec.Empty() {
		return "", nil
	}
	text, err := t.backend.Transcribe(ctx, rec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &TranscriptionError{Op: "transcribe", Err: err}
	}
	return strings.TrimSpace(text), nil
}
