package speech

import (
	"fmt"

	"github.com/abhisek/quizvox/internal/audio"
)

// SynthesisError reports a failed text-to-speech request or playback.
type SynthesisError struct {
	Op  string // "synthesize" or "play"
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech %s: %v", e.Op, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// TranscriptionError reports a failed recording or speech-to-text request.
type TranscriptionError struct {
	Op  string // "record" or "transcribe"
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("speech %s: %v", e.Op, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// ValidationError reports a recording whose WAV header does not match the
// format it was captured in.
type ValidationError struct {
	Path     string
	Expected audio.Format
	Got      audio.Format
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid recording %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid recording %s: got %s, want %s", e.Path, e.Got, e.Expected)
}

func (e *ValidationError) Unwrap() error { return e.Err }
