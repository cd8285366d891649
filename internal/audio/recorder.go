package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultPollInterval is how often a recording checks its stop signal.
const DefaultPollInterval = 100 * time.Millisecond

// Recording is a captured answer stored as a WAV file.
type Recording struct {
	Path     string
	Format   Format
	PCMBytes int
	Duration time.Duration
}

// Empty reports whether no audio was captured.
func (r Recording) Empty() bool {
	return r.PCMBytes == 0
}

// Recorder captures microphone audio into WAV files.
type Recorder struct {
	capture Capture
	cfg     CaptureConfig
	poll    time.Duration
}

// NewRecorder returns a Recorder using capture with the given stream
// settings.
func NewRecorder(capture Capture, cfg CaptureConfig) *Recorder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &Recorder{capture: capture, cfg: cfg, poll: DefaultPollInterval}
}

// SetPollInterval overrides how often the stop signal is checked.
func (r *Recorder) SetPollInterval(d time.Duration) {
	if d > 0 {
		r.poll = d
	}
}

// Format returns the format recordings are made in.
func (r *Recorder) Format() Format {
	return r.cfg.Format()
}

// Record captures audio into path until stop is raised, maxDuration
// elapses, or the capture ends on its own. The stop signal is polled every
// poll interval. A cancelled ctx aborts the recording and returns ctx.Err().
func (r *Recorder) Record(ctx context.Context, stop *StopSignal, maxDuration time.Duration, path string) (Recording, error) {
	session, err := r.capture.Start(ctx, r.cfg)
	if err != nil {
		return Recording{}, fmt.Errorf("start capture: %w", err)
	}

	var pcm bytes.Buffer
	copyDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(&pcm, session)
		copyDone <- err
	}()

	start := time.Now()
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	deadline := time.NewTimer(maxDuration)
	defer deadline.Stop()

	var copyErr error
	copyFinished := false
loop:
	for {
		select {
		case <-ticker.C:
			if stop.Raised() {
				break loop
			}
		case <-deadline.C:
			break loop
		case <-ctx.Done():
			break loop
		case copyErr = <-copyDone:
			copyFinished = true
			break loop
		}
	}
	elapsed := time.Since(start)

	stopErr := session.Stop()
	if !copyFinished {
		copyErr = <-copyDone
	}

	if err := ctx.Err(); err != nil {
		return Recording{}, err
	}
	if copyErr != nil {
		return Recording{}, fmt.Errorf("read capture: %w", copyErr)
	}
	if stopErr != nil {
		return Recording{}, fmt.Errorf("stop capture: %w", stopErr)
	}

	format := r.cfg.Format()
	if err := writeWAVFile(path, pcm.Bytes(), format); err != nil {
		return Recording{}, err
	}

	frame := 2 * format.Channels
	return Recording{
		Path:     path,
		Format:   format,
		PCMBytes: pcm.Len() - pcm.Len()%frame,
		Duration: elapsed,
	}, nil
}

func writeWAVFile(path string, pcm []byte, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeWAV(f, pcm, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
