package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// CaptureConfig describes the microphone stream to open.
type CaptureConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string // ffmpeg input format: pulse, alsa, avfoundation, dshow
	InputDevice string
}

// Format returns the PCM format the capture produces.
func (c CaptureConfig) Format() Format {
	return Format{SampleRate: c.SampleRate, Channels: c.Channels, BitDepth: 16}
}

// Capture opens a microphone stream.
type Capture interface {
	Start(ctx context.Context, cfg CaptureConfig) (CaptureSession, error)
}

// CaptureSession streams signed 16-bit little-endian PCM until stopped.
type CaptureSession interface {
	io.ReadCloser
	Stop() error
}

// FFMPEGCapture streams microphone PCM audio using ffmpeg.
type FFMPEGCapture struct {
	command string
}

// NewFFMPEGCapture returns a capture that runs command ("ffmpeg" when empty).
func NewFFMPEGCapture(command string) *FFMPEGCapture {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGCapture{command: command}
}

// DefaultInput returns the ffmpeg input format and device for this platform.
func DefaultInput() (format, device string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", ":0"
	case "windows":
		return "dshow", "audio=default"
	default:
		return "pulse", "default"
	}
}

func (c *FFMPEGCapture) Start(ctx context.Context, cfg CaptureConfig) (CaptureSession, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" || cfg.InputDevice == "" {
		format, device := DefaultInput()
		if cfg.InputFormat == "" {
			cfg.InputFormat = format
		}
		if cfg.InputDevice == "" {
			cfg.InputDevice = device
		}
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	pr, pw := io.Pipe()
	session := &ffmpegSession{
		stdout:  stdout,
		pcm:     pr,
		stderr:  &stderr,
		process: cmd.Process,
	}
	waitErr := make(chan error, 1)
	session.waitErr = waitErr

	// Wait closes stdout, so it only runs once the pipe has been read to EOF.
	go func() {
		_, copyErr := io.Copy(pw, stdout)
		if errors.Is(copyErr, os.ErrClosed) && session.forced.Load() {
			copyErr = nil
		}
		pw.CloseWithError(copyErr)
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// A device that cannot be opened makes ffmpeg exit almost immediately.
	select {
	case err := <-waitErr:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimOutput(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(250 * time.Millisecond):
	}

	return session, nil
}

type ffmpegSession struct {
	stdout io.ReadCloser
	pcm    *io.PipeReader
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error
	forced  atomic.Bool

	stopOnce sync.Once
	stopErr  error
}

func (s *ffmpegSession) Read(p []byte) (int, error) {
	return s.pcm.Read(p)
}

// Close stops ffmpeg and discards any output not read yet.
func (s *ffmpegSession) Close() error {
	s.pcm.Close()
	return s.Stop()
}

// Stop asks ffmpeg to finish (SIGINT flushes its output) and waits until
// it has exited. The caller must keep reading until EOF, or Stop blocks on
// the unread output. ffmpeg is killed if it has not exited within the
// grace period.
func (s *ffmpegSession) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.terminate()
		if s.stopErr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimOutput(s.stderr.String()))
		}
	})
	return s.stopErr
}

const stopGrace = 1200 * time.Millisecond

// terminate interrupts the process and waits for it on waitErr,
// escalating to Kill after stopGrace. A child that keeps stdout open after
// the kill gets its pipe closed after another grace period.
func (s *ffmpegSession) terminate() error {
	if s.process != nil {
		_ = s.process.Signal(os.Interrupt)
	}

	select {
	case err, ok := <-s.waitErr:
		if ok {
			return normalizeStopErr(err)
		}
		return nil
	case <-time.After(stopGrace):
	}

	if s.process != nil {
		_ = s.process.Kill()
	}
	select {
	case err, ok := <-s.waitErr:
		if ok {
			return normalizeStopErr(err)
		}
		return nil
	case <-time.After(stopGrace):
	}

	s.forced.Store(true)
	_ = s.stdout.Close()
	if err, ok := <-s.waitErr; ok {
		return normalizeStopErr(err)
	}
	return nil
}

// normalizeStopErr drops the exit status of a process we stopped ourselves.
func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimOutput(s string) string {
	return string(bytes.TrimSpace([]byte(s)))
}
