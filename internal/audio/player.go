package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrPlaybackStopped is returned by Play when StopPlayback ended it early.
var ErrPlaybackStopped = errors.New("playback stopped")

// DefaultPlayerCommand returns the platform audio player invocation. The
// file path is appended as the last argument.
func DefaultPlayerCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "afplay"
	default:
		return "ffplay -nodisp -autoexit -loglevel error"
	}
}

// ExecPlayer plays audio files through an external player process.
type ExecPlayer struct {
	argv []string

	mu      sync.Mutex
	current *playback
}

type playback struct {
	cmd     *exec.Cmd
	exited  chan struct{}
	err     error
	stopped bool
}

// NewExecPlayer returns a player running command (split on whitespace).
// An empty command selects DefaultPlayerCommand.
func NewExecPlayer(command string) *ExecPlayer {
	if strings.TrimSpace(command) == "" {
		command = DefaultPlayerCommand()
	}
	return &ExecPlayer{argv: strings.Fields(command)}
}

// Play runs the player on path and blocks until it exits, ctx is done, or
// Stop is called.
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string(nil), p.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, p.argv[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.argv[0], err)
	}

	pb := &playback{cmd: cmd, exited: make(chan struct{})}
	go func() {
		pb.err = cmd.Wait()
		close(pb.exited)
	}()

	p.mu.Lock()
	p.current = pb
	p.mu.Unlock()

	<-pb.exited
	err := pb.err

	p.mu.Lock()
	stopped := pb.stopped
	if p.current == pb {
		p.current = nil
	}
	p.mu.Unlock()

	switch {
	case stopped:
		return ErrPlaybackStopped
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return fmt.Errorf("%s: %w: %s", p.argv[0], err, trimOutput(stderr.String()))
	}
	return nil
}

// Stop terminates the running player, if any. Safe to call at any time.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	pb := p.current
	if pb != nil {
		pb.stopped = true
	}
	p.mu.Unlock()

	if pb == nil {
		return
	}
	_ = pb.cmd.Process.Signal(os.Interrupt)
	go func() {
		select {
		case <-pb.exited:
		case <-time.After(stopGrace):
			_ = pb.cmd.Process.Kill()
		}
	}()
}
