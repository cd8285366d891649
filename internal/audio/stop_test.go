package audio

import (
	"os"
	"testing"
	"time"
)

func TestStopSignalRaiseIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStopSignal()
	if s.Raised() {
		t.Fatal("new signal should not be raised")
	}
	s.Raise()
	s.Raise()
	if !s.Raised() {
		t.Fatal("signal should be raised")
	}
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel not closed")
	}
}

func TestScratchCloseRemovesDir(t *testing.T) {
	t.Parallel()

	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch: %v", err)
	}
	if err := os.WriteFile(s.Path("speech.mp3"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(s.Dir()); !os.IsNotExist(err) {
		t.Fatalf("scratch dir still present: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestExecPlayerPlayAndStop(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "player.sh", "#!/usr/bin/env bash\nexec sleep 5\n")
	p := NewExecPlayer(script)

	done := make(chan error, 1)
	go func() { done <- p.Play(t.Context(), "speech.mp3") }()

	time.Sleep(100 * time.Millisecond)
	p.Stop()

	select {
	case err := <-done:
		if err != ErrPlaybackStopped {
			t.Fatalf("expected ErrPlaybackStopped, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Play did not return after Stop")
	}
}

func TestExecPlayerPlayCompletes(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "player.sh", "#!/usr/bin/env bash\ntest -n \"$1\"\n")
	p := NewExecPlayer(script)
	if err := p.Play(t.Context(), "speech.mp3"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	// nothing playing
	p.Stop()
}
