package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeWAVHeaderMatchesFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := Format{SampleRate: DefaultSampleRate, Channels: 1, BitDepth: 16}
	if err := EncodeWAV(f, make([]byte, 4800), format); err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	f.Close()

	info, err := InspectWAV(path)
	if err != nil {
		t.Fatalf("InspectWAV: %v", err)
	}
	if info.Format != format {
		t.Errorf("format = %v, want %v", info.Format, format)
	}
	if info.PCMSize != 4800 {
		t.Errorf("PCMSize = %d, want 4800", info.PCMSize)
	}
}

func TestEncodeWAVRejectsUnsupportedDepth(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := EncodeWAV(f, make([]byte, 8), Format{SampleRate: 8000, Channels: 1, BitDepth: 24}); err == nil {
		t.Fatal("expected error for 24-bit format")
	}
}

func TestInspectWAVRejectsNonWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "speech.mp3")
	if err := os.WriteFile(path, []byte("ID3 definitely not a wav file"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := InspectWAV(path); err == nil {
		t.Fatal("expected error for non-wav input")
	}
}

func TestInspectWAVMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := InspectWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
