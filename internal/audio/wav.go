package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultSampleRate is the capture rate used for speech.
const DefaultSampleRate = 48000

// Format describes linear PCM audio.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit", f.SampleRate, f.Channels, f.BitDepth)
}

// EncodeWAV writes s16le PCM as a WAV file. A trailing partial frame is
// dropped.
func EncodeWAV(w io.WriteSeeker, pcm []byte, f Format) error {
	if f.BitDepth != 16 {
		return fmt.Errorf("encode wav: unsupported bit depth %d", f.BitDepth)
	}
	if f.Channels <= 0 || f.SampleRate <= 0 {
		return fmt.Errorf("encode wav: invalid format %s", f)
	}
	frameBytes := 2 * f.Channels
	pcm = pcm[:len(pcm)-len(pcm)%frameBytes]

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	enc := wav.NewEncoder(w, f.SampleRate, f.BitDepth, f.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:           samples,
		SourceBitDepth: f.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// WAVInfo is what a WAV header says about its contents.
type WAVInfo struct {
	Format  Format
	PCMSize int
}

// InspectWAV reads the header and locates the data chunk of the WAV at path.
func InspectWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return WAVInfo{}, fmt.Errorf("read wav header: %w", err)
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return WAVInfo{}, fmt.Errorf("read wav header: not a PCM wav file")
	}
	if err := d.FwdToPCM(); err != nil {
		return WAVInfo{}, fmt.Errorf("locate wav data: %w", err)
	}

	return WAVInfo{
		Format: Format{
			SampleRate: int(d.SampleRate),
			Channels:   int(d.NumChans),
			BitDepth:   int(d.BitDepth),
		},
		PCMSize: d.PCMSize,
	}, nil
}
