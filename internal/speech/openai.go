package speech

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/quizvox/internal/audio"
)

// OpenAIConfig configures the OpenAI speech and transcription backends.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string

	Voice string  // TTS voice, default "nova"
	Speed float64 // TTS speed, default 1.1

	// Language is the ISO-639-1 hint passed to Whisper, e.g. "en" or "de".
	Language string

	// Timeout bounds one request, DefaultRequestTimeout when zero.
	Timeout time.Duration
}

// DefaultRequestTimeout bounds a single synthesis or transcription call.
const DefaultRequestTimeout = 30 * time.Second

// withTimeout derives a context bounded by d, or DefaultRequestTimeout.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	return context.WithTimeout(ctx, d)
}

func newOpenAIClient(cfg OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(config), nil
}

// OpenAITTS synthesizes speech with the OpenAI audio API.
type OpenAITTS struct {
	client  *openai.Client
	voice   openai.SpeechVoice
	speed   float64
	timeout time.Duration
}

// NewOpenAITTS creates a TTS backend using model tts-1.
func NewOpenAITTS(cfg OpenAIConfig) (*OpenAITTS, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	voice := openai.SpeechVoice(cfg.Voice)
	if voice == "" {
		voice = openai.VoiceNova
	}
	speed := cfg.Speed
	if speed <= 0 {
		speed = 1.1
	}
	return &OpenAITTS{client: client, voice: voice, speed: speed, timeout: cfg.Timeout}, nil
}

func (t *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          t.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          t.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai speech: %w", err)
	}
	return data, nil
}

func (t *OpenAITTS) Ext() string { return ".mp3" }

// WhisperSTT transcribes recordings with OpenAI whisper-1.
type WhisperSTT struct {
	client   *openai.Client
	language string
	timeout  time.Duration
}

// NewWhisperSTT creates a Whisper transcription backend.
func NewWhisperSTT(cfg OpenAIConfig) (*WhisperSTT, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &WhisperSTT{client: client, language: cfg.Language, timeout: cfg.Timeout}, nil
}

func (w *WhisperSTT) Transcribe(ctx context.Context, rec audio.Recording) (string, error) {
	ctx, cancel := withTimeout(ctx, w.timeout)
	defer cancel()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: rec.Path,
		Language: w.language,
	})
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	return resp.Text, nil
}
