// Package config resolves quizvox runtime settings from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for a drill.
type Config struct {
	Speech  SpeechConfig
	Audio   AudioConfig
	Drill   DrillConfig
	DBPath  string
	LogFile string
}

type SpeechConfig struct {
	TTSProvider string // "openai" or "polly"
	STTProvider string // "openai" or "deepgram"

	OpenAIAPIKey  string
	OpenAIBaseURL string
	Voice         string
	Speed         float64

	PollyVoice  string
	PollyRegion string

	Deepgram DeepgramConfig

	// Timeout bounds each synthesis or transcription request.
	Timeout time.Duration
}

type DeepgramConfig struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	SmartFormat bool
}

type AudioConfig struct {
	FFMPEGCommand string
	InputFormat   string
	InputDevice   string
	SampleRate    int
	Channels      int
	MaxRecord     time.Duration
	PlayerCommand string
}

type DrillConfig struct {
	MaxAttempts int
	Language    string // "en" or "de"
}

// LoadDotEnv reads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load resolves configuration from environment variables and sensible
// defaults.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Speech: SpeechConfig{
			TTSProvider: strings.ToLower(envOrDefault("QUIZVOX_TTS_PROVIDER", "openai")),
			STTProvider: strings.ToLower(envOrDefault("QUIZVOX_STT_PROVIDER", "openai")),
			OpenAIAPIKey: firstNonEmpty(
				os.Getenv("QUIZVOX_OPENAI_API_KEY"),
				os.Getenv("OPENAI_API_KEY"),
			),
			OpenAIBaseURL: strings.TrimSpace(os.Getenv("QUIZVOX_OPENAI_BASE_URL")),
			Voice:         envOrDefault("QUIZVOX_TTS_VOICE", "nova"),
			Speed:         envOrDefaultFloat("QUIZVOX_TTS_SPEED", 1.1),
			PollyVoice:    strings.TrimSpace(os.Getenv("QUIZVOX_POLLY_VOICE")),
			PollyRegion:   strings.TrimSpace(os.Getenv("QUIZVOX_POLLY_REGION")),
			Deepgram: DeepgramConfig{
				APIKey: firstNonEmpty(
					os.Getenv("QUIZVOX_DEEPGRAM_API_KEY"),
					os.Getenv("DEEPGRAM_API_KEY"),
				),
				APIBaseURL:  envOrDefault("QUIZVOX_DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
				Model:       envOrDefault("QUIZVOX_DEEPGRAM_MODEL", "nova-2"),
				SmartFormat: envOrDefaultBool("QUIZVOX_DEEPGRAM_SMART_FORMAT", true),
			},
			Timeout: time.Duration(envOrDefaultInt("QUIZVOX_SPEECH_TIMEOUT", 30)) * time.Second,
		},
		Audio: AudioConfig{
			FFMPEGCommand: envOrDefault("QUIZVOX_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:   strings.TrimSpace(os.Getenv("QUIZVOX_AUDIO_INPUT_FORMAT")),
			InputDevice:   strings.TrimSpace(os.Getenv("QUIZVOX_AUDIO_INPUT_DEVICE")),
			SampleRate:    envOrDefaultInt("QUIZVOX_SAMPLE_RATE", 48000),
			Channels:      1,
			MaxRecord:     time.Duration(envOrDefaultInt("QUIZVOX_MAX_RECORD_SECONDS", 60)) * time.Second,
			PlayerCommand: strings.TrimSpace(os.Getenv("QUIZVOX_PLAYER_COMMAND")),
		},
		Drill: DrillConfig{
			MaxAttempts: envOrDefaultInt("QUIZVOX_MAX_ATTEMPTS", 3),
			Language:    strings.ToLower(envOrDefault("QUIZVOX_LANGUAGE", "en")),
		},
		DBPath:  strings.TrimSpace(os.Getenv("QUIZVOX_DB")),
		LogFile: strings.TrimSpace(os.Getenv("QUIZVOX_LOG_FILE")),
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 48000
	}
	if cfg.Audio.MaxRecord <= 0 {
		cfg.Audio.MaxRecord = 60 * time.Second
	}
	if cfg.Drill.MaxAttempts <= 0 {
		cfg.Drill.MaxAttempts = 3
	}
	if cfg.Speech.Speed <= 0 {
		cfg.Speech.Speed = 1.1
	}
	if cfg.Speech.Timeout <= 0 {
		cfg.Speech.Timeout = 30 * time.Second
	}

	return cfg, cfg.Validate()
}

// Validate checks the provider and language selections.
func (c Config) Validate() error {
	switch c.Speech.TTSProvider {
	case "openai", "polly":
	default:
		return fmt.Errorf("unknown QUIZVOX_TTS_PROVIDER %q (want openai or polly)", c.Speech.TTSProvider)
	}
	switch c.Speech.STTProvider {
	case "openai", "deepgram":
	default:
		return fmt.Errorf("unknown QUIZVOX_STT_PROVIDER %q (want openai or deepgram)", c.Speech.STTProvider)
	}
	switch c.Drill.Language {
	case "en", "de":
	default:
		return fmt.Errorf("unsupported QUIZVOX_LANGUAGE %q (want en or de)", c.Drill.Language)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
