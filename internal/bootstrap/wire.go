// Package bootstrap assembles the runtime graph from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/abhisek/quizvox/internal/audio"
	"github.com/abhisek/quizvox/internal/cardgen"
	"github.com/abhisek/quizvox/internal/config"
	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/judge"
	"github.com/abhisek/quizvox/internal/llm"
	"github.com/abhisek/quizvox/internal/speech"
	"github.com/abhisek/quizvox/internal/store"
)

// Services is the long-lived part of the runtime: configuration, the
// database, and the log. Speech and LLM backends are created on demand so
// deck management works without API keys.
type Services struct {
	Config  config.Config
	Store   *store.Store
	Decks   *store.DeckRepo
	Phrases drill.Phrases
	Logger  *log.Logger

	logCloser io.Closer

	llmOnce sync.Once
	llm     llm.Provider
	llmErr  error
}

// Build loads configuration, opens the log and the database at dbPath
// (resolved from the environment when empty).
func Build(dbPath string) (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	phrases, err := drill.PhrasesFor(cfg.Drill.Language)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := config.OpenLog(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			logCloser.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	cfg.DBPath = dbPath
	logger.Printf("started with db=%s tts=%s stt=%s language=%s",
		dbPath, cfg.Speech.TTSProvider, cfg.Speech.STTProvider, phrases.Code)

	return &Services{
		Config:    cfg,
		Store:     st,
		Decks:     st.DeckRepo(),
		Phrases:   phrases,
		Logger:    logger,
		logCloser: logCloser,
	}, nil
}

// Close releases the database and the log file.
func (s *Services) Close() error {
	return errors.Join(s.Store.Close(), s.logCloser.Close())
}

// LLM returns the configured provider, building it on first use. Requests
// are recorded in the event log.
func (s *Services) LLM(ctx context.Context) (llm.Provider, error) {
	s.llmOnce.Do(func() {
		cfg, err := llm.Resolve()
		if err != nil {
			s.llmErr = fmt.Errorf("LLM provider not configured: %w", err)
			return
		}
		s.llm, s.llmErr = llm.NewProvider(ctx, cfg, s.Store.EventRepo(), s.Logger)
	})
	return s.llm, s.llmErr
}

// CardGenerator returns a flashcard generator writing in the configured
// language. count <= 0 keeps the default card count.
func (s *Services) CardGenerator(ctx context.Context, count int) (*cardgen.Generator, error) {
	provider, err := s.LLM(ctx)
	if err != nil {
		return nil, err
	}
	cfg := cardgen.DefaultConfig()
	cfg.Language = s.Phrases.Name
	if count > 0 {
		cfg.Count = count
	}
	return cardgen.New(provider, cfg), nil
}

// NewDrill wires a controller for cards. The controller owns a fresh
// scratch directory and removes it when the session closes. Call Start on
// the result to begin.
func (s *Services) NewDrill(ctx context.Context, cards []deck.Flashcard, observer drill.Observer) (*drill.Controller, error) {
	provider, err := s.LLM(ctx)
	if err != nil {
		return nil, err
	}
	tts, err := s.ttsBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech: %w", err)
	}
	stt, err := s.sttBackend()
	if err != nil {
		return nil, fmt.Errorf("speech-to-text: %w", err)
	}

	scratch, err := audio.NewScratch()
	if err != nil {
		return nil, err
	}

	a := s.Config.Audio
	format, device := audio.DefaultInput()
	if a.InputFormat != "" {
		format = a.InputFormat
	}
	if a.InputDevice != "" {
		device = a.InputDevice
	}
	recorder := audio.NewRecorder(audio.NewFFMPEGCapture(a.FFMPEGCommand), audio.CaptureConfig{
		SampleRate:  a.SampleRate,
		Channels:    a.Channels,
		InputFormat: format,
		InputDevice: device,
	})

	judgeCfg := judge.DefaultConfig()
	judgeCfg.Language = s.Phrases.Name

	return drill.New(cards, drill.Deps{
		Speaker:  speech.NewSynthesizer(tts, audio.NewExecPlayer(a.PlayerCommand), scratch, s.Logger),
		Listener: speech.NewTranscriber(recorder, stt, scratch, a.MaxRecord, s.Logger),
		Judge:    judge.New(provider, judgeCfg),
		Observer: observer,
		Scratch:  scratch,
		Logger:   s.Logger,
	}, drill.Config{
		MaxAttempts: s.Config.Drill.MaxAttempts,
		MaxRecord:   a.MaxRecord,
		Phrases:     s.Phrases,
	}), nil
}

func (s *Services) ttsBackend(ctx context.Context) (speech.TTSBackend, error) {
	sc := s.Config.Speech
	switch sc.TTSProvider {
	case "polly":
		return speech.NewPollyTTS(ctx, speech.PollyConfig{Region: sc.PollyRegion, Voice: sc.PollyVoice, Timeout: sc.Timeout})
	case "openai":
		return speech.NewOpenAITTS(speech.OpenAIConfig{
			APIKey:  sc.OpenAIAPIKey,
			BaseURL: sc.OpenAIBaseURL,
			Voice:   sc.Voice,
			Speed:   sc.Speed,
			Timeout: sc.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", sc.TTSProvider)
	}
}

func (s *Services) sttBackend() (speech.STTBackend, error) {
	sc := s.Config.Speech
	switch sc.STTProvider {
	case "deepgram":
		if sc.Deepgram.APIKey == "" {
			return nil, errors.New("QUIZVOX_DEEPGRAM_API_KEY is required for the deepgram provider")
		}
		return speech.NewDeepgramSTT(speech.DeepgramConfig{
			APIKey:      sc.Deepgram.APIKey,
			APIBaseURL:  sc.Deepgram.APIBaseURL,
			Model:       sc.Deepgram.Model,
			Language:    s.Phrases.Code,
			SmartFormat: sc.Deepgram.SmartFormat,
			Timeout:     sc.Timeout,
			Logger:      s.Logger,
		}), nil
	case "openai":
		return speech.NewWhisperSTT(speech.OpenAIConfig{
			APIKey:   sc.OpenAIAPIKey,
			BaseURL:  sc.OpenAIBaseURL,
			Language: s.Phrases.Code,
			Timeout:  sc.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", sc.STTProvider)
	}
}
