package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/quizvox/internal/audio"
)

// DeepgramConfig controls the Deepgram live transcription backend.
type DeepgramConfig struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	Language    string
	SmartFormat bool

	// Timeout bounds one transcription, DefaultRequestTimeout when zero.
	Timeout time.Duration
	Logger  *log.Logger
}

// DeepgramSTT transcribes recordings by streaming them over Deepgram's
// live websocket API.
type DeepgramSTT struct {
	cfg    DeepgramConfig
	dialer *websocket.Dialer
}

const deepgramChunkSize = 8 << 10

func NewDeepgramSTT(cfg DeepgramConfig) *DeepgramSTT {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.deepgram.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &DeepgramSTT{cfg: cfg, dialer: websocket.DefaultDialer}
}

func (d *DeepgramSTT) Transcribe(ctx context.Context, rec audio.Recording) (string, error) {
	if strings.TrimSpace(d.cfg.APIKey) == "" {
		return "", errors.New("QUIZVOX_DEEPGRAM_API_KEY is not configured")
	}

	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}

	wsURL, err := buildListenURL(d.cfg)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.cfg.APIKey)

	conn, resp, err := d.dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("connect to Deepgram (status %d): %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("connect to Deepgram: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	writeErr := make(chan error, 1)
	go func() { writeErr <- streamRecording(conn, data) }()

	var parts []string
	for {
		_ = conn.SetReadDeadline(time.Now().Add(d.cfg.Timeout))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if isNormalClose(err) {
				break
			}
			return "", fmt.Errorf("read Deepgram result: %w", err)
		}

		var response deepgramResponse
		if err := json.Unmarshal(payload, &response); err != nil {
			d.cfg.Logger.Printf("deepgram: skipping unparseable frame (%v): %.120s", err, payload)
			continue
		}
		if strings.EqualFold(response.Type, "Error") {
			message := strings.TrimSpace(response.Message)
			if message == "" {
				message = "deepgram returned an unknown error"
			}
			return "", errors.New(message)
		}
		if !response.IsFinal {
			continue
		}
		if text := extractTranscript(response); text != "" {
			parts = append(parts, text)
		}
	}

	if err := <-writeErr; err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

// streamRecording sends the WAV file in chunks followed by CloseStream,
// which makes Deepgram flush its final results and close the socket.
func streamRecording(conn *websocket.Conn, data []byte) error {
	for len(data) > 0 {
		n := min(deepgramChunkSize, len(data))
		if err := conn.WriteMessage(websocket.BinaryMessage, data[:n]); err != nil {
			return fmt.Errorf("send audio: %w", err)
		}
		data = data[n:]
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return nil
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

type deepgramAlternative struct {
	Transcript string `json:"transcript"`
}

type deepgramResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	IsFinal bool   `json:"is_final"`

	Channel struct {
		Alternatives []deepgramAlternative `json:"alternatives"`
	} `json:"channel"`
}

func extractTranscript(response deepgramResponse) string {
	if len(response.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(response.Channel.Alternatives[0].Transcript)
}

// buildListenURL leaves encoding and sample rate unset; Deepgram reads
// them from the WAV header.
func buildListenURL(cfg DeepgramConfig) (string, error) {
	base := strings.TrimSpace(cfg.APIBaseURL)
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	listenURL, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid Deepgram API base URL: %w", err)
	}

	query := listenURL.Query()
	query.Set("model", cfg.Model)
	query.Set("punctuate", "true")
	query.Set("smart_format", fmt.Sprintf("%t", cfg.SmartFormat))
	if cfg.Language != "" {
		query.Set("language", cfg.Language)
	}
	listenURL.RawQuery = query.Encode()
	return listenURL.String(), nil
}
