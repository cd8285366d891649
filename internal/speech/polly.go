package speech

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

// PollyConfig configures the Amazon Polly backend. Credentials come from the
// default AWS chain (environment, shared config, instance role).
type PollyConfig struct {
	Region  string
	Voice   string        // default "Joanna"
	Timeout time.Duration // default DefaultRequestTimeout
}

type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, in *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyTTS synthesizes speech with Amazon Polly's neural engine.
type PollyTTS struct {
	client  pollyAPI
	voice   types.VoiceId
	timeout time.Duration
}

// NewPollyTTS loads AWS configuration and creates a Polly backend.
func NewPollyTTS(ctx context.Context, cfg PollyConfig) (*PollyTTS, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newPollyTTS(polly.NewFromConfig(awsCfg), cfg.Voice, cfg.Timeout), nil
}

func newPollyTTS(client pollyAPI, voice string, timeout time.Duration) *PollyTTS {
	if voice == "" {
		voice = string(types.VoiceIdJoanna)
	}
	return &PollyTTS{client: client, voice: types.VoiceId(voice), timeout: timeout}
}

func (p *PollyTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: types.OutputFormatMp3,
		VoiceId:      p.voice,
		Engine:       types.EngineNeural,
	})
	if err != nil {
		return nil, fmt.Errorf("polly: %w", err)
	}
	defer out.AudioStream.Close()

	data, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("read polly audio: %w", err)
	}
	return data, nil
}

func (p *PollyTTS) Ext() string { return ".mp3" }
