// Package assemblyai is the transcription provider adapter. It submits a
// local audio file for multichannel transcription and blocks until the
// provider reports a finished transcript, polling on the caller's behalf.
package assemblyai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/httpx"
	"github.com/skillsenselab/meetscribe/internal/logging"
	"github.com/skillsenselab/meetscribe/internal/transcript"
)

// ProviderName identifies this transcription backend.
const ProviderName = "assemblyai"

const (
	defaultBaseURL      = "https://api.assemblyai.com"
	defaultTimeout      = 5 * time.Minute
	defaultPollInterval = 3 * time.Second
)

const (
	statusCompleted = "completed"
	statusError     = "error"
)

// Config configures the AssemblyAI provider.
type Config struct {
	// APIKey authenticates every request.
	APIKey string `mapstructure:"api_key" validate:"required"`
	// BaseURL overrides the API base URL. Intended for tests.
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each individual HTTP call (the upload is the largest).
	Timeout time.Duration `mapstructure:"timeout"`
	// PollInterval is the delay between transcript status polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaultPollInterval
	}
}

// Provider implements multichannel transcription against AssemblyAI.
type Provider struct {
	cfg    Config
	client *httpx.Client
	log    *logging.Logger
}

// NewProvider creates an AssemblyAI provider.
func NewProvider(cfg Config, log *logging.Logger) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		cfg: cfg,
		client: httpx.New(httpx.Config{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Auth:    httpx.APIKeyAuth(cfg.APIKey, "Authorization"),
		}),
		log: log.WithComponent(ProviderName),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks whether the API accepts the configured key.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.Do(ctx, httpx.Request{
		Method: http.MethodGet,
		Path:   "/v2/transcript",
		Query:  map[string]string{"limit": "1"},
	})
	return err == nil && resp.IsSuccess()
}

// Transcribe uploads the audio file, submits it with multichannel enabled,
// and polls until the provider finishes. The overall wait is bounded by ctx;
// the transcription itself runs asynchronously on the provider's side.
func (p *Provider) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	audioURL, err := p.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	id, err := p.submit(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	p.log.Info("transcription submitted", map[string]any{"id": id})

	final, err := p.waitForCompletion(ctx, id)
	if err != nil {
		return nil, err
	}

	return toTranscript(final), nil
}

// upload streams the local file to the provider's upload endpoint.
func (p *Provider) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", apperr.TranscriptionFailed(fmt.Sprintf("open audio file %s", audioPath), err)
	}
	defer func() { _ = f.Close() }()

	p.log.Info("uploading audio", map[string]any{"file": filepath.Base(audioPath)})
	resp, err := httpx.Post[uploadResponse](p.client, ctx, "/v2/upload", httpx.WithBody(f))
	if err != nil {
		return "", apperr.TranscriptionFailed("audio upload failed", err)
	}
	if resp.Data.UploadURL == "" {
		return "", apperr.TranscriptionFailed("upload endpoint returned no upload_url", nil)
	}
	return resp.Data.UploadURL, nil
}

// submit creates the multichannel transcription job.
func (p *Provider) submit(ctx context.Context, audioURL string) (string, error) {
	resp, err := httpx.Post[transcriptResponse](p.client, ctx, "/v2/transcript",
		httpx.WithBody(transcriptRequest{AudioURL: audioURL, Multichannel: true}))
	if err != nil {
		return "", apperr.TranscriptionFailed("transcription submission failed", err)
	}
	if resp.Data.ID == "" {
		return "", apperr.TranscriptionFailed("submission returned no transcript id", nil)
	}
	if resp.Data.Status == statusError {
		return "", apperr.TranscriptionFailed(resp.Data.Error, nil)
	}
	return resp.Data.ID, nil
}

// waitForCompletion polls the transcript until it completes or errors.
func (p *Provider) waitForCompletion(ctx context.Context, id string) (*transcriptResponse, error) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		resp, err := httpx.Get[transcriptResponse](p.client, ctx, "/v2/transcript/"+id)
		if err != nil {
			return nil, apperr.TranscriptionFailed("transcript status poll failed", err)
		}

		switch resp.Data.Status {
		case statusCompleted:
			return &resp.Data, nil
		case statusError:
			return nil, apperr.TranscriptionFailed(resp.Data.Error, nil).WithDetail("transcript_id", id)
		}

		p.log.Debug("transcript pending", map[string]any{"id": id, "status": resp.Data.Status})
		select {
		case <-ctx.Done():
			return nil, apperr.TranscriptionFailed("transcription wait canceled", ctx.Err())
		case <-ticker.C:
		}
	}
}

// toTranscript maps the provider payload to the domain transcript.
func toTranscript(resp *transcriptResponse) *transcript.Transcript {
	utterances := make([]transcript.Utterance, len(resp.Utterances))
	for i, u := range resp.Utterances {
		utterances[i] = transcript.Utterance{
			Channel:    u.Channel.String(),
			StartMS:    u.Start,
			EndMS:      u.End,
			Text:       u.Text,
			Confidence: u.Confidence,
		}
	}
	return &transcript.Transcript{
		ID:            resp.ID,
		AudioChannels: resp.AudioChannels,
		Utterances:    utterances,
	}
}
