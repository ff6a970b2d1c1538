package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"meeting-scribe/internal/domain"
)

// Transcriber sends audio to the hosted Whisper API. The hosted service
// exposes a single model, so the requested tier is recorded on the
// transcript but does not change the call.
type Transcriber struct {
	client   *openai.Client
	language string
}

func NewTranscriber(apiKey, language string) (*Transcriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai engine selected but no API key configured", domain.ErrModelLoad)
	}
	return &Transcriber{
		client:   openai.NewClient(apiKey),
		language: language,
	}, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, artifact domain.AudioArtifact, tier domain.ModelTier) (domain.Transcript, error) {
	if _, err := domain.ParseTier(string(tier)); err != nil {
		return domain.Transcript{}, fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: artifact.Path,
		Language: t.language,
	})
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("whisper API transcription: %w", err)
	}

	return domain.Transcript{
		Text: strings.TrimSpace(resp.Text),
		Tier: tier,
	}, nil
}
