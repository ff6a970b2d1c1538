package application

import (
	"context"

	"meeting-scribe/internal/domain"
)

// Transcriber converts a recorded artifact to text using the given model
// tier. Silence-only audio yields an empty transcript, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, artifact domain.AudioArtifact, tier domain.ModelTier) (domain.Transcript, error)
}
