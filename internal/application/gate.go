package application

import (
	"context"

	"meeting-scribe/internal/domain"
)

// Gate is the human confirmation surface. ConfirmPublish guards the only
// pipeline step with external visibility and is consulted before every
// publish attempt.
type Gate interface {
	ConfirmTranscription(ctx context.Context, artifact domain.AudioArtifact) (bool, error)
	ConfirmPublish(ctx context.Context, result domain.AnalysisResult) (bool, error)
}

// AutoGate answers the confirmation prompts without user interaction, for
// non-interactive runs (watch mode). Transcription is always approved;
// publishing only when the operator explicitly opted in.
type AutoGate struct {
	PublishApproved bool
}

func (g *AutoGate) ConfirmTranscription(_ context.Context, _ domain.AudioArtifact) (bool, error) {
	return true, nil
}

func (g *AutoGate) ConfirmPublish(_ context.Context, _ domain.AnalysisResult) (bool, error) {
	return g.PublishApproved, nil
}

// Presenter receives each stage's output as soon as it is available, so
// partial results reach the user even when a later stage fails.
type Presenter interface {
	ShowTranscript(t domain.Transcript)
	ShowAnalysis(r domain.AnalysisResult)
}

// NoopPresenter discards stage output.
type NoopPresenter struct{}

func (NoopPresenter) ShowTranscript(_ domain.Transcript)   {}
func (NoopPresenter) ShowAnalysis(_ domain.AnalysisResult) {}
