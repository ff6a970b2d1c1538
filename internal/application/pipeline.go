package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"meeting-scribe/internal/domain"
)

// Pipeline sequences recording, transcription, analysis and publishing. One
// run goes through the stages strictly in order; the only branch is skipping
// the publish step when there is no webhook address, no action items, or the
// operator declines.
type Pipeline struct {
	recorder    Recorder
	transcriber Transcriber
	analyzer    Analyzer
	publisher   Publisher
	gate        Gate
	presenter   Presenter
	logger      *slog.Logger
}

func NewPipeline(
	recorder Recorder,
	transcriber Transcriber,
	analyzer Analyzer,
	publisher Publisher,
	gate Gate,
	presenter Presenter,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		recorder:    recorder,
		transcriber: transcriber,
		analyzer:    analyzer,
		publisher:   publisher,
		gate:        gate,
		presenter:   presenter,
		logger:      logger,
	}
}

// RunOptions parameterizes one pipeline run. Supplying Artifact skips the
// recording stage. Tier and Model override the configured defaults; an empty
// WebhookURL disables publishing entirely.
type RunOptions struct {
	Artifact       *domain.AudioArtifact
	RecordDuration time.Duration
	Tier           domain.ModelTier
	Model          string
	WebhookURL     string
}

// Result accumulates stage outputs. Every field filled before a failure stays
// filled: a transcript is worth keeping even when analysis fails.
type Result struct {
	Stage       domain.Stage
	FailedStage domain.Stage
	Err         error
	Artifact    *domain.AudioArtifact
	Transcript  *domain.Transcript
	Analysis    *domain.AnalysisResult
	Published   bool
}

// Run executes one full cycle. The returned Result is always non-nil; the
// error, if any, is the same *domain.StageError stored in Result.Err.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	result := &Result{Stage: domain.StageIdle}

	artifact, err := p.acquireAudio(ctx, opts)
	if err != nil {
		return result, p.fail(result, domain.StageRecording, err)
	}
	result.Artifact = &artifact
	p.logger.Info("audio ready",
		"path", artifact.Path,
		"duration", artifact.Duration,
		"sample_rate", artifact.SampleRate,
	)

	ok, err := p.gate.ConfirmTranscription(ctx, artifact)
	if err != nil {
		return result, p.fail(result, domain.StageTranscribing, fmt.Errorf("transcription confirmation: %w", err))
	}
	if !ok {
		p.logger.Info("transcription declined, stopping")
		result.Stage = domain.StageDone
		return result, nil
	}

	result.Stage = domain.StageTranscribing
	transcript, err := p.transcriber.Transcribe(ctx, artifact, opts.Tier)
	if err != nil {
		return result, p.fail(result, domain.StageTranscribing, err)
	}
	result.Transcript = &transcript
	p.presenter.ShowTranscript(transcript)
	if transcript.Empty() {
		p.logger.Info("transcript is empty, nothing to analyze")
	}

	result.Stage = domain.StageAnalyzing
	summary, err := p.analyzer.Summarize(ctx, transcript, opts.Model)
	if err != nil {
		return result, p.fail(result, domain.StageAnalyzing, err)
	}
	items, err := p.analyzer.ActionItems(ctx, transcript, opts.Model)
	if err != nil {
		result.Analysis = &domain.AnalysisResult{Summary: summary}
		return result, p.fail(result, domain.StageAnalyzing, err)
	}
	analysis := domain.AnalysisResult{Summary: summary, ActionItems: items}
	result.Analysis = &analysis
	p.presenter.ShowAnalysis(analysis)

	switch {
	case opts.WebhookURL == "":
		p.logger.Info("no webhook address configured, skipping publish")
	case len(analysis.ActionItems) == 0:
		p.logger.Info("no action items extracted, nothing to publish")
	default:
		result.Stage = domain.StageAwaitingPublishDecision
		ok, err := p.gate.ConfirmPublish(ctx, analysis)
		if err != nil {
			return result, p.fail(result, domain.StageAwaitingPublishDecision, fmt.Errorf("publish confirmation: %w", err))
		}
		if !ok {
			p.logger.Info("publish declined")
			break
		}

		result.Stage = domain.StagePublishing
		title := publishTitle(artifact)
		if err := p.publisher.Publish(ctx, analysis, title, opts.WebhookURL); err != nil {
			return result, p.fail(result, domain.StagePublishing, err)
		}
		result.Published = true
		p.logger.Info("action items published", "items", len(analysis.ActionItems))
	}

	result.Stage = domain.StageDone
	return result, nil
}

func (p *Pipeline) acquireAudio(ctx context.Context, opts RunOptions) (domain.AudioArtifact, error) {
	if opts.Artifact != nil {
		p.logger.Info("using supplied audio artifact", "path", opts.Artifact.Path)
		return *opts.Artifact, nil
	}

	p.logger.Info("recording", "duration", opts.RecordDuration)
	return p.recorder.Record(ctx, opts.RecordDuration)
}

func (p *Pipeline) fail(result *Result, stage domain.Stage, err error) error {
	stageErr := &domain.StageError{Stage: stage, Err: err}
	result.Stage = domain.StageFailed
	result.FailedStage = stage
	result.Err = stageErr
	p.logger.Error("pipeline stage failed", "stage", stage, "error", err)
	return stageErr
}

func publishTitle(artifact domain.AudioArtifact) string {
	return "Action Items from: " + filepath.Base(artifact.Path)
}
