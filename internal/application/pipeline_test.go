package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"meeting-scribe/internal/application"
	"meeting-scribe/internal/domain"
)

type mockRecorder struct {
	artifact domain.AudioArtifact
	err      error
	calls    int
}

func (m *mockRecorder) Record(_ context.Context, _ time.Duration) (domain.AudioArtifact, error) {
	m.calls++
	return m.artifact, m.err
}

type mockTranscriber struct {
	transcript domain.Transcript
	err        error
	calls      int
}

func (m *mockTranscriber) Transcribe(_ context.Context, _ domain.AudioArtifact, tier domain.ModelTier) (domain.Transcript, error) {
	m.calls++
	if m.err != nil {
		return domain.Transcript{}, m.err
	}
	t := m.transcript
	t.Tier = tier
	return t, nil
}

type mockAnalyzer struct {
	summary    string
	items      []string
	summaryErr error
	itemsErr   error
	calls      int
}

func (m *mockAnalyzer) Summarize(_ context.Context, _ domain.Transcript, _ string) (string, error) {
	m.calls++
	return m.summary, m.summaryErr
}

func (m *mockAnalyzer) ActionItems(_ context.Context, _ domain.Transcript, _ string) ([]string, error) {
	m.calls++
	return m.items, m.itemsErr
}

type mockPublisher struct {
	err    error
	calls  int
	title  string
	url    string
	result domain.AnalysisResult
}

func (m *mockPublisher) Publish(_ context.Context, result domain.AnalysisResult, title, webhookURL string) error {
	m.calls++
	m.result = result
	m.title = title
	m.url = webhookURL
	return m.err
}

type mockGate struct {
	transcribeAnswer bool
	publishAnswer    bool
	publishAsked     int
}

func (m *mockGate) ConfirmTranscription(_ context.Context, _ domain.AudioArtifact) (bool, error) {
	return m.transcribeAnswer, nil
}

func (m *mockGate) ConfirmPublish(_ context.Context, _ domain.AnalysisResult) (bool, error) {
	m.publishAsked++
	return m.publishAnswer, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func approveAll() *mockGate {
	return &mockGate{transcribeAnswer: true, publishAnswer: true}
}

func newPipeline(r *mockRecorder, t *mockTranscriber, a *mockAnalyzer, p *mockPublisher, g *mockGate) *application.Pipeline {
	return application.NewPipeline(r, t, a, p, g, application.NoopPresenter{}, testLogger())
}

func TestPipeline_FullRun(t *testing.T) {
	recorder := &mockRecorder{artifact: domain.AudioArtifact{Path: "/tmp/meeting.wav"}}
	transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "we should ship on friday"}}
	analyzer := &mockAnalyzer{summary: "a short meeting", items: []string{"Ship on Friday"}}
	publisher := &mockPublisher{}
	gate := approveAll()

	pipeline := newPipeline(recorder, transcriber, analyzer, publisher, gate)

	result, err := pipeline.Run(context.Background(), application.RunOptions{
		RecordDuration: 5 * time.Second,
		Tier:           domain.TierTiny,
		WebhookURL:     "https://example.com/hook",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.Stage != domain.StageDone {
		t.Errorf("Stage: got %s, want done", result.Stage)
	}
	if !result.Published {
		t.Error("expected result to be published")
	}
	if publisher.calls != 1 {
		t.Errorf("publisher calls: got %d, want 1", publisher.calls)
	}
	if publisher.title != "Action Items from: meeting.wav" {
		t.Errorf("publish title: got %q", publisher.title)
	}
	if publisher.url != "https://example.com/hook" {
		t.Errorf("publish url: got %q", publisher.url)
	}
}

func TestPipeline_NoWebhookNeverPublishes(t *testing.T) {
	recorder := &mockRecorder{artifact: domain.AudioArtifact{Path: "/tmp/a.wav"}}
	transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "some text"}}
	analyzer := &mockAnalyzer{summary: "s", items: []string{"task"}}
	publisher := &mockPublisher{}
	gate := approveAll()

	pipeline := newPipeline(recorder, transcriber, analyzer, publisher, gate)

	result, err := pipeline.Run(context.Background(), application.RunOptions{Tier: domain.TierTiny})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if publisher.calls != 0 {
		t.Errorf("publisher should not be called without a webhook, got %d calls", publisher.calls)
	}
	if gate.publishAsked != 0 {
		t.Error("publish gate should not be consulted without a webhook")
	}
	if result.Stage != domain.StageDone {
		t.Errorf("Stage: got %s, want done", result.Stage)
	}
}

func TestPipeline_PublishDeclined(t *testing.T) {
	recorder := &mockRecorder{artifact: domain.AudioArtifact{Path: "/tmp/a.wav"}}
	transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "some text"}}
	analyzer := &mockAnalyzer{summary: "s", items: []string{"task"}}
	publisher := &mockPublisher{}
	gate := &mockGate{transcribeAnswer: true, publishAnswer: false}

	pipeline := newPipeline(recorder, transcriber, analyzer, publisher, gate)

	result, err := pipeline.Run(context.Background(), application.RunOptions{
		Tier:       domain.TierTiny,
		WebhookURL: "https://example.com/hook",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if gate.publishAsked != 1 {
		t.Errorf("publish gate asked %d times, want 1", gate.publishAsked)
	}
	if publisher.calls != 0 {
		t.Error("publisher called despite declined gate")
	}
	if result.Published {
		t.Error("result marked published despite declined gate")
	}
}

func TestPipeline_NoActionItemsSkipsPublishDecision(t *testing.T) {
	recorder := &mockRecorder{artifact: domain.AudioArtifact{Path: "/tmp/a.wav"}}
	transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "sunny day chatter"}}
	analyzer := &mockAnalyzer{summary: "weather talk"}
	publisher := &mockPublisher{}
	gate := approveAll()

	pipeline := newPipeline(recorder, transcriber, analyzer, publisher, gate)

	result, err := pipeline.Run(context.Background(), application.RunOptions{
		Tier:       domain.TierTiny,
		WebhookURL: "https://example.com/hook",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if gate.publishAsked != 0 {
		t.Error("publish gate consulted despite empty action list")
	}
	if publisher.calls != 0 {
		t.Error("publisher called despite empty action list")
	}
	if result.Stage != domain.StageDone {
		t.Errorf("Stage: got %s, want done", result.Stage)
	}
}

func TestPipeline_SuppliedArtifactSkipsRecorder(t *testing.T) {
	recorder := &mockRecorder{err: domain.ErrDeviceUnavailable}
	transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "uploaded audio"}}
	analyzer := &mockAnalyzer{summary: "s"}
	publisher := &mockPublisher{}

	pipeline := newPipeline(recorder, transcriber, analyzer, publisher, approveAll())

	artifact := domain.AudioArtifact{Path: "/tmp/upload.wav", SampleRate: 44100, Channels: 1}
	result, err := pipeline.Run(context.Background(), application.RunOptions{
		Artifact: &artifact,
		Tier:     domain.TierBase,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if recorder.calls != 0 {
		t.Error("recorder called despite supplied artifact")
	}
	if result.Transcript == nil || result.Transcript.Text != "uploaded audio" {
		t.Errorf("unexpected transcript: %+v", result.Transcript)
	}
}

func TestPipeline_TranscriptionDeclinedStopsCleanly(t *testing.T) {
	recorder := &mockRecorder{artifact: domain.AudioArtifact{Path: "/tmp/a.wav"}}
	transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "text"}}
	analyzer := &mockAnalyzer{}
	publisher := &mockPublisher{}
	gate := &mockGate{transcribeAnswer: false}

	pipeline := newPipeline(recorder, transcriber, analyzer, publisher, gate)

	result, err := pipeline.Run(context.Background(), application.RunOptions{Tier: domain.TierTiny})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if transcriber.calls != 0 {
		t.Error("transcriber called despite declined confirmation")
	}
	if result.Stage != domain.StageDone {
		t.Errorf("Stage: got %s, want done", result.Stage)
	}
	if result.Artifact == nil {
		t.Error("artifact should be retained")
	}
}

func TestPipeline_FailureReportsStageAndKeepsPriorResults(t *testing.T) {
	cases := []struct {
		name      string
		setup     func(*mockRecorder, *mockTranscriber, *mockAnalyzer, *mockPublisher)
		wantStage domain.Stage
		wantErr   error
		check     func(*testing.T, *application.Result)
	}{
		{
			name: "recorder fails",
			setup: func(r *mockRecorder, _ *mockTranscriber, _ *mockAnalyzer, _ *mockPublisher) {
				r.err = domain.ErrDeviceUnavailable
			},
			wantStage: domain.StageRecording,
			wantErr:   domain.ErrDeviceUnavailable,
			check: func(t *testing.T, res *application.Result) {
				if res.Artifact != nil {
					t.Error("no artifact expected")
				}
			},
		},
		{
			name: "transcriber fails",
			setup: func(_ *mockRecorder, tr *mockTranscriber, _ *mockAnalyzer, _ *mockPublisher) {
				tr.err = domain.ErrModelLoad
			},
			wantStage: domain.StageTranscribing,
			wantErr:   domain.ErrModelLoad,
			check: func(t *testing.T, res *application.Result) {
				if res.Artifact == nil {
					t.Error("artifact should be retained")
				}
			},
		},
		{
			name: "analyzer fails",
			setup: func(_ *mockRecorder, _ *mockTranscriber, a *mockAnalyzer, _ *mockPublisher) {
				a.summaryErr = domain.ErrBackendUnreachable
			},
			wantStage: domain.StageAnalyzing,
			wantErr:   domain.ErrBackendUnreachable,
			check: func(t *testing.T, res *application.Result) {
				if res.Transcript == nil {
					t.Error("transcript should be retained")
				}
			},
		},
		{
			name: "action items fail after summary",
			setup: func(_ *mockRecorder, _ *mockTranscriber, a *mockAnalyzer, _ *mockPublisher) {
				a.itemsErr = domain.ErrBackendError
			},
			wantStage: domain.StageAnalyzing,
			wantErr:   domain.ErrBackendError,
			check: func(t *testing.T, res *application.Result) {
				if res.Analysis == nil || res.Analysis.Summary != "summary" {
					t.Error("summary should be retained")
				}
			},
		},
		{
			name: "publisher fails",
			setup: func(_ *mockRecorder, _ *mockTranscriber, _ *mockAnalyzer, p *mockPublisher) {
				p.err = domain.ErrDeliveryFailure
			},
			wantStage: domain.StagePublishing,
			wantErr:   domain.ErrDeliveryFailure,
			check: func(t *testing.T, res *application.Result) {
				if res.Analysis == nil || len(res.Analysis.ActionItems) != 1 {
					t.Error("analysis should be retained")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := &mockRecorder{artifact: domain.AudioArtifact{Path: "/tmp/a.wav"}}
			transcriber := &mockTranscriber{transcript: domain.Transcript{Text: "meeting notes"}}
			analyzer := &mockAnalyzer{summary: "summary", items: []string{"task"}}
			publisher := &mockPublisher{}
			tc.setup(recorder, transcriber, analyzer, publisher)

			pipeline := newPipeline(recorder, transcriber, analyzer, publisher, approveAll())

			result, err := pipeline.Run(context.Background(), application.RunOptions{
				Tier:       domain.TierTiny,
				WebhookURL: "https://example.com/hook",
			})
			if err == nil {
				t.Fatal("expected an error")
			}

			if result.Stage != domain.StageFailed {
				t.Errorf("Stage: got %s, want failed", result.Stage)
			}
			if result.FailedStage != tc.wantStage {
				t.Errorf("FailedStage: got %s, want %s", result.FailedStage, tc.wantStage)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tc.wantErr)
			}

			var stageErr *domain.StageError
			if !errors.As(err, &stageErr) {
				t.Fatal("error is not a StageError")
			}
			if stageErr.Stage != tc.wantStage {
				t.Errorf("StageError.Stage: got %s, want %s", stageErr.Stage, tc.wantStage)
			}

			tc.check(t, result)
		})
	}
}
