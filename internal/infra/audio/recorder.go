//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"

	"meeting-scribe/internal/domain"
)

// DeviceRecorder captures from the default input device. Each recording is
// written to its own uuid-named temp file so concurrent runs never share a
// path.
type DeviceRecorder struct {
	sampleRate int
	channels   int
	tempDir    string
	logger     *slog.Logger
}

func NewDeviceRecorder(sampleRate, channels int, tempDir string, logger *slog.Logger) *DeviceRecorder {
	return &DeviceRecorder{
		sampleRate: sampleRate,
		channels:   channels,
		tempDir:    tempDir,
		logger:     logger,
	}
}

func (r *DeviceRecorder) Record(ctx context.Context, duration time.Duration) (domain.AudioArtifact, error) {
	if err := portaudio.Initialize(); err != nil {
		return domain.AudioArtifact{}, fmt.Errorf("%w: initializing portaudio: %v", domain.ErrDeviceUnavailable, err)
	}
	defer portaudio.Terminate()

	framesPerBuffer := 1024
	frame := make([]int16, framesPerBuffer*r.channels)

	stream, err := portaudio.OpenDefaultStream(r.channels, 0, float64(r.sampleRate), framesPerBuffer, frame)
	if err != nil {
		return domain.AudioArtifact{}, fmt.Errorf("%w: opening input stream: %v", domain.ErrDeviceUnavailable, err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return domain.AudioArtifact{}, fmt.Errorf("%w: starting input stream: %v", domain.ErrDeviceUnavailable, err)
	}
	defer stream.Stop()

	r.logger.Info("recording started", "sample_rate", r.sampleRate, "duration", duration)

	target := int(duration.Seconds()*float64(r.sampleRate)) * r.channels
	samples := make([]int16, 0, target)

	for len(samples) < target {
		select {
		case <-ctx.Done():
			// stop signal: keep what was captured so far
			r.logger.Info("recording stopped early", "captured_samples", len(samples))
			return r.save(samples)
		default:
		}

		if err := stream.Read(); err != nil {
			return domain.AudioArtifact{}, fmt.Errorf("reading from input stream: %w", err)
		}
		samples = append(samples, frame...)
	}

	return r.save(samples)
}

func (r *DeviceRecorder) save(samples []int16) (domain.AudioArtifact, error) {
	path := filepath.Join(r.tempDir, "recording-"+uuid.NewString()+".wav")
	data := EncodeWAV(samples, r.sampleRate, r.channels)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.AudioArtifact{}, fmt.Errorf("writing recording: %w", err)
	}

	seconds := float64(len(samples)) / float64(r.sampleRate*r.channels)
	artifact := domain.AudioArtifact{
		Path:       path,
		SampleRate: r.sampleRate,
		Channels:   r.channels,
		Duration:   time.Duration(seconds * float64(time.Second)),
	}
	r.logger.Info("recording saved", "path", path, "duration", artifact.Duration)
	return artifact, nil
}
